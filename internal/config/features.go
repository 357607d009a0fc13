package config

import (
	"errors"
	"fmt"
)

// ErrUnknownFeature is returned for a toggle name that does not exist.
var ErrUnknownFeature = errors.New("unknown feature")

// FeatureKeys lists the toggle names in display order.
var FeatureKeys = []string{"wind", "day_night", "events", "meteors", "golden", "sound"}

func (f *Features) field(key string) (*bool, error) {
	switch key {
	case "wind":
		return &f.Wind, nil
	case "day_night":
		return &f.DayNight, nil
	case "events":
		return &f.Events, nil
	case "meteors":
		return &f.Meteors, nil
	case "golden":
		return &f.Golden, nil
	case "sound":
		return &f.Sound, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, key)
}

// Get returns the value of a toggle by name.
func (f Features) Get(key string) (bool, error) {
	p, err := f.field(key)
	if err != nil {
		return false, err
	}
	return *p, nil
}

// Set changes a toggle by name.
func (f *Features) Set(key string, on bool) error {
	p, err := f.field(key)
	if err != nil {
		return err
	}
	*p = on
	return nil
}
