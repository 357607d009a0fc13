package runner

import (
	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/shop"
)

// ProfileStore is the persisted player state a profile is read from.
type ProfileStore interface {
	Features(defaults config.Features) (config.Features, error)
	Owned() (map[string]bool, error)
}

// StoreProfile reads toggles and owned upgrades from store before each run.
// Toggles not stored fall back to defaults.
func StoreProfile(store ProfileStore, defaults config.Features) ProfileSource {
	return func() (Profile, error) {
		features, err := store.Features(defaults)
		if err != nil {
			return Profile{}, err
		}
		owned, err := store.Owned()
		if err != nil {
			return Profile{}, err
		}
		return Profile{Features: features, Upgrades: shop.UpgradesFrom(owned)}, nil
	}
}
