package sim

import "github.com/vovakirdan/rule-runner/internal/core"

// EntityKind classifies spawned entities.
type EntityKind uint8

const (
	EntityCactus EntityKind = iota
	EntityBird
	EntityCoin
	EntityPowerup
	EntityMeteor
	EntityWindStreak
)

func (k EntityKind) String() string {
	switch k {
	case EntityCactus:
		return "cactus"
	case EntityBird:
		return "bird"
	case EntityCoin:
		return "coin"
	case EntityPowerup:
		return "powerup"
	case EntityMeteor:
		return "meteor"
	case EntityWindStreak:
		return "wind"
	default:
		return "unknown"
	}
}

// IsObstacle reports whether touching the entity ends the run.
func (k EntityKind) IsObstacle() bool {
	return k == EntityCactus || k == EntityBird
}

// ObstacleClass is the anti-repetition tag of an obstacle spawn.
type ObstacleClass uint8

const (
	ClassNone ObstacleClass = iota
	ClassCactus
	ClassBirdLow
	ClassBirdHigh
)

func (c ObstacleClass) String() string {
	switch c {
	case ClassCactus:
		return "cactus"
	case ClassBirdLow:
		return "bird_low"
	case ClassBirdHigh:
		return "bird_high"
	default:
		return "none"
	}
}

// LowClearance reports whether the obstacle has to be jumped over.
func (c ObstacleClass) LowClearance() bool {
	return c == ClassCactus || c == ClassBirdLow
}

// PowerupKind is the effect granted by a power-up pickup.
type PowerupKind uint8

const (
	PowerupTurbo PowerupKind = iota
	PowerupShield
	PowerupDoubleJump
)

func (p PowerupKind) String() string {
	switch p {
	case PowerupTurbo:
		return "turbo"
	case PowerupShield:
		return "shield"
	default:
		return "double_jump"
	}
}

// Entity is a transient world object. Box uses world units with y up.
type Entity struct {
	ID      uint64
	Kind    EntityKind
	Class   ObstacleClass
	Powerup PowerupKind
	Box     core.Box
	VelX    float64 // only wind streaks carry their own velocity
	Life    float64
}

// entityList is the world collection owned by a run.
type entityList []Entity

// advance scrolls every entity and drops the ones that left the field.
func (l entityList) advance(dt, scroll, meteorSpeed, width float64) entityList {
	valid := l[:0]
	for _, e := range l {
		switch e.Kind {
		case EntityMeteor:
			e.Box.X -= meteorSpeed * dt
		case EntityWindStreak:
			e.Box.X += e.VelX * dt
			e.Life -= dt
			if e.Life <= 0 || (e.VelX > 0 && e.Box.X > width) {
				continue
			}
		default:
			e.Box.X -= scroll * dt
		}
		if e.Box.Right() < 0 && !(e.Kind == EntityWindStreak && e.VelX > 0) {
			continue
		}
		valid = append(valid, e)
	}
	return valid
}

// hits returns the indices of entities matching kind that overlap box.
func (l entityList) hits(box core.Box, match func(EntityKind) bool) []int {
	var idx []int
	for i, e := range l {
		if match(e.Kind) && e.Box.Intersects(box) {
			idx = append(idx, i)
		}
	}
	return idx
}

// without removes the given sorted indices.
func (l entityList) without(idx []int) entityList {
	if len(idx) == 0 {
		return l
	}
	valid := l[:0]
	j := 0
	for i, e := range l {
		if j < len(idx) && idx[j] == i {
			j++
			continue
		}
		valid = append(valid, e)
	}
	return valid
}
