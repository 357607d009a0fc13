// Package shop is the upgrade catalog and the purchase flow. Owned items
// become sim.Upgrades for the next run.
package shop

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/vovakirdan/rule-runner/internal/sim"
)

// ErrUnknownItem is returned for an item ID that is not in the catalog.
var ErrUnknownItem = errors.New("shop: unknown item")

// Item IDs.
const (
	CoinBoost   = "coin_boost"
	ScoreBoost  = "score_boost"
	TurboPlus   = "turbo_plus"
	StartShield = "start_shield"
	SecretGuide = "secret_guide"
)

// Item is one purchasable upgrade.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       int
}

// Ledger is the persistent side of the shop.
type Ledger interface {
	Balance() (int, error)
	Owned() (map[string]bool, error)
	Purchase(itemID string, price int) error
	Grant(coins int) error
	Unlock(itemIDs ...string) error
}

// Catalog keeps items in display order.
type Catalog struct {
	items *orderedmap.OrderedMap[string, Item]
}

// NewCatalog builds a catalog from items; later duplicates replace earlier ones.
func NewCatalog(items ...Item) *Catalog {
	c := &Catalog{items: orderedmap.NewOrderedMap[string, Item]()}
	for _, it := range items {
		c.items.Set(it.ID, it)
	}
	return c
}

// DefaultCatalog is the shop of the full game.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Item{CoinBoost, "Coin Boost", "Every coin is worth 1.5x", 120},
		Item{ScoreBoost, "Score Boost", "+10% score multiplier", 150},
		Item{TurboPlus, "Turbo+", "Turbo lasts 1.5x longer", 120},
		Item{StartShield, "Start Shield", "Begin each run with a 3s shield", 200},
		Item{SecretGuide, "Secret Guide", "Tips for surviving the rules", 100},
	)
}

// Items returns every item in display order.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, c.items.Len())
	for el := c.items.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// IDs returns the item IDs in display order.
func (c *Catalog) IDs() []string {
	return c.items.Keys()
}

// Item looks up one item.
func (c *Catalog) Item(id string) (Item, error) {
	it, ok := c.items.Get(id)
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return it, nil
}

// Shop binds a catalog to a ledger.
type Shop struct {
	catalog *Catalog
	ledger  Ledger
}

// New creates a shop.
func New(catalog *Catalog, ledger Ledger) *Shop {
	return &Shop{catalog: catalog, ledger: ledger}
}

// Catalog returns the shop's catalog.
func (s *Shop) Catalog() *Catalog { return s.catalog }

// Buy purchases one item. Ledger errors such as storage.ErrAlreadyOwned and
// storage.ErrInsufficientCoins are returned wrapped.
func (s *Shop) Buy(id string) (Item, error) {
	it, err := s.catalog.Item(id)
	if err != nil {
		return Item{}, err
	}
	if err := s.ledger.Purchase(it.ID, it.Price); err != nil {
		return Item{}, fmt.Errorf("shop: cannot buy %s: %w", it.Name, err)
	}
	return it, nil
}

// Grant adds coins to the balance.
func (s *Shop) Grant(coins int) error {
	if coins <= 0 {
		return fmt.Errorf("shop: grant must be positive, got %d", coins)
	}
	return s.ledger.Grant(coins)
}

// UnlockAll marks every catalog item as owned.
func (s *Shop) UnlockAll() error {
	return s.ledger.Unlock(s.catalog.IDs()...)
}

// Entry is an item with its ownership state.
type Entry struct {
	Item
	Owned      bool
	Affordable bool
}

// Listing returns the catalog with ownership and the current balance.
func (s *Shop) Listing() ([]Entry, int, error) {
	balance, err := s.ledger.Balance()
	if err != nil {
		return nil, 0, err
	}
	owned, err := s.ledger.Owned()
	if err != nil {
		return nil, 0, err
	}
	items := s.catalog.Items()
	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i] = Entry{Item: it, Owned: owned[it.ID], Affordable: balance >= it.Price}
	}
	return entries, balance, nil
}

// Upgrades returns the run upgrades for the currently owned items.
func (s *Shop) Upgrades() (sim.Upgrades, error) {
	owned, err := s.ledger.Owned()
	if err != nil {
		return sim.Upgrades{}, err
	}
	return UpgradesFrom(owned), nil
}

// UpgradesFrom maps owned item IDs to run upgrades.
func UpgradesFrom(owned map[string]bool) sim.Upgrades {
	return sim.Upgrades{
		CoinBoost:   owned[CoinBoost],
		ScoreBoost:  owned[ScoreBoost],
		TurboPlus:   owned[TurboPlus],
		StartShield: owned[StartShield],
	}
}
