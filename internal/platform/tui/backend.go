package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/shop"
	"github.com/vovakirdan/rule-runner/internal/storage"
)

// Backend bundles what the screens persist to. Store may be nil, in which
// case runs are not saved and the shop and settings screens are read-only.
type Backend struct {
	Store    *storage.Store
	Shop     *shop.Shop
	Features config.Features // defaults for settings without a stored row
	Logger   *log.Logger
}

// NewBackend wires the shop to store.
func NewBackend(store *storage.Store, features config.Features, logger *log.Logger) Backend {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := Backend{Store: store, Features: features, Logger: logger}
	if store != nil {
		b.Shop = shop.New(shop.DefaultCatalog(), store)
	}
	return b
}

// recordRun persists a finished run. Failures are logged; play goes on.
func (b Backend) recordRun(out *core.RunOutcome) {
	if b.Store == nil || out == nil {
		return
	}
	rec, err := b.Store.RecordRun(*out)
	if err != nil {
		b.Logger.Error("cannot record run", "mode", out.Mode, "err", err)
		return
	}
	b.Logger.Info("run recorded", "id", rec.ID, "mode", rec.Mode, "score", rec.Score, "coins", rec.Coins)
}
