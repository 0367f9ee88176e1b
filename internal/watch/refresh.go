// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
)

// Refresher holds the current catalog and replaces it on every rebuild.
// Current is safe to call from any goroutine; readers keep whatever catalog
// they loaded, since catalogs are never mutated.
type Refresher struct {
	opts    catalog.Options
	current atomic.Pointer[catalog.Catalog]

	// OnUpdate, when set, is called after every successful rebuild.
	OnUpdate func(res *catalog.Result, changed []string)
}

// NewRefresher returns a refresher that serves initial until the first rebuild.
func NewRefresher(opts catalog.Options, initial *catalog.Catalog) *Refresher {
	r := &Refresher{opts: opts}
	r.current.Store(initial)
	return r
}

// Current returns the latest catalog.
func (r *Refresher) Current() *catalog.Catalog {
	return r.current.Load()
}

// Rebuild builds a fresh catalog and publishes it. On failure the previous
// catalog stays current. It has the signature of Config.Rebuild.
func (r *Refresher) Rebuild(ctx context.Context, changed []string) error {
	res, err := catalog.Build(ctx, r.opts)
	if err != nil {
		return fmt.Errorf("rebuild catalog: %w", err)
	}
	r.current.Store(res.Catalog)
	if r.OnUpdate != nil {
		r.OnUpdate(res, changed)
	}
	return nil
}
