// Package variant implements the per-scenario overlay: a reversible set
// of deltas applied to a network.Network — outages, cost edits,
// set-points, threshold edits — with transactional Apply/Rollback.
//
// The overlay never mutates network.Network directly from caller code;
// every delta goes through the narrow setter surface network.Network
// exposes for exactly this purpose, and records the prior value so
// Rollback can restore it bit-identically.
package variant

import "github.com/metrix-scopf/metrix/internal/network"

// Delta is one reversible change. apply applies it and returns an undo
// closure; apply is called in order, undo in reverse order (LIFO), matching
// ordinary transaction-log semantics.
type Delta interface {
	apply(net *network.Network) (undo func(net *network.Network), err error)
}

// Overlay is an ordered list of deltas plus the undo stack built up by Apply.
type Overlay struct {
	name    string
	deltas  []Delta
	undo    []func(net *network.Network)
	applied bool
}

// New returns an empty Overlay identified by name (e.g. the variant ID,
// or "base" for the irreversibly-applied base variant).
func New(name string) *Overlay {
	return &Overlay{name: name}
}

// Name returns the overlay's identifying name.
func (o *Overlay) Name() string { return o.name }

// Add appends a delta to the overlay. Deltas added after Apply has run
// take effect only on the next Apply call following a Rollback.
func (o *Overlay) Add(d Delta) { o.deltas = append(o.deltas, d) }

// Apply runs every delta against net in order, building the undo stack.
// If a delta fails partway through, every delta applied so far in this call
// is rolled back before the error is returned, so a failed Apply never
// leaves net half-mutated — the caller can mark the variant ignored and
// move on to the next one.
func (o *Overlay) Apply(net *network.Network) error {
	if o.applied {
		return ErrAlreadyApplied
	}
	net.Mu().Lock()
	defer net.Mu().Unlock()

	applied := 0
	for _, d := range o.deltas {
		undo, err := d.apply(net)
		if err != nil {
			// unwind what we just did, most-recent first
			for i := applied - 1; i >= 0; i-- {
				o.undo[len(o.undo)-1](net)
				o.undo = o.undo[:len(o.undo)-1]
			}
			return err
		}
		o.undo = append(o.undo, undo)
		applied++
	}
	o.applied = true
	return nil
}

// Rollback undoes every delta, most-recently-applied first, restoring net
// to its pre-Apply state.
func (o *Overlay) Rollback(net *network.Network) error {
	if !o.applied {
		return ErrNotApplied
	}
	net.Mu().Lock()
	defer net.Mu().Unlock()

	for i := len(o.undo) - 1; i >= 0; i-- {
		o.undo[i](net)
	}
	o.undo = nil
	o.applied = false
	return nil
}

// Applied reports whether the overlay is currently applied.
func (o *Overlay) Applied() bool { return o.applied }
