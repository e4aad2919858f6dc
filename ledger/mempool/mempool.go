// Package mempool keeps the spend bundles admitted but not yet included in
// a block. Insertion order is preserved because block assembly must be
// deterministic; it is not a priority order
package mempool

import (
	"github.com/lunfardo314/utxosim/ledger"
)

type Mempool struct {
	bundles []*ledger.SpendBundle
	byID    map[ledger.BundleID]*ledger.SpendBundle
}

func New() *Mempool {
	return &Mempool{
		bundles: make([]*ledger.SpendBundle, 0),
		byID:    make(map[ledger.BundleID]*ledger.SpendBundle),
	}
}

// Contains checks content identity: same coin spends and same signature
func (m *Mempool) Contains(bundle *ledger.SpendBundle) bool {
	_, found := m.byID[bundle.ID()]
	return found
}

// Admit appends the bundle. The caller has already validated it
func (m *Mempool) Admit(bundle *ledger.SpendBundle) {
	m.bundles = append(m.bundles, bundle)
	m.byID[bundle.ID()] = bundle
}

// Drain removes and returns all pending bundles in admission order
func (m *Mempool) Drain() []*ledger.SpendBundle {
	ret := m.bundles
	m.bundles = make([]*ledger.SpendBundle, 0)
	m.byID = make(map[ledger.BundleID]*ledger.SpendBundle)
	return ret
}

// PendingRemovals is the set of coin identities already reserved by pending
// bundles. A newly submitted bundle conflicts if it spends any of them
func (m *Mempool) PendingRemovals() map[ledger.CoinID]struct{} {
	ret := make(map[ledger.CoinID]struct{})
	for _, b := range m.bundles {
		for _, coin := range b.Removals() {
			ret[coin.ID()] = struct{}{}
		}
	}
	return ret
}

// Bundles returns the pending bundles in admission order, without draining
func (m *Mempool) Bundles() []*ledger.SpendBundle {
	ret := make([]*ledger.SpendBundle, len(m.bundles))
	copy(ret, m.bundles)
	return ret
}

func (m *Mempool) Len() int {
	return len(m.bundles)
}
