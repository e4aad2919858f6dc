// Package state implements the coin record store of the simulator: one
// record per coin identity, a creation-ordered live set, a puzzle hash
// index for owner queries and a blake2b trie commitment over the unspent
// coin set. The map index replaces linear scans of the coin list, so
// lookup, spend and uniqueness checks are constant time
package state

import (
	"fmt"

	"github.com/lunfardo314/unitrie/common"
	"github.com/lunfardo314/unitrie/immutable"
	"github.com/lunfardo314/unitrie/models/trie_blake2b"
	"github.com/lunfardo314/utxosim/ledger"
)

type (
	// Store backs the commitment trie
	Store interface {
		common.KVReader
		common.BatchedUpdatable
	}

	// IndexStore backs the puzzle hash index
	IndexStore interface {
		common.KVReader
		common.BatchedUpdatable
		common.Traversable
	}

	// CoinState owns all coin records. The trie only commits the unspent
	// set; all queries are answered from the record map
	CoinState struct {
		store   Store
		root    common.VCommitment
		records map[ledger.CoinID]*ledger.CoinRecord
		order   []ledger.CoinID // creation order, for deterministic iteration
		index   IndexStore
		pending []mutation // trie updates staged until the next Commit
	}

	mutation struct {
		key   []byte
		value []byte // nil means delete
	}

	// Filter selects coins by equality over known record fields. A nil
	// field matches everything. When Spent is nil only unspent coins are
	// returned, which is what live coin set introspection wants
	Filter struct {
		Coinbase            *bool
		Spent               *bool
		ConfirmedBlockIndex *uint32
		PuzzleHash          *ledger.PuzzleHash
	}
)

// commitment model singleton, same shape as the ledger state trie

var commitmentModel = trie_blake2b.New(common.PathArity16, trie_blake2b.HashSize256)

// NewInMemory creates an empty coin state committed into an in-memory store.
// The identity bytes seed the empty trie root
func NewInMemory(identity []byte) *CoinState {
	store := common.NewInMemoryKVStore()
	root := immutable.MustInitRoot(store, commitmentModel, identity)
	return &CoinState{
		store:   store,
		root:    root,
		records: make(map[ledger.CoinID]*ledger.CoinRecord),
		order:   make([]ledger.CoinID, 0),
		index:   common.NewInMemoryKVStore(),
	}
}

// Add creates the unspent record for a new coin. It is a contract violation
// if a record for the coin identity already exists
func (cs *CoinState) Add(coin ledger.Coin, height uint32, timestamp uint64, coinbase bool) error {
	id := coin.ID()
	if _, already := cs.records[id]; already {
		return fmt.Errorf("%w: record for %s already exists", ledger.ErrInvariant, coin.String())
	}
	cs.records[id] = &ledger.CoinRecord{
		Coin:                coin,
		ConfirmedBlockIndex: height,
		Spent:               false,
		Coinbase:            coinbase,
		Timestamp:           timestamp,
	}
	cs.order = append(cs.order, id)
	cs.pending = append(cs.pending, mutation{key: id.Bytes(), value: coin.Bytes()})

	w := cs.index.BatchedWriter()
	w.Set(common.Concat(coin.PuzzleHash[:], id[:]), []byte{0xff})
	return w.Commit()
}

// Spend marks the unique record of the coin spent at the given height.
// Exactly one unspent record must exist, otherwise the contract is broken
// and nothing is mutated
func (cs *CoinState) Spend(coin ledger.Coin, height uint32, timestamp uint64) error {
	id := coin.ID()
	if err := cs.CheckCanSpend(coin); err != nil {
		return err
	}
	old := cs.records[id]
	updated := *old
	updated.SpentBlockIndex = height
	updated.Spent = true
	updated.Timestamp = timestamp
	cs.records[id] = &updated
	cs.pending = append(cs.pending, mutation{key: id.Bytes(), value: nil})

	w := cs.index.BatchedWriter()
	w.Set(common.Concat(coin.PuzzleHash[:], id[:]), nil)
	return w.Commit()
}

// CheckCanSpend reports whether spending the coin would affect exactly one
// unspent record. Used to pre-validate a whole farming round before any
// mutation is applied
func (cs *CoinState) CheckCanSpend(coin ledger.Coin) error {
	rec, found := cs.records[coin.ID()]
	if !found {
		return fmt.Errorf("%w: no record for %s", ledger.ErrInvariant, coin.String())
	}
	if rec.Spent {
		return fmt.Errorf("%w: %s is already spent", ledger.ErrInvariant, coin.String())
	}
	return nil
}

// Record returns a copy of the record for the coin identity
func (cs *CoinState) Record(id ledger.CoinID) (*ledger.CoinRecord, bool) {
	rec, found := cs.records[id]
	if !found {
		return nil, false
	}
	ret := *rec
	return &ret, true
}

func (cs *CoinState) NumRecords() int {
	return len(cs.records)
}

// Unspent returns the live coin set in creation order
func (cs *CoinState) Unspent() []ledger.Coin {
	ret := make([]ledger.Coin, 0, len(cs.order))
	for _, id := range cs.order {
		if rec := cs.records[id]; !rec.Spent {
			ret = append(ret, rec.Coin)
		}
	}
	return ret
}

func (cs *CoinState) NumUnspent() int {
	return len(cs.Unspent())
}

// Coins returns coins whose record satisfies the filter, in creation order
func (cs *CoinState) Coins(flt Filter) []ledger.Coin {
	ret := make([]ledger.Coin, 0)
	for _, id := range cs.order {
		rec := cs.records[id]
		if flt.Spent == nil && rec.Spent {
			continue
		}
		if flt.Spent != nil && rec.Spent != *flt.Spent {
			continue
		}
		if flt.Coinbase != nil && rec.Coinbase != *flt.Coinbase {
			continue
		}
		if flt.ConfirmedBlockIndex != nil && rec.ConfirmedBlockIndex != *flt.ConfirmedBlockIndex {
			continue
		}
		if flt.PuzzleHash != nil && rec.Coin.PuzzleHash != *flt.PuzzleHash {
			continue
		}
		ret = append(ret, rec.Coin)
	}
	return ret
}

// CoinsForPuzzleHash answers the owner query from the index instead of
// scanning all records
func (cs *CoinState) CoinsForPuzzleHash(ph ledger.PuzzleHash) []ledger.Coin {
	ret := make([]ledger.Coin, 0)
	cs.index.Iterator(ph[:]).Iterate(func(k, _ []byte) bool {
		id, err := ledger.CoinIDFromBytes(k[ledger.PuzzleHashLength:])
		if err != nil {
			return false
		}
		if rec, found := cs.records[id]; found && !rec.Spent {
			ret = append(ret, rec.Coin)
		}
		return true
	})
	return ret
}

// Root is the commitment to the unspent coin set as of the last Commit
func (cs *CoinState) Root() common.VCommitment {
	return cs.root.Clone()
}

// Commit folds all staged mutations into the trie and returns the new root
func (cs *CoinState) Commit() (common.VCommitment, error) {
	if len(cs.pending) == 0 {
		return cs.Root(), nil
	}
	trie, err := immutable.NewTrieUpdatable(commitmentModel, cs.store, cs.root)
	if err != nil {
		return nil, err
	}
	for _, m := range cs.pending {
		trie.Update(m.key, m.value)
	}
	batch := cs.store.BatchedWriter()
	cs.root = trie.Commit(batch)
	if err = batch.Commit(); err != nil {
		return nil, err
	}
	cs.pending = cs.pending[:0]
	return cs.Root(), nil
}
