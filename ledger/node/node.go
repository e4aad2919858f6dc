// Package node implements the ledger orchestrator of the simulator: it owns
// the coin state, the mempool, the current height and timestamp, admits
// transactions and farms blocks. All operations are serialized behind one
// mutex; internally everything is sequential and synchronous
package node

import (
	"crypto/ed25519"
	"fmt"
	"sync"
	"time"

	"github.com/lunfardo314/utxosim/ledger"
	"github.com/lunfardo314/utxosim/ledger/coinbase"
	"github.com/lunfardo314/utxosim/ledger/generator"
	"github.com/lunfardo314/utxosim/ledger/mempool"
	"github.com/lunfardo314/utxosim/ledger/state"
	"github.com/lunfardo314/utxosim/ledger/validate"
	"go.uber.org/zap"
)

type (
	Node struct {
		mutex     sync.Mutex
		log       *zap.SugaredLogger
		par       *ledger.Params
		challenge [32]byte
		validate  validate.Func

		blockHeight uint32
		timestamp   uint64
		coinState   *state.CoinState
		mempool     *mempool.Mempool
		blocks      []*ledger.FullBlock
	}

	// FarmResult is what one farming round changed: every coin created
	// (reward coins first) and every coin spent
	FarmResult struct {
		Block     *ledger.FullBlock
		Additions []ledger.Coin
		Removals  []ledger.Coin
	}
)

// New creates a fresh ledger at height 0 with the wall clock timestamp.
// nil params mean defaults, nil logger means no logging
func New(par *ledger.Params, log *zap.SugaredLogger) (*Node, error) {
	if par == nil {
		par = ledger.DefaultParams()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	challenge, err := par.GenesisChallenge()
	if err != nil {
		return nil, err
	}
	return &Node{
		log:       log.Named("node"),
		par:       par,
		challenge: challenge,
		validate:  validate.Default(par),
		timestamp: uint64(time.Now().Unix()),
		coinState: state.NewInMemory(challenge[:]),
		mempool:   mempool.New(),
		blocks:    make([]*ledger.FullBlock, 0),
	}, nil
}

// WithValidator replaces the admission validator. Intended for wiring an
// external validation capability; must be called before use
func (n *Node) WithValidator(fn validate.Func) *Node {
	n.validate = fn
	return n
}

func (n *Node) Params() *ledger.Params {
	return n.par
}

func (n *Node) BlockHeight() uint32 {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.blockHeight
}

func (n *Node) Timestamp() uint64 {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.timestamp
}

func (n *Node) SetBlockHeight(height uint32) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.blockHeight = height
}

func (n *Node) SetTimestamp(ts uint64) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.timestamp = ts
}

// AddCoin appends the coin to the live set with an unspent record at the
// current height and timestamp
func (n *Node) AddCoin(coin ledger.Coin) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.coinState.Add(coin, n.blockHeight, n.timestamp, false)
}

// RemoveCoin spends the coin at the current height and timestamp. Removing
// a coin which is not in the live set is an invariant violation and leaves
// the state untouched
func (n *Node) RemoveCoin(coin ledger.Coin) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.coinState.Spend(coin, n.blockHeight, n.timestamp)
}

// GetCoins returns coins whose record satisfies the filter
func (n *Node) GetCoins(flt state.Filter) []ledger.Coin {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.coinState.Coins(flt)
}

// GetCoinRecord returns the record for the coin identity, if any
func (n *Node) GetCoinRecord(id ledger.CoinID) (*ledger.CoinRecord, bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.coinState.Record(id)
}

// CoinsForPuzzleHash returns the unspent coins owned by the puzzle hash
func (n *Node) CoinsForPuzzleHash(ph ledger.PuzzleHash) []ledger.Coin {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.coinState.CoinsForPuzzleHash(ph)
}

// Blocks returns the farmed block history
func (n *Node) Blocks() []*ledger.FullBlock {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	ret := make([]*ledger.FullBlock, len(n.blocks))
	copy(ret, n.blocks)
	return ret
}

// MempoolSize is the number of pending bundles
func (n *Node) MempoolSize() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.mempool.Len()
}

// StateRoot is the commitment to the unspent coin set as of the last farmed block
func (n *Node) StateRoot() string {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.coinState.Root().String()
}

// PushTx validates the bundle and, on SUCCESS, admits it into the mempool.
// Re-submitting an admitted bundle is SUCCESS with no state change. A FAILED
// verdict is returned as TransactionRejectedError carrying the validator's
// code; PENDING is neither admitted nor an error. Coin state is never
// mutated here: admission is provisional until the bundle is farmed
func (n *Node) PushTx(bundle *ledger.SpendBundle) (ledger.TxStatus, uint64, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	id := bundle.ID()
	if n.mempool.Contains(bundle) {
		// idempotent re-submission
		n.log.Debugf("pushTx: %s already in mempool", id.String())
		return ledger.StatusSuccess, 0, nil
	}

	cost, status, code := n.validate(bundle, n.mempool.PendingRemovals(), n.coinState, n.blockHeight)
	switch status {
	case ledger.StatusSuccess:
		n.mempool.Admit(bundle)
		n.log.Debugf("pushTx: admitted %s, cost %d", id.String(), cost)
	case ledger.StatusPending:
		n.log.Debugf("pushTx: pending %s: %s", id.String(), code.String())
	case ledger.StatusFailed:
		n.log.Debugf("pushTx: rejected %s: %s", id.String(), code.String())
		return status, cost, &ledger.TransactionRejectedError{Bundle: id, Code: code}
	}
	return status, cost, nil
}

// FarmBlock consumes the whole mempool as one atomic transition: it spends
// all removals, creates all additions, mints the pool and farmer reward
// coins for the given recipient key, appends the new block and advances the
// height. Removability of the entire round is verified before anything is
// mutated, so an invariant violation aborts with the state unchanged
func (n *Node) FarmBlock(publicKey ed25519.PublicKey) (*FarmResult, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	bundles := n.mempool.Bundles()

	var fees uint64
	removals := make([]ledger.Coin, 0)
	additions := make([]ledger.Coin, 0)
	for _, b := range bundles {
		fees += b.Fees()
		removals = append(removals, b.Removals()...)
		additions = append(additions, b.Additions()...)
	}

	ph := coinbase.PuzzleHashFromPublicKey(publicKey)
	poolCoin := coinbase.CreatePoolCoin(n.blockHeight, ph, coinbase.PoolReward(n.blockHeight), n.challenge)
	farmerCoin := coinbase.CreateFarmerCoin(n.blockHeight, ph, coinbase.BaseFarmerReward(n.blockHeight)+fees, n.challenge)

	if err := n.checkRound(removals, additions, poolCoin, farmerCoin); err != nil {
		return nil, err
	}

	// the whole round is now known to apply cleanly
	for _, coin := range removals {
		if err := n.coinState.Spend(coin, n.blockHeight, n.timestamp); err != nil {
			return nil, err
		}
	}
	for _, coin := range additions {
		if err := n.coinState.Add(coin, n.blockHeight, n.timestamp, false); err != nil {
			return nil, err
		}
	}
	if err := n.coinState.Add(poolCoin, n.blockHeight, n.timestamp, true); err != nil {
		return nil, err
	}
	if err := n.coinState.Add(farmerCoin, n.blockHeight, n.timestamp, true); err != nil {
		return nil, err
	}

	var program ledger.GeneratorProgram
	if len(bundles) > 0 {
		program = generator.SimpleSolutionGenerator(ledger.AggregateBundles(bundles...))
	}
	n.mempool.Drain()

	root, err := n.coinState.Commit()
	if err != nil {
		return nil, err
	}
	block := &ledger.FullBlock{
		RewardCoins: []ledger.Coin{poolCoin, farmerCoin},
		Generator:   program,
		Height:      n.blockHeight,
		StateRoot:   root,
	}
	n.blocks = append(n.blocks, block)
	n.log.Infof("farmed block %d: %d removals, %d additions, fees %d, root %s",
		n.blockHeight, len(removals), len(additions), fees, root.String())

	n.blockHeight++
	n.timestamp = uint64(time.Now().Unix())

	return &FarmResult{
		Block:     block,
		Additions: append([]ledger.Coin{poolCoin, farmerCoin}, additions...),
		Removals:  removals,
	}, nil
}

// checkRound verifies that every removal spends exactly one unspent record
// and every addition (rewards included) creates a fresh record, before any
// of them is applied
func (n *Node) checkRound(removals, additions []ledger.Coin, rewards ...ledger.Coin) error {
	seenRemovals := make(map[ledger.CoinID]struct{}, len(removals))
	for _, coin := range removals {
		id := coin.ID()
		if _, already := seenRemovals[id]; already {
			return fmt.Errorf("%w: duplicate removal %s in one round", ledger.ErrInvariant, coin.String())
		}
		seenRemovals[id] = struct{}{}
		if err := n.coinState.CheckCanSpend(coin); err != nil {
			return err
		}
	}
	seenAdditions := make(map[ledger.CoinID]struct{}, len(additions)+len(rewards))
	checkAddition := func(coin ledger.Coin) error {
		id := coin.ID()
		if _, already := seenAdditions[id]; already {
			return fmt.Errorf("%w: duplicate addition %s in one round", ledger.ErrInvariant, coin.String())
		}
		seenAdditions[id] = struct{}{}
		if _, exists := n.coinState.Record(id); exists {
			return fmt.Errorf("%w: addition %s already has a record", ledger.ErrInvariant, coin.String())
		}
		return nil
	}
	for _, coin := range additions {
		if err := checkAddition(coin); err != nil {
			return err
		}
	}
	for _, coin := range rewards {
		if err := checkAddition(coin); err != nil {
			return err
		}
	}
	return nil
}
