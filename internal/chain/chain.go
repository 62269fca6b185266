/*
Package chain implements the execution host the programs run on in tests and
operator tooling.

Chain keeps records and the asset ledger in one neo-go storage. Every
transaction runs on a MemCachedStore overlay which is persisted only if all
its instructions succeed, so a failed transaction leaves no trace in records
and balances alike.
*/
package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/extend-xyz/spacegrid/internal/token"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"go.uber.org/zap"
)

// ProgramID returns well-known identity of the named program.
func ProgramID(name string) common.Address {
	return hash.Sha256([]byte("spacegrid program " + name))
}

// Transaction is an atomic sequence of instructions.
type Transaction struct {
	Instructions []common.Instruction
	// Signers are identities which signed the transaction. Signature
	// verification is out of scope of the simulator.
	Signers []common.Address
}

type program struct {
	name    string
	handler common.Handler
}

// Chain is the host simulator. It is safe for concurrent use, transactions
// are executed one by one.
type Chain struct {
	log *zap.Logger

	mtx      sync.Mutex
	store    storage.Store
	programs map[common.Address]program
	token    common.Address
	now      uint64
}

// New returns Chain over the given storage. Asset ledger holding addresses
// are derived under tokenProgram.
func New(log *zap.Logger, store storage.Store, tokenProgram common.Address) *Chain {
	return &Chain{
		log:      log,
		store:    store,
		programs: make(map[common.Address]program),
		token:    tokenProgram,
	}
}

// NewFromConfig opens configured storage and constructs Chain over it.
func NewFromConfig(log *zap.Logger, cfg Config) (*Chain, Identities, error) {
	ids, err := cfg.Programs.Identities()
	if err != nil {
		return nil, Identities{}, err
	}

	dbCfg, err := cfg.Storage.DBConfiguration()
	if err != nil {
		return nil, Identities{}, err
	}

	st, err := storage.NewStore(dbCfg)
	if err != nil {
		return nil, Identities{}, fmt.Errorf("open storage: %w", err)
	}

	c := New(log, st, ids.Token)
	c.now = cfg.Time
	return c, ids, nil
}

// Close releases the storage.
func (c *Chain) Close() error {
	return c.store.Close()
}

// Register makes the program callable at the given identity.
func (c *Chain) Register(name string, id common.Address, h common.Handler) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.programs[id] = program{name: name, handler: h}
	c.log.Debug("program registered", zap.String("name", name), zap.String("id", common.EncodeAddress(id)))
}

// Now returns current clock value.
func (c *Chain) Now() uint64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

// SetTime sets the clock.
func (c *Chain) SetTime(now uint64) {
	c.mtx.Lock()
	c.now = now
	c.mtx.Unlock()
}

// Advance moves the clock forward.
func (c *Chain) Advance(secs uint64) {
	c.mtx.Lock()
	c.now += secs
	c.mtx.Unlock()
}

// TokenProgram returns identity holding addresses are derived under.
func (c *Chain) TokenProgram() common.Address {
	return c.token
}

// Submit executes the transaction atomically.
func (c *Chain) Submit(tx Transaction) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	id := uuid.New()
	log := c.log.With(zap.Stringer("tx", id))
	overlay := storage.NewMemCachedStore(c.store)

	for i, ins := range tx.Instructions {
		p, ok := c.programs[ins.Program]
		if !ok {
			return fmt.Errorf("instruction #%d: unknown program %s", i, common.EncodeAddress(ins.Program))
		}

		w := newWitnesses(ins.Program, tx.Signers)
		plog := log.With(zap.String("program", p.name))
		env := &common.Env{
			Program:   ins.Program,
			Now:       c.now,
			Store:     records{kv: overlay, program: ins.Program},
			Ledger:    token.New(overlay, w, c.token),
			Witnesses: w,
			Logger:    func(msg string) { plog.Info(msg) },
		}

		if err := p.handler.Process(env, ins.Records, ins.Data); err != nil {
			log.Debug("transaction rejected",
				zap.Int("instruction", i),
				zap.Uint32("code", common.CodeOf(err)),
				zap.Error(err))
			return fmt.Errorf("instruction #%d: %w", i, err)
		}
	}

	if _, err := overlay.Persist(); err != nil {
		return fmt.Errorf("persist transaction: %w", err)
	}

	log.Debug("transaction persisted", zap.Int("instructions", len(tx.Instructions)))
	return nil
}

// Send submits instructions signed by signers as one transaction.
func (c *Chain) Send(signers []common.Address, ins ...common.Instruction) error {
	return c.Submit(Transaction{Instructions: ins, Signers: signers})
}

// Record returns the record stored at addr.
func (c *Chain) Record(addr common.Address) (common.Record, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return getRecord(c.store, addr)
}

// Ledger returns read-only view of the asset ledger.
func (c *Chain) Ledger() *token.Ledger {
	return token.New(storage.NewMemCachedStore(c.store), newWitnesses(c.token, nil), c.token)
}

// Seek iterates over all records.
func (c *Chain) Seek(f func(addr common.Address, r common.Record) bool) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	var err error
	c.store.Seek(storage.SeekRange{Prefix: []byte{prefixRecord}}, func(k, v []byte) bool {
		var (
			addr common.Address
			r    common.Record
		)
		if addr, err = addressFromKey(k); err != nil {
			return false
		}
		if r, err = decodeRecord(addr, v); err != nil {
			return false
		}
		return f(addr, r)
	})
	return err
}

// SeekRaw iterates over all storage items, records and ledger state alike.
func (c *Chain) SeekRaw(f func(k, v []byte) bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	var stop bool
	for _, p := range append([]byte{prefixRecord}, token.Prefixes()...) {
		c.store.Seek(storage.SeekRange{Prefix: []byte{p}}, func(k, v []byte) bool {
			stop = !f(k, v)
			return !stop
		})
		if stop {
			return
		}
	}
}

// ItemKind names the class of the storage item by its key: "record" or one
// of the ledger kinds. Empty string is returned for foreign keys.
func ItemKind(k []byte) string {
	if len(k) == 0 {
		return ""
	}
	if k[0] == prefixRecord {
		return "record"
	}
	return token.ItemKind(k[0])
}

// Genesis runs f with full authority: every identity is a witness and records
// may be written regardless of the owner. It is used to set up wallets,
// assets and records of external programs.
func (c *Chain) Genesis(f func(g *Genesis) error) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	overlay := storage.NewMemCachedStore(c.store)
	w := newWitnesses(c.token, nil)
	w.all = true

	g := &Genesis{
		kv:     overlay,
		Ledger: token.New(overlay, w, c.token),
	}
	if err := f(g); err != nil {
		return err
	}

	_, err := overlay.Persist()
	return err
}

// Genesis is the unrestricted state access used by Chain.Genesis.
type Genesis struct {
	kv *storage.MemCachedStore

	Ledger *token.Ledger
}

// PutRecord writes the record with the given owner and body.
func (g *Genesis) PutRecord(addr, owner common.Address, data []byte) {
	putRecord(g.kv, addr, common.Record{Owner: owner, Data: data})
}

// PutRaw writes storage item as is. It is used to restore state pulled with
// SeekRaw, keys of unknown kind are rejected.
func (g *Genesis) PutRaw(k, v []byte) error {
	if ItemKind(k) == "" {
		return fmt.Errorf("unexpected storage key prefix in %x", k)
	}
	g.kv.Put(k, v)
	return nil
}

// CreateAccount allocates zeroed record of size bytes owned by owner. It
// fails if the record exists.
func (g *Genesis) CreateAccount(addr, owner common.Address, size int) error {
	return records{kv: g.kv, program: owner}.CreateRecord(addr, size)
}

// MintUnique creates a new unique asset held by owner and returns the asset
// address and the owner's holding.
func (g *Genesis) MintUnique(owner common.Address) (common.Address, common.Address, error) {
	mint := hash.Sha256([]byte(uuid.NewString()))
	if err := g.Ledger.InitAsset(mint, owner, 0); err != nil {
		return common.Address{}, common.Address{}, err
	}

	holding := g.Ledger.HoldingAddress(owner, mint)
	if err := g.Ledger.InitHolding(holding, owner, mint); err != nil {
		return common.Address{}, common.Address{}, err
	}
	if err := g.Ledger.MintTo(mint, holding, owner, 1); err != nil {
		return common.Address{}, common.Address{}, err
	}
	return mint, holding, nil
}

// Fund creates canonical holding of owner for the asset class (if missing)
// and mints amount into it.
func (g *Genesis) Fund(asset, owner common.Address, amount uint64) (common.Address, error) {
	a, err := g.Ledger.Asset(asset)
	if err != nil {
		return common.Address{}, err
	}

	holding := g.Ledger.HoldingAddress(owner, asset)
	if _, err := g.Ledger.Holding(holding); errors.Is(err, common.ErrUninitialized) {
		if err := g.Ledger.InitHolding(holding, owner, asset); err != nil {
			return common.Address{}, err
		}
	} else if err != nil {
		return common.Address{}, err
	}

	return holding, g.Ledger.MintTo(asset, holding, a.MintAuthority, amount)
}

// NewWallet generates a key pair and returns it with its identity.
func NewWallet() (*keys.PrivateKey, common.Address, error) {
	k, err := keys.NewPrivateKey()
	if err != nil {
		return nil, common.Address{}, err
	}
	return k, common.AddressFromPublicKey(k.PublicKey()), nil
}
