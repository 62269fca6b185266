/*
Package token implements the asset ledger of the host simulator.

Ledger keeps asset classes, holdings with delegates and native balances in a
key-value store. Authority arguments are checked against the witnesses of the
running instruction, so derived addresses authorized by a program may move
assets the same way signing wallets do.
*/
package token

import (
	"errors"
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Storage key prefixes.
const (
	prefixAsset   = 0x10
	prefixHolding = 0x11
	prefixNative  = 0x12
)

// Prefixes returns storage key prefixes of the ledger state.
func Prefixes() []byte {
	return []byte{prefixAsset, prefixHolding, prefixNative}
}

// ItemKind names the class of the ledger storage item by its key prefix.
// Empty string is returned for foreign prefixes.
func ItemKind(prefix byte) string {
	switch prefix {
	case prefixAsset:
		return "asset"
	case prefixHolding:
		return "holding"
	case prefixNative:
		return "native"
	}
	return ""
}

// ErrInsufficientFunds is returned when a balance is too low for the
// operation.
var ErrInsufficientFunds = errors.New("insufficient funds")

// KV is the store the ledger keeps its state in. storage.MemCachedStore
// satisfies it.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte)
}

// Asset is an asset class.
type Asset struct {
	MintAuthority common.Address
	Decimals      uint8
	Supply        uint64
}

// EncodeBinary implements io.Serializable.
func (a *Asset) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(a.MintAuthority.BytesBE())
	w.WriteB(a.Decimals)
	w.WriteU64LE(a.Supply)
}

// DecodeBinary implements io.Serializable.
func (a *Asset) DecodeBinary(r *io.BinReader) {
	common.ReadAddress(r, &a.MintAuthority)
	a.Decimals = r.ReadB()
	a.Supply = r.ReadU64LE()
}

type holding common.Holding

func (h *holding) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(h.Owner.BytesBE())
	w.WriteBytes(h.Asset.BytesBE())
	w.WriteU64LE(h.Amount)
	w.WriteBytes(h.Delegate.BytesBE())
	w.WriteU64LE(h.DelegatedAmount)
}

func (h *holding) DecodeBinary(r *io.BinReader) {
	common.ReadAddress(r, &h.Owner)
	common.ReadAddress(r, &h.Asset)
	h.Amount = r.ReadU64LE()
	common.ReadAddress(r, &h.Delegate)
	h.DelegatedAmount = r.ReadU64LE()
}

// Ledger implements common.Ledger.
type Ledger struct {
	kv        KV
	witnesses common.Witnesses
	program   common.Address
}

var _ common.Ledger = (*Ledger)(nil)

// New returns Ledger working over kv. Holding addresses are derived under
// program, authorities are checked with witnesses.
func New(kv KV, witnesses common.Witnesses, program common.Address) *Ledger {
	return &Ledger{
		kv:        kv,
		witnesses: witnesses,
		program:   program,
	}
}

func key(prefix byte, a common.Address) []byte {
	return append([]byte{prefix}, a.BytesBE()...)
}

func (l *Ledger) get(k []byte, v io.Serializable) error {
	data, err := l.kv.Get(k)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return common.ErrUninitialized
		}
		return err
	}
	return common.DecodeRecord(data, v)
}

func (l *Ledger) put(k []byte, v io.Serializable) error {
	data, err := common.EncodeRecord(v)
	if err != nil {
		return err
	}
	l.kv.Put(k, data)
	return nil
}

// HoldingAddress returns canonical holding address of the owner for the
// asset class kept by the ledger program.
func HoldingAddress(program, owner, asset common.Address) common.Address {
	addr, _, err := common.DiscoverAddress(program, owner.BytesBE(), asset.BytesBE())
	if err != nil {
		// exhausting all 256 disambiguation bytes is practically impossible
		panic(fmt.Sprintf("derive holding address: %v", err))
	}
	return addr
}

// HoldingAddress implements common.Ledger.
func (l *Ledger) HoldingAddress(owner, asset common.Address) common.Address {
	return HoldingAddress(l.program, owner, asset)
}

// Asset returns asset class stored at addr.
func (l *Ledger) Asset(addr common.Address) (Asset, error) {
	var a Asset
	if err := l.get(key(prefixAsset, addr), &a); err != nil {
		return Asset{}, fmt.Errorf("asset %s: %w", common.EncodeAddress(addr), err)
	}
	return a, nil
}

// Holding implements common.Ledger.
func (l *Ledger) Holding(addr common.Address) (common.Holding, error) {
	var h holding
	if err := l.get(key(prefixHolding, addr), &h); err != nil {
		return common.Holding{}, fmt.Errorf("holding %s: %w", common.EncodeAddress(addr), err)
	}
	h.Address = addr
	return common.Holding(h), nil
}

func (l *Ledger) putHolding(h common.Holding) error {
	hh := holding(h)
	return l.put(key(prefixHolding, h.Address), &hh)
}

// InitHolding implements common.Ledger.
func (l *Ledger) InitHolding(addr, owner, asset common.Address) error {
	if _, err := l.Holding(addr); err == nil {
		return fmt.Errorf("holding %s: %w", common.EncodeAddress(addr), common.ErrAlreadyInitialized)
	}
	if _, err := l.Asset(asset); err != nil {
		return err
	}
	if !l.HoldingAddress(owner, asset).Equals(addr) && !l.witnesses.CheckWitness(addr) {
		return fmt.Errorf("non-canonical holding: %w", common.ErrMissingSignature)
	}

	return l.putHolding(common.Holding{
		Address: addr,
		Owner:   owner,
		Asset:   asset,
	})
}

// spendAuthority checks that authority may spend amount from h and consumes
// the delegated allowance if authority is the delegate.
func (l *Ledger) spendAuthority(h *common.Holding, authority common.Address, amount uint64) error {
	if !l.witnesses.CheckWitness(authority) {
		return fmt.Errorf("%w: %s", common.ErrMissingSignature, common.EncodeAddress(authority))
	}

	switch {
	case h.Owner.Equals(authority):
	case h.Delegate.Equals(authority) && h.DelegatedAmount >= amount:
		h.DelegatedAmount -= amount
		if h.DelegatedAmount == 0 {
			h.Delegate = common.Address{}
		}
	default:
		return fmt.Errorf("%w: %s may not spend holding", common.ErrWrongAuthority, common.EncodeAddress(authority))
	}

	if h.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, h.Amount, amount)
	}
	return nil
}

// Transfer implements common.Ledger.
func (l *Ledger) Transfer(from, to, authority common.Address, amount uint64) error {
	src, err := l.Holding(from)
	if err != nil {
		return err
	}
	dst, err := l.Holding(to)
	if err != nil {
		return err
	}
	if !src.Asset.Equals(dst.Asset) {
		return common.ErrMintMismatch
	}
	if err := l.spendAuthority(&src, authority, amount); err != nil {
		return err
	}

	// nothing moves, delegated allowance is kept
	if from.Equals(to) {
		return nil
	}

	if dst.Amount, err = common.AddU64(dst.Amount, amount); err != nil {
		return err
	}
	src.Amount -= amount

	if err := l.putHolding(src); err != nil {
		return err
	}
	return l.putHolding(dst)
}

// Approve implements common.Ledger.
func (l *Ledger) Approve(addr, delegate, owner common.Address, amount uint64) error {
	h, err := l.ownedHolding(addr, owner)
	if err != nil {
		return err
	}
	h.Delegate = delegate
	h.DelegatedAmount = amount
	return l.putHolding(h)
}

// Revoke implements common.Ledger.
func (l *Ledger) Revoke(addr, owner common.Address) error {
	h, err := l.ownedHolding(addr, owner)
	if err != nil {
		return err
	}
	h.Delegate = common.Address{}
	h.DelegatedAmount = 0
	return l.putHolding(h)
}

func (l *Ledger) ownedHolding(addr, owner common.Address) (common.Holding, error) {
	h, err := l.Holding(addr)
	if err != nil {
		return common.Holding{}, err
	}
	if !h.Owner.Equals(owner) {
		return common.Holding{}, fmt.Errorf("holding owner: %w", common.ErrIdentityMismatch)
	}
	if !l.witnesses.CheckWitness(owner) {
		return common.Holding{}, fmt.Errorf("%w: %s", common.ErrMissingSignature, common.EncodeAddress(owner))
	}
	return h, nil
}

// Burn implements common.Ledger.
func (l *Ledger) Burn(addr, asset, authority common.Address, amount uint64) error {
	h, err := l.Holding(addr)
	if err != nil {
		return err
	}
	if !h.Asset.Equals(asset) {
		return common.ErrMintMismatch
	}
	a, err := l.Asset(asset)
	if err != nil {
		return err
	}
	if err := l.spendAuthority(&h, authority, amount); err != nil {
		return err
	}

	h.Amount -= amount
	a.Supply -= amount

	if err := l.putHolding(h); err != nil {
		return err
	}
	return l.put(key(prefixAsset, asset), &a)
}

// InitAsset implements common.Ledger. The asset address must be a witness:
// either a signing wallet or a derived address authorized by the program.
func (l *Ledger) InitAsset(asset, mintAuthority common.Address, decimals uint8) error {
	if _, err := l.Asset(asset); err == nil {
		return fmt.Errorf("asset %s: %w", common.EncodeAddress(asset), common.ErrAlreadyInitialized)
	}
	if !l.witnesses.CheckWitness(asset) {
		return fmt.Errorf("asset: %w", common.ErrMissingSignature)
	}
	return l.put(key(prefixAsset, asset), &Asset{
		MintAuthority: mintAuthority,
		Decimals:      decimals,
	})
}

// MintTo implements common.Ledger.
func (l *Ledger) MintTo(asset, addr, authority common.Address, amount uint64) error {
	a, err := l.Asset(asset)
	if err != nil {
		return err
	}
	if !a.MintAuthority.Equals(authority) {
		return fmt.Errorf("mint authority: %w", common.ErrWrongAuthority)
	}
	if !l.witnesses.CheckWitness(authority) {
		return fmt.Errorf("mint authority: %w", common.ErrMissingSignature)
	}

	h, err := l.Holding(addr)
	if err != nil {
		return err
	}
	if !h.Asset.Equals(asset) {
		return common.ErrMintMismatch
	}

	if a.Supply, err = common.AddU64(a.Supply, amount); err != nil {
		return err
	}
	if h.Amount, err = common.AddU64(h.Amount, amount); err != nil {
		return err
	}

	if err := l.putHolding(h); err != nil {
		return err
	}
	return l.put(key(prefixAsset, asset), &a)
}

type balance uint64

func (b *balance) EncodeBinary(w *io.BinWriter) { w.WriteU64LE(uint64(*b)) }

func (b *balance) DecodeBinary(r *io.BinReader) { *b = balance(r.ReadU64LE()) }

// Balance returns native balance of the address.
func (l *Ledger) Balance(addr common.Address) (uint64, error) {
	var b balance
	err := l.get(key(prefixNative, addr), &b)
	if err != nil && !errors.Is(err, common.ErrUninitialized) {
		return 0, err
	}
	return uint64(b), nil
}

// Credit issues native currency to the address. It is a genesis operation
// and is not reachable from programs.
func (l *Ledger) Credit(addr common.Address, amount uint64) error {
	b, err := l.Balance(addr)
	if err != nil {
		return err
	}
	if b, err = common.AddU64(b, amount); err != nil {
		return err
	}
	nb := balance(b)
	return l.put(key(prefixNative, addr), &nb)
}

// Pay implements common.Ledger.
func (l *Ledger) Pay(from, to common.Address, amount uint64) error {
	if !l.witnesses.CheckWitness(from) {
		return fmt.Errorf("payer: %w", common.ErrMissingSignature)
	}

	fb, err := l.Balance(from)
	if err != nil {
		return err
	}
	if fb < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, fb, amount)
	}
	if from.Equals(to) || amount == 0 {
		return nil
	}

	tb, err := l.Balance(to)
	if err != nil {
		return err
	}
	if tb, err = common.AddU64(tb, amount); err != nil {
		return err
	}

	nf, nt := balance(fb-amount), balance(tb)
	if err := l.put(key(prefixNative, from), &nf); err != nil {
		return err
	}
	return l.put(key(prefixNative, to), &nt)
}
