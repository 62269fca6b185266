package common

import "fmt"

// Record is a byte record kept by the host.
type Record struct {
	// Owner is the program allowed to write the record.
	Owner Address
	// Data is the whole allocated record body.
	Data []byte
}

// RecordStore is the host record storage as seen by the executing program.
// The host has already locked every record reachable through it.
type RecordStore interface {
	// Record returns the record stored at addr. It returns an error wrapping
	// ErrUninitialized if there is no such record.
	Record(addr Address) (Record, error)

	// CreateRecord allocates a zero-filled record of the given size at addr
	// owned by the executing program. It returns an error wrapping
	// ErrAlreadyInitialized if the record exists.
	CreateRecord(addr Address, size int) error

	// WriteRecord overwrites the body of the record owned by the executing
	// program. data must not be longer than the allocated body, the rest of
	// the body is zeroed.
	WriteRecord(addr Address, data []byte) error
}

// Holding is a balance of one asset class kept by the Ledger.
type Holding struct {
	Address Address
	Owner   Address
	Asset   Address
	Amount  uint64

	// Delegate may move up to DelegatedAmount units on the owner's behalf.
	// Zero address means no active delegate.
	Delegate        Address
	DelegatedAmount uint64
}

// HasDelegate checks whether d is the active delegate of the holding.
func (h Holding) HasDelegate(d Address) bool {
	return h.DelegatedAmount > 0 && h.Delegate.Equals(d)
}

// Ledger is the external fungible/unique asset ledger. Every authority
// argument must be a signer of the transaction or an address authorized by
// Witnesses.Authorize.
type Ledger interface {
	// HoldingAddress returns canonical holding address of the owner for the
	// asset class.
	HoldingAddress(owner, asset Address) Address
	// Holding returns the holding at addr, error wraps ErrUninitialized if
	// there is none.
	Holding(addr Address) (Holding, error)
	// InitHolding creates an empty holding. Non-canonical addresses must be
	// authorized by the executing program.
	InitHolding(addr, owner, asset Address) error

	// Transfer moves amount units between holdings of the same asset.
	// Authority is either the owner of from or its delegate.
	Transfer(from, to, authority Address, amount uint64) error
	// Approve sets delegate of the holding.
	Approve(holding, delegate, owner Address, amount uint64) error
	// Revoke clears delegate of the holding.
	Revoke(holding, owner Address) error
	// Burn destroys amount units of the holding.
	Burn(holding, asset, authority Address, amount uint64) error

	// InitAsset creates a new asset class at asset with the given mint
	// authority. It fails if the asset class exists.
	InitAsset(asset, mintAuthority Address, decimals uint8) error
	// MintTo issues amount new units into the holding.
	MintTo(asset, holding, authority Address, amount uint64) error

	// Pay transfers amount of the native currency.
	Pay(from, to Address, amount uint64) error
}

// Witnesses provides signature facts of the current transaction.
type Witnesses interface {
	// CheckWitness checks whether a signed the transaction.
	CheckWitness(a Address) bool
	// Authorize makes the address derived from seeds under the executing
	// program a signer for the rest of the instruction and returns it.
	Authorize(disambig byte, seeds ...[]byte) (Address, error)
}

// Env is the invocation context passed to every operation. It replaces any
// program-wide state: everything an operation may touch is reachable from
// here.
type Env struct {
	// Program is identity of the executing program.
	Program Address
	// Now is the wall-clock time (seconds) read once for the whole operation.
	Now uint64

	Store     RecordStore
	Ledger    Ledger
	Witnesses Witnesses

	// Logger receives human-readable log lines, may be nil.
	Logger func(msg string)
}

// Log sends message to the host log.
func (e *Env) Log(msg string) {
	if e.Logger != nil {
		e.Logger(msg)
	}
}

// Logf formats and sends message to the host log.
func (e *Env) Logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger(fmt.Sprintf(format, args...))
	}
}
