package common

import "errors"

// Class groups errors by the kind of violated precondition.
type Class uint8

// Error classes.
const (
	// ClassInstruction covers malformed instruction data and record lists.
	ClassInstruction Class = iota + 1
	// ClassAuthenticity covers derived address, authority and identity
	// mismatches.
	ClassAuthenticity
	// ClassState covers uninitialized or already initialized records and
	// asset class mismatches.
	ClassState
	// ClassCustody covers missing exclusive asset units.
	ClassCustody
	// ClassBusinessRule covers prices, durations, capacities and ranges.
	ClassBusinessRule
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case ClassInstruction:
		return "instruction"
	case ClassAuthenticity:
		return "authenticity"
	case ClassState:
		return "state"
	case ClassCustody:
		return "custody"
	case ClassBusinessRule:
		return "business rule"
	default:
		return "unknown"
	}
}

// Error is a rejection reason reported to the host as an integer code.
// Sentinel values below are compared with errors.Is, context is added by
// wrapping.
type Error struct {
	Code  uint32
	Class Class
	msg   string
}

func newError(code uint32, class Class, msg string) *Error {
	return &Error{Code: code, Class: class, msg: msg}
}

// Error implements error interface.
func (e *Error) Error() string {
	return e.msg
}

var (
	// ErrInvalidInstruction appears on unknown tag or malformed arguments.
	ErrInvalidInstruction = newError(1, ClassInstruction, "invalid instruction data")
	// ErrRecordCount appears when the number of passed records differs from
	// the documented one.
	ErrRecordCount = newError(2, ClassInstruction, "unexpected number of records")

	// ErrMissingSignature appears when the method must be signed by some
	// identity but was not.
	ErrMissingSignature = newError(3, ClassAuthenticity, "missing required signature")
	// ErrAddressMismatch appears when the passed record address differs from
	// the derived one.
	ErrAddressMismatch = newError(4, ClassAuthenticity, "unexpected record address")
	// ErrWrongAuthority appears when the signer is not the base authority.
	ErrWrongAuthority = newError(5, ClassAuthenticity, "wrong authority")
	// ErrIdentityMismatch appears when the passed identity differs from the
	// stored one.
	ErrIdentityMismatch = newError(6, ClassAuthenticity, "identity mismatch")
	// ErrIncorrectOwner appears when the record is owned by an unexpected
	// program.
	ErrIncorrectOwner = newError(7, ClassAuthenticity, "record owned by unexpected program")

	// ErrUninitialized appears when the record does not exist yet.
	ErrUninitialized = newError(8, ClassState, "record is not initialized")
	// ErrAlreadyInitialized appears on repeated creation.
	ErrAlreadyInitialized = newError(9, ClassState, "record is already initialized")
	// ErrMintMismatch appears when the asset class differs from the recorded
	// one.
	ErrMintMismatch = newError(10, ClassState, "asset class mismatch")
	// ErrInvalidRecordData appears when the record can't be decoded.
	ErrInvalidRecordData = newError(11, ClassState, "invalid record data")

	// ErrMissingTokenOwner appears when the holding does not hold exactly one
	// unit of the asset.
	ErrMissingTokenOwner = newError(12, ClassCustody, "holding does not own the asset")

	// ErrNotListed appears when the space is not offered for sale.
	ErrNotListed = newError(13, ClassBusinessRule, "space is not listed")
	// ErrPriceMismatch appears when the listing has changed.
	ErrPriceMismatch = newError(14, ClassBusinessRule, "price mismatch")
	// ErrDurationOutOfBounds appears on invalid rent periods.
	ErrDurationOutOfBounds = newError(15, ClassBusinessRule, "duration out of bounds")
	// ErrAlreadyLeased appears when the space is rented out.
	ErrAlreadyLeased = newError(16, ClassBusinessRule, "space currently rented out")
	// ErrFrameOutOfRange appears when the frame index is not less than the
	// number of frames.
	ErrFrameOutOfRange = newError(17, ClassBusinessRule, "frame index out of range")
	// ErrCapacityExceeded appears on bounded collections being full.
	ErrCapacityExceeded = newError(18, ClassBusinessRule, "capacity exceeded")
	// ErrCoordinatesMismatch appears when external records describe other
	// coordinates.
	ErrCoordinatesMismatch = newError(19, ClassBusinessRule, "coordinates mismatch")
	// ErrOverflow appears on arithmetic overflow.
	ErrOverflow = newError(20, ClassBusinessRule, "arithmetic overflow")
	// ErrSameParty appears when both sides of a deal are the same identity.
	ErrSameParty = newError(21, ClassBusinessRule, "same party on both sides")
	// ErrPrivilegesRevoked appears when authority privileges were already
	// revoked.
	ErrPrivilegesRevoked = newError(22, ClassBusinessRule, "authority privileges already revoked")
	// ErrCreatorNotVerified appears when the first creator of an asset is
	// not verified.
	ErrCreatorNotVerified = newError(23, ClassAuthenticity, "creator is not verified")
)

// CodeOf returns integer code of the error or 0 if err does not wrap Error.
func CodeOf(err error) uint32 {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// ClassOf returns class of the error or 0 if err does not wrap Error.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return 0
}
