package common

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
)

// RecordState tags a record slot: a record is either absent (and may be
// created by the operation) or initialized with a decodable payload.
type RecordState uint8

// Record slot states.
const (
	Uninitialized RecordState = iota
	Initialized
)

// LoadRecord returns body of the record at addr which must be owned by the
// given program.
func LoadRecord(env *Env, addr, owner Address) ([]byte, error) {
	rec, err := env.Store.Record(addr)
	if err != nil {
		return nil, err
	}
	if !rec.Owner.Equals(owner) {
		return nil, fmt.Errorf("%w: %s", ErrIncorrectOwner, EncodeAddress(addr))
	}
	return rec.Data, nil
}

// LoadSlot is LoadRecord for lazily created records: absent record is not an
// error but Uninitialized state.
func LoadSlot(env *Env, addr, owner Address) ([]byte, RecordState, error) {
	data, err := LoadRecord(env, addr, owner)
	if err != nil {
		if errors.Is(err, ErrUninitialized) {
			return nil, Uninitialized, nil
		}
		return nil, 0, err
	}
	return data, Initialized, nil
}

// DecodeRecord decodes v from the record body. Records are allocated with
// reserve, so trailing bytes are allowed.
func DecodeRecord(data []byte, v io.Serializable) error {
	r := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	if r.Err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecordData, r.Err)
	}
	return nil
}

// EncodeRecord serializes v.
func EncodeRecord(v io.Serializable) ([]byte, error) {
	w := io.NewBufBinWriter()
	v.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecordData, w.Err)
	}
	return w.Bytes(), nil
}

// GetRecord loads and decodes the record owned by owner.
func GetRecord(env *Env, addr, owner Address, v io.Serializable) error {
	data, err := LoadRecord(env, addr, owner)
	if err != nil {
		return err
	}
	return DecodeRecord(data, v)
}

// PutRecord serializes v into the record owned by the executing program.
func PutRecord(env *Env, addr Address, v io.Serializable) error {
	data, err := EncodeRecord(v)
	if err != nil {
		return err
	}
	return env.Store.WriteRecord(addr, data)
}

// CreateRecord allocates the record with the given reserve and writes v into
// it.
func CreateRecord(env *Env, addr Address, reserve int, v io.Serializable) error {
	if err := env.Store.CreateRecord(addr, reserve); err != nil {
		return err
	}
	return PutRecord(env, addr, v)
}
