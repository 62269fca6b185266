package chain

import (
	"errors"
	"fmt"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// prefixRecord prefixes storage keys of records. The value is the owner
// followed by the record body.
const prefixRecord = 0x01

func recordKey(addr common.Address) []byte {
	return append([]byte{prefixRecord}, addr.BytesBE()...)
}

func getRecord(kv interface {
	Get([]byte) ([]byte, error)
}, addr common.Address) (common.Record, error) {
	v, err := kv.Get(recordKey(addr))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return common.Record{}, fmt.Errorf("record %s: %w", common.EncodeAddress(addr), common.ErrUninitialized)
		}
		return common.Record{}, err
	}
	return decodeRecord(addr, v)
}

func decodeRecord(addr common.Address, v []byte) (common.Record, error) {
	if len(v) < util.Uint256Size {
		return common.Record{}, fmt.Errorf("record %s: %w", common.EncodeAddress(addr), common.ErrInvalidRecordData)
	}

	owner, err := util.Uint256DecodeBytesBE(v[:util.Uint256Size])
	if err != nil {
		return common.Record{}, err
	}
	// copy the body so that programs can't modify cached value in place
	return common.Record{
		Owner: owner,
		Data:  append([]byte(nil), v[util.Uint256Size:]...),
	}, nil
}

// addressFromKey extracts record address from the storage key. Keys may be
// passed with or without the prefix.
func addressFromKey(k []byte) (common.Address, error) {
	if len(k) < util.Uint256Size {
		return common.Address{}, fmt.Errorf("unexpected record key length %d", len(k))
	}
	return util.Uint256DecodeBytesBE(k[len(k)-util.Uint256Size:])
}

func putRecord(kv *storage.MemCachedStore, addr common.Address, r common.Record) {
	v := make([]byte, 0, util.Uint256Size+len(r.Data))
	v = append(v, r.Owner.BytesBE()...)
	v = append(v, r.Data...)
	kv.Put(recordKey(addr), v)
}

// records implements common.RecordStore for one instruction.
type records struct {
	kv      *storage.MemCachedStore
	program common.Address
}

func (s records) Record(addr common.Address) (common.Record, error) {
	return getRecord(s.kv, addr)
}

func (s records) CreateRecord(addr common.Address, size int) error {
	if _, err := getRecord(s.kv, addr); err == nil {
		return fmt.Errorf("record %s: %w", common.EncodeAddress(addr), common.ErrAlreadyInitialized)
	} else if !errors.Is(err, common.ErrUninitialized) {
		return err
	}

	putRecord(s.kv, addr, common.Record{
		Owner: s.program,
		Data:  make([]byte, size),
	})
	return nil
}

func (s records) WriteRecord(addr common.Address, data []byte) error {
	r, err := getRecord(s.kv, addr)
	if err != nil {
		return err
	}
	if !r.Owner.Equals(s.program) {
		return fmt.Errorf("write %s: %w", common.EncodeAddress(addr), common.ErrIncorrectOwner)
	}
	if len(data) > len(r.Data) {
		return fmt.Errorf("write %s: %d bytes exceed reserved %d", common.EncodeAddress(addr), len(data), len(r.Data))
	}

	n := copy(r.Data, data)
	clear(r.Data[n:])
	putRecord(s.kv, addr, r)
	return nil
}
