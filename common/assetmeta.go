package common

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Layout of the external records validated by the registry. They are
// written by other services, programs only read them.
const (
	// AssetMetadataKey is the first byte of asset metadata records.
	AssetMetadataKey = 4

	maxMetadataString = 200
	maxCreators       = 5

	batchMintAuthorityOffset = 8
	batchMintNameOffset      = 255
	batchMintNameLen         = 28

	// BatchMintConfigSize is the minimum size of the batch-mint config record.
	BatchMintConfigSize = batchMintNameOffset + batchMintNameLen
)

// metadataSeed is the derivation tag of asset metadata records.
var metadataSeed = []byte("metadata")

// Creator is one of the declared asset creators.
type Creator struct {
	Address  Address
	Verified bool
	Share    uint8
}

// AssetMetadata is the external creator-verification record of a unique
// asset.
type AssetMetadata struct {
	UpdateAuthority Address
	Mint            Address
	Name            string
	Symbol          string
	URI             string
	SellerFee       uint16
	Creators        []Creator
}

// EncodeBinary implements io.Serializable.
func (m *AssetMetadata) EncodeBinary(w *io.BinWriter) {
	w.WriteB(AssetMetadataKey)
	w.WriteBytes(m.UpdateAuthority.BytesBE())
	w.WriteBytes(m.Mint.BytesBE())
	WriteString(w, m.Name)
	WriteString(w, m.Symbol)
	WriteString(w, m.URI)
	w.WriteU16LE(m.SellerFee)
	if m.Creators == nil {
		w.WriteB(0)
		return
	}
	w.WriteB(1)
	w.WriteU32LE(uint32(len(m.Creators)))
	for i := range m.Creators {
		w.WriteBytes(m.Creators[i].Address.BytesBE())
		w.WriteBool(m.Creators[i].Verified)
		w.WriteB(m.Creators[i].Share)
	}
}

// DecodeBinary implements io.Serializable.
func (m *AssetMetadata) DecodeBinary(r *io.BinReader) {
	if key := r.ReadB(); r.Err == nil && key != AssetMetadataKey {
		r.Err = fmt.Errorf("unexpected metadata key %d", key)
		return
	}
	ReadAddress(r, &m.UpdateAuthority)
	ReadAddress(r, &m.Mint)
	m.Name = ReadString(r, maxMetadataString)
	m.Symbol = ReadString(r, maxMetadataString)
	m.URI = ReadString(r, maxMetadataString)
	m.SellerFee = r.ReadU16LE()
	if r.ReadB() == 0 || r.Err != nil {
		m.Creators = nil
		return
	}
	n := r.ReadU32LE()
	if n > maxCreators {
		r.Err = fmt.Errorf("too many creators: %d", n)
		return
	}
	m.Creators = make([]Creator, n)
	for i := range m.Creators {
		ReadAddress(r, &m.Creators[i].Address)
		m.Creators[i].Verified = r.ReadBool()
		m.Creators[i].Share = r.ReadB()
	}
}

// AssetMetadataAddress returns address of the metadata record of the asset
// kept by the metadata program.
func AssetMetadataAddress(metadataProgram, mint Address) (Address, error) {
	addr, _, err := DiscoverAddress(metadataProgram, metadataSeed, metadataProgram.BytesBE(), mint.BytesBE())
	return addr, err
}

// LoadAssetMetadata reads metadata record of the asset and checks that it is
// the canonical one.
func LoadAssetMetadata(env *Env, metadataProgram, record, mint Address) (AssetMetadata, error) {
	expected, err := AssetMetadataAddress(metadataProgram, mint)
	if err != nil {
		return AssetMetadata{}, fmt.Errorf("%w: %v", ErrAddressMismatch, err)
	}
	if !expected.Equals(record) {
		return AssetMetadata{}, fmt.Errorf("asset metadata: %w", ErrAddressMismatch)
	}

	var m AssetMetadata
	if err := GetRecord(env, record, metadataProgram, &m); err != nil {
		return AssetMetadata{}, fmt.Errorf("asset metadata: %w", err)
	}
	if !m.Mint.Equals(mint) {
		return AssetMetadata{}, fmt.Errorf("asset metadata: %w", ErrMintMismatch)
	}
	return m, nil
}

// BatchMintConfig is the part of the external batch-mint configuration the
// registry relies on.
type BatchMintConfig struct {
	Authority Address
	// FirstName is the name of the first item, it carries coordinates of
	// one space of the neighborhood.
	FirstName string
}

// ParseBatchMintConfig decodes batch-mint config record.
func ParseBatchMintConfig(data []byte) (BatchMintConfig, error) {
	if len(data) < BatchMintConfigSize {
		return BatchMintConfig{}, fmt.Errorf("%w: batch-mint config is %d bytes long", ErrInvalidRecordData, len(data))
	}

	auth, err := util.Uint256DecodeBytesBE(data[batchMintAuthorityOffset : batchMintAuthorityOffset+util.Uint256Size])
	if err != nil {
		return BatchMintConfig{}, fmt.Errorf("%w: %v", ErrInvalidRecordData, err)
	}

	return BatchMintConfig{
		Authority: auth,
		FirstName: strings.TrimRight(string(data[batchMintNameOffset:batchMintNameOffset+batchMintNameLen]), "\x00 "),
	}, nil
}

// EncodeBatchMintConfig produces batch-mint config record body.
func EncodeBatchMintConfig(c BatchMintConfig) []byte {
	data := make([]byte, BatchMintConfigSize)
	copy(data[batchMintAuthorityOffset:], c.Authority.BytesBE())
	copy(data[batchMintNameOffset:batchMintNameOffset+batchMintNameLen], c.FirstName)
	return data
}

// WriteString writes u32 length-prefixed string.
func WriteString(w *io.BinWriter, s string) {
	w.WriteU32LE(uint32(len(s)))
	w.WriteBytes([]byte(s))
}

// ReadString reads u32 length-prefixed string not longer than maxLen.
func ReadString(r *io.BinReader, maxLen int) string {
	n := r.ReadU32LE()
	if r.Err != nil {
		return ""
	}
	if int(n) > maxLen {
		r.Err = fmt.Errorf("string is too long: %d", n)
		return ""
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	return string(b)
}

// ReadAddress reads 32-byte address.
func ReadAddress(r *io.BinReader, a *Address) {
	var b [util.Uint256Size]byte
	r.ReadBytes(b[:])
	if r.Err != nil {
		return
	}
	*a, _ = util.Uint256DecodeBytesBE(b[:])
}
