package common

import (
	"crypto/elliptic"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Address identifies a record, an asset class, a program or a wallet. All of
// them share one 32-byte namespace.
type Address = util.Uint256

const (
	// MaxSeeds is the maximum number of seeds (disambiguation byte included)
	// accepted by the address derivation.
	MaxSeeds = 16
	// MaxSeedLen is the maximum length of a single seed.
	MaxSeedLen = 32
)

// derivedAddressMarker separates derived addresses from any other SHA-256
// image of the same bytes.
var derivedAddressMarker = []byte("DerivedRecordAddress")

var (
	// ErrOnCurve is returned when derivation lands in the reserved region of
	// the address space, i.e. on an address some wallet could sign for.
	ErrOnCurve = errors.New("derived address is a valid public key")
	// ErrInvalidSeeds is returned for too many or too long seeds.
	ErrInvalidSeeds = errors.New("invalid derivation seeds")
	// ErrNoViableDisambiguator is returned when every disambiguation byte
	// lands in the reserved region.
	ErrNoViableDisambiguator = errors.New("unable to find a viable disambiguation byte")
)

// ReconstructAddress computes the derived address of the given seeds under
// authority with the already known disambiguation byte. It fails with
// ErrOnCurve if the result is in the reserved region.
func ReconstructAddress(authority Address, disambig byte, seeds ...[]byte) (Address, error) {
	if len(seeds) >= MaxSeeds {
		return Address{}, fmt.Errorf("%w: %d seeds", ErrInvalidSeeds, len(seeds))
	}

	var size = 1 + util.Uint256Size + len(derivedAddressMarker)
	for i := range seeds {
		if len(seeds[i]) > MaxSeedLen {
			return Address{}, fmt.Errorf("%w: seed #%d is %d bytes long", ErrInvalidSeeds, i, len(seeds[i]))
		}
		size += len(seeds[i])
	}

	buf := make([]byte, 0, size)
	for i := range seeds {
		buf = append(buf, seeds[i]...)
	}
	buf = append(buf, disambig)
	buf = append(buf, authority.BytesBE()...)
	buf = append(buf, derivedAddressMarker...)

	res := hash.Sha256(buf)
	if IsOnCurve(res) {
		return Address{}, ErrOnCurve
	}

	return res, nil
}

// DiscoverAddress searches for the first disambiguation byte (starting from
// 255 downwards) producing an address outside the reserved region. It is
// used once, when the record is created; every later access goes through
// ReconstructAddress with the stored byte.
func DiscoverAddress(authority Address, seeds ...[]byte) (Address, byte, error) {
	for d := 255; d >= 0; d-- {
		addr, err := ReconstructAddress(authority, byte(d), seeds...)
		if err == nil {
			return addr, byte(d), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return Address{}, 0, err
		}
	}

	return Address{}, 0, ErrNoViableDisambiguator
}

// IsOnCurve checks whether a is the x-coordinate of some secp256r1 public
// key. Wallet identities always are, derived addresses never are.
func IsOnCurve(a Address) bool {
	b := make([]byte, 1, 1+util.Uint256Size)
	b[0] = 0x02
	b = append(b, a.BytesBE()...)

	_, err := keys.NewPublicKeyFromBytes(b, elliptic.P256())
	return err == nil
}

// AddressFromPublicKey returns wallet identity of the given key.
func AddressFromPublicKey(pub *keys.PublicKey) Address {
	// compressed form is prefix || X
	a, _ := util.Uint256DecodeBytesBE(pub.Bytes()[1:])
	return a
}

// EncodeAddress returns base58 form of the address.
func EncodeAddress(a Address) string {
	return base58.Encode(a.BytesBE())
}

// DecodeAddress parses base58 form of the address.
func DecodeAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("decode base58: %w", err)
	}

	a, err := util.Uint256DecodeBytesBE(b)
	if err != nil {
		return Address{}, fmt.Errorf("decode address: %w", err)
	}

	return a, nil
}

// CoordSeed encodes signed coordinate as derivation seed.
func CoordSeed(v int64) []byte {
	return U64Seed(uint64(v))
}

// U64Seed encodes unsigned integer as derivation seed.
func U64Seed(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
