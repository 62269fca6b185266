package common

import (
	"fmt"
	"strconv"
	"strings"
)

// NeighborhoodSize is the side of the square block of spaces forming one
// neighborhood.
const NeighborhoodSize = 200

const (
	baseCreationPrice  = 400000
	freeCreationRadius = 3
)

// FloorDiv divides x by positive n rounding towards negative infinity.
func FloorDiv(x, n int64) int64 {
	q := x / n
	if x%n != 0 && x < 0 {
		q--
	}
	return q
}

// FloorMod is the remainder paired with FloorDiv, always in [0, n).
func FloorMod(x, n int64) int64 {
	return (x%n + n) % n
}

// NeighborhoodOf returns coordinates of the neighborhood containing the
// space.
func NeighborhoodOf(x, y int64) (int64, int64) {
	return FloorDiv(x, NeighborhoodSize), FloorDiv(y, NeighborhoodSize)
}

// Chebyshev returns distance of the neighborhood from the origin.
func Chebyshev(x, y int64) uint64 {
	return max(absU64(x), absU64(y))
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}

// CreationPrice returns price of neighborhood creation: neighborhoods within
// the free radius cost the base price, each further ring adds one more.
// Prices not fitting uint64 fail with ErrOverflow.
func CreationPrice(x, y int64) (uint64, error) {
	d := Chebyshev(x, y)
	var extra uint64
	if d > freeCreationRadius {
		extra = d - freeCreationRadius
	}
	rings, err := MulU64(baseCreationPrice, extra)
	if err != nil {
		return 0, err
	}
	return AddU64(baseCreationPrice, rings)
}

// ParseNameCoords extracts space coordinates from names like
// "Extend Space #(12, -7)". The last parenthesized pair wins.
func ParseNameCoords(name string) (int64, int64, error) {
	name = strings.TrimRight(name, "\x00")

	i := strings.LastIndexByte(name, '(')
	if i < 0 {
		return 0, 0, fmt.Errorf("%w: no coordinates in name %q", ErrCoordinatesMismatch, name)
	}

	pair := strings.TrimSpace(name[i+1:])
	xs, rest, ok := strings.Cut(pair, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing comma in name %q", ErrCoordinatesMismatch, name)
	}
	ys, _, _ := strings.Cut(rest, ",")
	ys, _, _ = strings.Cut(ys, ")")

	x, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: parse x: %v", ErrCoordinatesMismatch, err)
	}
	y, err := strconv.ParseInt(strings.TrimSpace(ys), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: parse y: %v", ErrCoordinatesMismatch, err)
	}

	return x, y, nil
}
