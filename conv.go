// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/texthumb

package texthumb

import "math/bits"

const maxInt = int(^uint(0) >> 1)

// intFromI64 converts an int64 to an int.
func intFromI64(n int64) (int, error) {
	if n < 0 || uint64(n) > uint64(maxInt) {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}

// mulInt multiplies non-negative factors and fails when the product does not
// fit in an int.
func mulInt(factors ...int) (int, error) {
	product := uint64(1)
	for _, f := range factors {
		if f < 0 {
			return 0, ErrSizeOverflow
		}

		hi, lo := bits.Mul64(product, uint64(f))
		if hi != 0 || lo > uint64(maxInt) {
			return 0, ErrSizeOverflow
		}
		product = lo
	}

	return int(product), nil // #nosec G115 -- bounded by maxInt above.
}
