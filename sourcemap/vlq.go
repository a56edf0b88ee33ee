// Copyright © 2024 The ELPS authors

package sourcemap

import (
	"errors"
	"fmt"
	"math"
)

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift        = 5
	vlqContinuation = 1 << vlqShift
	vlqMask         = vlqContinuation - 1
	// The first digit holds the sign bit and four bits of magnitude.
	vlqFirstShift = vlqShift - 1
	vlqFirstMask  = 1<<vlqFirstShift - 1
)

var (
	// ErrInvalidDigit is returned for a character outside the base64
	// alphabet.
	ErrInvalidDigit = errors.New("invalid base64 digit")
	// ErrUnterminated is returned when the final digit of a value has its
	// continuation bit set.
	ErrUnterminated = errors.New("unterminated vlq value")
	// ErrOverflow is returned for a value too large to represent.
	ErrOverflow = errors.New("vlq value overflows")
)

var digitValues [256]int8

func init() {
	for i := range digitValues {
		digitValues[i] = -1
	}
	for i := 0; i < len(base64Digits); i++ {
		digitValues[base64Digits[i]] = int8(i)
	}
}

// AppendVLQ appends the base64 VLQ encoding of n to dst.  The sign is stored
// in the lowest bit of the first digit, which carries four bits of
// magnitude.  Each later digit carries five more, least significant first.
func AppendVLQ(dst []byte, n int) []byte {
	var mag, sign uint64
	if n < 0 {
		mag, sign = uint64(^n)+1, 1
	} else {
		mag = uint64(n)
	}
	digit := (mag&vlqFirstMask)<<1 | sign
	mag >>= vlqFirstShift
	for {
		if mag > 0 {
			digit |= vlqContinuation
		}
		dst = append(dst, base64Digits[digit])
		if mag == 0 {
			return dst
		}
		digit = mag & vlqMask
		mag >>= vlqShift
	}
}

// EncodeVLQ returns the base64 VLQ encoding of n.
func EncodeVLQ(n int) string {
	return string(AppendVLQ(nil, n))
}

// DecodeVLQ decodes the sequence of values encoded in s.  A value outside
// the range of int is an ErrOverflow.
func DecodeVLQ(s string) ([]int, error) {
	var (
		values []int
		mag    uint64
		neg    bool
		shift  uint
		more   bool
	)
	for i := 0; i < len(s); i++ {
		d := digitValues[s[i]]
		if d < 0 {
			return nil, fmt.Errorf("%w %q at offset %d", ErrInvalidDigit, s[i], i)
		}
		payload := uint64(d & vlqMask)
		if !more {
			neg = payload&1 == 1
			mag, shift = payload>>1, vlqFirstShift
		} else {
			if shift >= 64 || payload>>(64-shift) != 0 {
				return nil, fmt.Errorf("%w at offset %d", ErrOverflow, i)
			}
			mag |= payload << shift
			shift += vlqShift
		}
		more = d&vlqContinuation != 0
		if more {
			continue
		}
		var n int
		switch {
		case mag <= math.MaxInt && neg:
			n = -int(mag)
		case mag <= math.MaxInt:
			n = int(mag)
		case neg && mag == math.MaxInt+1:
			n = math.MinInt
		default:
			return nil, fmt.Errorf("%w at offset %d", ErrOverflow, i)
		}
		values = append(values, n)
	}
	if more {
		return nil, ErrUnterminated
	}
	return values, nil
}
