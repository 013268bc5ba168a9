package idgen

import (
	"fmt"
	"math"
)

// Alphabet holds the 62 symbols used by short codes: digits, then uppercase, then lowercase.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = int64(len(Alphabet))

// maxEncodedLen is the length of math.MaxInt64 in base 62.
const maxEncodedLen = 11

// Encode converts a non-negative integer to its base-62 representation.
// Zero encodes to "0"; no other value carries a leading zero symbol.
func Encode(value int64) (string, error) {
	if value < 0 {
		return "", fmt.Errorf("%w: cannot encode negative value %d", ErrInvalidArgument, value)
	}

	if value == 0 {
		return "0", nil
	}

	var buf [maxEncodedLen]byte

	i := len(buf)
	for value > 0 {
		i--
		buf[i] = Alphabet[value%base]
		value /= base
	}

	return string(buf[i:]), nil
}

// Decode is the inverse of Encode. It rejects empty input, symbols outside the
// alphabet, non-canonical leading zeros and values that overflow int64.
func Decode(code string) (int64, error) {
	if code == "" {
		return 0, fmt.Errorf("%w: empty code", ErrInvalidArgument)
	}

	if len(code) > 1 && code[0] == '0' {
		return 0, fmt.Errorf("%w: code %q has a leading zero", ErrInvalidArgument, code)
	}

	var value int64

	for i := 0; i < len(code); i++ {
		d := digit(code[i])
		if d < 0 {
			return 0, fmt.Errorf("%w: invalid symbol %q in code %q", ErrInvalidArgument, code[i], code)
		}

		if value > (math.MaxInt64-d)/base {
			return 0, fmt.Errorf("%w: code %q overflows int64", ErrInvalidArgument, code)
		}

		value = value*base + d
	}

	return value, nil
}

func digit(c byte) int64 {
	switch {
	case c >= '0' && c <= '9':
		return int64(c - '0')
	case c >= 'A' && c <= 'Z':
		return int64(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int64(c-'a') + 36
	default:
		return -1
	}
}
