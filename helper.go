package iso8583

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const hexTableUpper = "0123456789ABCDEF"

// encodeHexUpper converts src to uppercase hex and writes it to dst.
func encodeHexUpper(dst, src []byte) {
	for i, v := range src {
		dst[i*2] = hexTableUpper[v>>4]
		dst[i*2+1] = hexTableUpper[v&0x0f]
	}
}

func hexUpper(src []byte) string {
	dst := make([]byte, len(src)*2)
	encodeHexUpper(dst, src)
	return string(dst)
}

// PackBCD packs a digit string two digits per byte. Odd-length input is
// zero-padded on the left. Hex nibbles A-F are accepted so that track data
// separators and fillers survive packing.
func PackBCD(digits string) ([]byte, error) {
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	out, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not BCD packable", ErrInvalidContent, digits)
	}
	return out, nil
}

// UnpackBCD expands every byte into two uppercase hex digits.
func UnpackBCD(b []byte) string {
	return hexUpper(b)
}

// TransformTrack applies the track-2 substitution: '=' becomes 'D' and an
// odd-length result gets a trailing 'F'.
func TransformTrack(s string) string {
	s = strings.ReplaceAll(s, "=", "D")
	if len(s)%2 == 1 {
		s += "F"
	}
	return s
}

// UntransformTrack reverses TransformTrack. A value that legitimately ends in
// 'F' or contains 'D' does not survive the round trip.
func UntransformTrack(s string) string {
	s = strings.ReplaceAll(s, "D", "=")
	return strings.TrimRight(s, "F")
}

// checkDigits rejects anything but the decimal digits 0-9.
func checkDigits(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("%w: non-digit %q at position %d", ErrInvalidContent, s[i], i)
		}
	}
	return nil
}

// checkTrack accepts the characters a track-2 value may carry before the
// '=' -> 'D' substitution.
func checkTrack(s string) error {
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '=' {
			return fmt.Errorf("%w: %q at position %d is not valid track data", ErrInvalidContent, s[i], i)
		}
	}
	return nil
}

// writeIntToASCII formats val into buf with fixed-width zero padding.
func writeIntToASCII(buf []byte, val, digits int) {
	for i := digits - 1; i >= 0; i-- {
		buf[i] = byte(val%10 + '0')
		val /= 10
	}
}

// parseASCIIToInt parses decimal digits without strconv.
func parseASCIIToInt(b []byte) (int, error) {
	n := 0
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("%w: invalid character '%c' in numeric string", ErrInvalidContent, ch)
		}
		n = n*10 + int(ch-'0')
	}
	return n, nil
}

func pow10(n int) int {
	res := 1
	for i := 0; i < n; i++ {
		res *= 10
	}
	return res
}
