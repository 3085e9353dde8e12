package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackBCD(t *testing.T) {
	tt := []struct {
		desc     string
		digits   string
		expected []byte
	}{
		{desc: "even", digits: "1234", expected: []byte{0x12, 0x34}},
		{desc: "odd is left padded", digits: "123", expected: []byte{0x01, 0x23}},
		{desc: "single digit", digits: "7", expected: []byte{0x07}},
		{desc: "track nibbles", digits: "12D4F", expected: []byte{0x01, 0x2D, 0x4F}},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := PackBCD(tc.digits)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestPackBCDRejectsNonDigits(t *testing.T) {
	_, err := PackBCD("12X4")
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestBCDSymmetry(t *testing.T) {
	for _, s := range []string{"00", "1234567890", "42", "0000001000"} {
		packed, err := PackBCD(s)
		require.NoError(t, err)
		assert.Equal(t, s, UnpackBCD(packed))
	}
	for _, s := range []string{"1", "123", "424242424"} {
		packed, err := PackBCD(s)
		require.NoError(t, err)
		assert.Equal(t, "0"+s, UnpackBCD(packed))
	}
}

func TestTrackTransform(t *testing.T) {
	tt := []struct {
		desc        string
		value       string
		transformed string
	}{
		{desc: "odd gets filler", value: "4242424242424242=2512", transformed: "4242424242424242D2512F"},
		{desc: "even stays", value: "4242424242424242=25121", transformed: "4242424242424242D25121"},
		{desc: "no separator", value: "123", transformed: "123F"},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := TransformTrack(tc.value)
			assert.Equal(t, tc.transformed, actual)
			assert.Equal(t, tc.value, UntransformTrack(actual))
		})
	}
}

func TestUntransformTrackLosesTrailingF(t *testing.T) {
	assert.Equal(t, "12", UntransformTrack(TransformTrack("12F")))
}

func TestParseASCIIToInt(t *testing.T) {
	n, err := parseASCIIToInt([]byte("0419"))
	require.NoError(t, err)
	assert.Equal(t, 419, n)

	_, err = parseASCIIToInt([]byte("1A"))
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestWriteIntToASCII(t *testing.T) {
	buf := make([]byte, 3)
	writeIntToASCII(buf, 7, 3)
	assert.Equal(t, "007", string(buf))
}
