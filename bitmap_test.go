package iso8583

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapPrimaryOnly(t *testing.T) {
	var b Bitmap
	b.set(2)
	b.set(3)

	assert.False(t, b.HasSecondary())
	assert.Equal(t, []int{2, 3}, b.Present())
	assert.Equal(t, "6000000000000000", hexUpper(b.Bytes()))
	assert.True(t, strings.HasPrefix(b.String(), "01100000 | 00000000"))
}

func TestBitmapSecondaryFollowsHighFields(t *testing.T) {
	var b Bitmap
	b.set(70)
	assert.True(t, b.HasSecondary())
	assert.Len(t, b.Bytes(), 16)
	assert.Equal(t, "80000000000000000400000000000000", hexUpper(b.Bytes()))

	b.clear(70)
	assert.False(t, b.HasSecondary())
	assert.Len(t, b.Bytes(), 8)
}

func TestBitmapIsSetOutOfRange(t *testing.T) {
	var b Bitmap
	b.set(128)
	assert.True(t, b.IsSet(128))
	assert.False(t, b.IsSet(0))
	assert.False(t, b.IsSet(129))
	assert.False(t, b.IsSet(-1))
}

func TestPackUnpackBitmap(t *testing.T) {
	tt := []struct {
		desc     string
		field    FieldDescriptor
		fields   []int
		consumed int
	}{
		{desc: "hex primary", field: bitmapDescriptor, fields: []int{2, 3, 4}, consumed: 16},
		{desc: "hex secondary", field: bitmapDescriptor, fields: []int{2, 70, 128}, consumed: 32},
		{
			desc:     "binary secondary",
			field:    FieldDescriptor{Index: 1, Class: ClassBinary, MaxLength: 8, LengthType: LengthFixed},
			fields:   []int{11, 65},
			consumed: 16,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			var b Bitmap
			for _, i := range tc.fields {
				b.set(i)
			}
			wire, err := packBitmap(&tc.field, &b)
			require.NoError(t, err)
			assert.Len(t, wire, tc.consumed)

			parsed, n, err := unpackBitmap(&tc.field, wire, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.consumed, n)
			assert.Equal(t, tc.fields, parsed.Present())
			assert.Equal(t, b, parsed)
		})
	}
}

func TestUnpackBitmapSecondaryWord(t *testing.T) {
	data := []byte("C000000000000000" + "0400000000000000")

	b, n, err := unpackBitmap(&bitmapDescriptor, data, 0)
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	assert.Equal(t, []int{2, 70}, b.Present())
}

func TestUnpackBitmapErrors(t *testing.T) {
	tt := []struct {
		desc     string
		data     string
		expected error
	}{
		{desc: "short primary", data: "60000000", expected: ErrTruncatedInput},
		{desc: "missing secondary", data: "8000000000000000", expected: ErrTruncatedInput},
		{desc: "not hex", data: "G000000000000000", expected: ErrInvalidContent},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			_, _, err := unpackBitmap(&bitmapDescriptor, []byte(tc.data), 0)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}
