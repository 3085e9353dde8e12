package iso8583

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRoundtrip(t *testing.T) {
	tt := []struct {
		desc  string
		field FieldDescriptor
		value any
		wire  []byte
	}{
		{
			desc:  "fixed numeric",
			field: FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed},
			value: "000000",
			wire:  []byte("000000"),
		},
		{
			desc:  "llvar numeric",
			field: FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR},
			value: "4242424242424242",
			wire:  []byte("164242424242424242"),
		},
		{
			desc:  "lvar alphanumeric",
			field: FieldDescriptor{Class: ClassAlphanumeric, MaxLength: 9, LengthType: LengthLVAR},
			value: "abc",
			wire:  []byte("3abc"),
		},
		{
			desc:  "lllvar ans",
			field: FieldDescriptor{Class: ClassAlphanumericSpecial, MaxLength: 999, LengthType: LengthLLLVAR},
			value: "hello world",
			wire:  []byte("011hello world"),
		},
		{
			desc:  "bcd data and bcd prefix",
			field: FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR, LengthEncoding: EncodingBCD, Encoding: EncodingBCD},
			value: "12345",
			wire:  []byte{0x05, 0x01, 0x23, 0x45},
		},
		{
			desc:  "three digit bcd prefix",
			field: FieldDescriptor{Class: ClassAlphanumericSpecial, MaxLength: 999, LengthType: LengthLLLVAR, LengthEncoding: EncodingBCD},
			value: "abc",
			wire:  []byte{0x00, 0x03, 'a', 'b', 'c'},
		},
		{
			desc:  "fixed odd bcd",
			field: FieldDescriptor{Class: ClassNumeric, MaxLength: 5, LengthType: LengthFixed, Encoding: EncodingBCD},
			value: "00123",
			wire:  []byte{0x00, 0x01, 0x23},
		},
		{
			desc:  "track data ascii",
			field: FieldDescriptor{Class: ClassTrackData, MaxLength: 37, LengthType: LengthLLVAR},
			value: "4242424242424242=2512",
			wire:  []byte("224242424242424242D2512F"),
		},
		{
			desc:  "track data bcd",
			field: FieldDescriptor{Class: ClassTrackData, MaxLength: 37, LengthType: LengthLLVAR, Encoding: EncodingBCD},
			value: "4242424242424242=2512",
			wire:  append([]byte("22"), 0x42, 0x42, 0x42, 0x42, 0x42, 0x42, 0x42, 0x42, 0xD2, 0x51, 0x2F),
		},
		{
			desc:  "fixed binary",
			field: FieldDescriptor{Class: ClassBinary, MaxLength: 8, LengthType: LengthFixed},
			value: []byte{1, 2, 3, 4, 5, 6, 7, 8},
			wire:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			desc:  "variable binary as hex",
			field: FieldDescriptor{Class: ClassBinary, MaxLength: 99, LengthType: LengthLLVAR, Encoding: EncodingASCII},
			value: []byte{0xDE, 0xAD},
			wire:  []byte("02DEAD"),
		},
		{
			desc:  "fixed binary as hex",
			field: FieldDescriptor{Class: ClassBinary, MaxLength: 2, LengthType: LengthFixed, Encoding: EncodingASCII},
			value: []byte{0x0A, 0xFF},
			wire:  []byte("0AFF"),
		},
		{
			desc:  "ebcdic fixed",
			field: FieldDescriptor{Class: ClassAlphanumeric, MaxLength: 4, LengthType: LengthFixed, Charset: CharsetEBCDIC},
			value: "AB  ",
			wire:  []byte{0xC1, 0xC2, 0x40, 0x40},
		},
		{
			desc:  "ebcdic llvar",
			field: FieldDescriptor{Class: ClassAlphanumeric, MaxLength: 20, LengthType: LengthLLVAR, Charset: CharsetEBCDIC},
			value: "AB",
			wire:  []byte{0xF0, 0xF2, 0xC1, 0xC2},
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			require.NoError(t, tc.field.validate())

			wire, err := tc.field.Pack(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.wire, wire)

			value, n, err := tc.field.Unpack(wire, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.value, value)
			assert.Equal(t, len(wire), n)
		})
	}
}

func TestFieldFixedPadding(t *testing.T) {
	tt := []struct {
		desc     string
		field    FieldDescriptor
		value    any
		expected string
	}{
		{
			desc:     "numeric zero left",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed},
			value:    "123",
			expected: "000123",
		},
		{
			desc:     "integer value",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 12, LengthType: LengthFixed},
			value:    int64(1000),
			expected: "000000001000",
		},
		{
			desc:     "alpha space right",
			field:    FieldDescriptor{Class: ClassAlphanumeric, MaxLength: 5, LengthType: LengthFixed},
			value:    "AB",
			expected: "AB   ",
		},
		{
			desc:     "special space right",
			field:    FieldDescriptor{Class: ClassAlphanumericSpecial, MaxLength: 4, LengthType: LengthFixed},
			value:    []byte("#1"),
			expected: "#1  ",
		},
		{
			desc:     "variable numeric unpadded",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR},
			value:    uint64(42),
			expected: "0242",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			wire, err := tc.field.Pack(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(wire))
		})
	}
}

func TestFieldLengthPrefixBoundary(t *testing.T) {
	field := FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR}

	wire, err := field.Pack(strings.Repeat("4", 19))
	require.NoError(t, err)
	assert.Equal(t, "19", string(wire[:2]))

	_, err = field.Pack(strings.Repeat("4", 20))
	assert.ErrorIs(t, err, ErrContentTooLong)
}

func TestFieldPackErrors(t *testing.T) {
	tt := []struct {
		desc     string
		field    FieldDescriptor
		value    any
		expected error
	}{
		{
			desc:     "fixed too long",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed},
			value:    "1234567",
			expected: ErrContentTooLong,
		},
		{
			desc:     "fixed binary too short",
			field:    FieldDescriptor{Class: ClassBinary, MaxLength: 8, LengthType: LengthFixed},
			value:    []byte{1, 2, 3, 4},
			expected: ErrLengthOutOfRange,
		},
		{
			desc:     "variable empty",
			field:    FieldDescriptor{Class: ClassAlphanumeric, MaxLength: 25, LengthType: LengthLLVAR},
			value:    "",
			expected: ErrContentTooLong,
		},
		{
			desc:     "track grows past max",
			field:    FieldDescriptor{Class: ClassTrackData, MaxLength: 4, LengthType: LengthLLVAR},
			value:    "123=",
			expected: nil,
		},
		{
			desc:     "track filler past max",
			field:    FieldDescriptor{Class: ClassTrackData, MaxLength: 3, LengthType: LengthLLVAR},
			value:    "1=3",
			expected: ErrContentTooLong,
		},
		{
			desc:     "binary prefix encoding",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR, LengthEncoding: EncodingBinary},
			value:    "42",
			expected: ErrInvalidDataType,
		},
		{
			desc:     "bin encoding on text",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed, Encoding: EncodingBinary},
			value:    "123456",
			expected: ErrConfiguration,
		},
		{
			desc:     "bcd non digits",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed, Encoding: EncodingBCD},
			value:    "12X456",
			expected: ErrInvalidContent,
		},
		{
			desc:     "bcd numeric hex letters",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthLLVAR, Encoding: EncodingBCD},
			value:    "12ab",
			expected: ErrInvalidContent,
		},
		{
			desc:     "negative int",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed},
			value:    -5,
			expected: ErrInvalidContent,
		},
		{
			desc:     "negative int64",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 12, LengthType: LengthFixed},
			value:    int64(-1000),
			expected: ErrInvalidContent,
		},
		{
			desc:     "lower case track separator",
			field:    FieldDescriptor{Class: ClassTrackData, MaxLength: 37, LengthType: LengthLLVAR, Encoding: EncodingBCD},
			value:    "4242424242424242d2512",
			expected: ErrInvalidContent,
		},
		{
			desc:     "track letter ascii",
			field:    FieldDescriptor{Class: ClassTrackData, MaxLength: 37, LengthType: LengthLLVAR},
			value:    "4242F2512",
			expected: ErrInvalidContent,
		},
		{
			desc:     "unsupported type",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed},
			value:    1.5,
			expected: ErrInvalidDataType,
		},
		{
			desc:     "binary from bad hex",
			field:    FieldDescriptor{Class: ClassBinary, MaxLength: 8, LengthType: LengthFixed},
			value:    "zz",
			expected: ErrInvalidContent,
		},
		{
			desc:     "binary from int",
			field:    FieldDescriptor{Class: ClassBinary, MaxLength: 8, LengthType: LengthFixed},
			value:    12,
			expected: ErrInvalidDataType,
		},
		{
			desc:     "unmappable charset",
			field:    FieldDescriptor{Class: ClassAlphanumericSpecial, MaxLength: 8, LengthType: LengthLLVAR, Charset: CharsetEBCDIC},
			value:    "日本",
			expected: ErrInvalidContent,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := tc.field.Pack(tc.value)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestFieldUnpackErrors(t *testing.T) {
	llvar := FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR}

	tt := []struct {
		desc     string
		field    FieldDescriptor
		data     []byte
		offset   int
		expected error
	}{
		{desc: "length over max", field: llvar, data: []byte("20" + strings.Repeat("1", 20)), expected: ErrLengthOutOfRange},
		{desc: "zero length", field: llvar, data: []byte("00"), expected: ErrLengthOutOfRange},
		{desc: "truncated value", field: llvar, data: []byte("164242"), expected: ErrTruncatedInput},
		{desc: "truncated prefix", field: llvar, data: []byte("1"), expected: ErrTruncatedInput},
		{desc: "non digit prefix", field: llvar, data: []byte("1A42"), expected: ErrInvalidContent},
		{desc: "offset past end", field: llvar, data: []byte("02"), offset: 5, expected: ErrTruncatedInput},
		{
			desc:     "truncated fixed",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 6, LengthType: LengthFixed},
			data:     []byte("123"),
			expected: ErrTruncatedInput,
		},
		{
			desc:     "binary prefix encoding",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR, LengthEncoding: EncodingBinary},
			data:     []byte{0x02, '4', '2'},
			expected: ErrInvalidDataType,
		},
		{
			desc:     "bad hex binary",
			field:    FieldDescriptor{Class: ClassBinary, MaxLength: 2, LengthType: LengthFixed, Encoding: EncodingASCII},
			data:     []byte("ZZ00"),
			expected: ErrInvalidContent,
		},
		{
			desc:     "bcd numeric hex nibble",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 4, LengthType: LengthFixed, Encoding: EncodingBCD},
			data:     []byte{0x12, 0xAB},
			expected: ErrInvalidContent,
		},
		{
			desc:     "bcd prefix hex nibble",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR, LengthEncoding: EncodingBCD},
			data:     []byte{0x1A, '1'},
			expected: ErrInvalidContent,
		},
		{
			desc:     "bcd prefix over max",
			field:    FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR, LengthEncoding: EncodingBCD},
			data:     []byte{0x25, '1'},
			expected: ErrLengthOutOfRange,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			_, _, err := tc.field.Unpack(tc.data, tc.offset)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestFieldUnpackAtOffset(t *testing.T) {
	field := FieldDescriptor{Class: ClassNumeric, MaxLength: 19, LengthType: LengthLLVAR}
	data := []byte("XXXX054242442")

	value, n, err := field.Unpack(data, 4)
	require.NoError(t, err)
	assert.Equal(t, "42424", value)
	assert.Equal(t, 7, n)
}

func TestFieldUnpackCopiesBinary(t *testing.T) {
	field := FieldDescriptor{Class: ClassBinary, MaxLength: 2, LengthType: LengthFixed}
	data := []byte{0x01, 0x02}

	value, _, err := field.Unpack(data, 0)
	require.NoError(t, err)
	data[0] = 0xFF
	assert.Equal(t, []byte{0x01, 0x02}, value)
}
