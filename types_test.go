package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentClassText(t *testing.T) {
	tt := []struct {
		desc     string
		text     string
		expected ContentClass
	}{
		{desc: "short numeric", text: "n", expected: ClassNumeric},
		{desc: "short ans", text: "ans", expected: ClassAlphanumericSpecial},
		{desc: "long camel", text: "alphanumericSpecial", expected: ClassAlphanumericSpecial},
		{desc: "long snake", text: "track_data", expected: ClassTrackData},
		{desc: "upper binary", text: "B", expected: ClassBinary},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			var c ContentClass
			require.NoError(t, c.UnmarshalText([]byte(tc.text)))
			assert.Equal(t, tc.expected, c)
		})
	}

	var c ContentClass
	assert.ErrorIs(t, c.UnmarshalText([]byte("q")), ErrConfiguration)

	text, err := ClassAlphaSpecial.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "as", string(text))
}

func TestLengthTypeText(t *testing.T) {
	var lt LengthType
	require.NoError(t, lt.UnmarshalText([]byte("llvar")))
	assert.Equal(t, LengthLLVAR, lt)
	assert.Equal(t, 2, lt.Digits())
	assert.Equal(t, 0, LengthFixed.Digits())
	assert.ErrorIs(t, lt.UnmarshalText([]byte("LLLLVAR")), ErrConfiguration)
}

func TestEncodingText(t *testing.T) {
	var e Encoding
	require.NoError(t, e.UnmarshalText([]byte("binary")))
	assert.Equal(t, EncodingBinary, e)
	require.NoError(t, e.UnmarshalText([]byte("bcd")))
	assert.Equal(t, EncodingBCD, e)
	assert.ErrorIs(t, e.UnmarshalText([]byte("EBCDIC")), ErrInvalidDataType)
}

func TestDataEncodingDefaults(t *testing.T) {
	bin := FieldDescriptor{Class: ClassBinary}
	assert.Equal(t, EncodingBinary, bin.dataEncoding())

	text := FieldDescriptor{Class: ClassAlphanumeric}
	assert.Equal(t, EncodingASCII, text.dataEncoding())
	assert.Equal(t, EncodingASCII, text.lengthEncoding())
}

func TestCharsetRoundtrip(t *testing.T) {
	tt := []struct {
		desc    string
		charset Charset
		text    string
		wire    []byte
	}{
		{desc: "ascii passthrough", charset: CharsetASCII, text: "0200", wire: []byte("0200")},
		{desc: "ebcdic digits", charset: CharsetEBCDIC, text: "0200", wire: []byte{0xF0, 0xF2, 0xF0, 0xF0}},
		{desc: "ebcdic letters", charset: CharsetEBCDIC, text: "AB ", wire: []byte{0xC1, 0xC2, 0x40}},
		{desc: "latin1 accent", charset: CharsetLatin1, text: "é", wire: []byte{0xE9}},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			wire, err := tc.charset.encode(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.wire, wire)

			text, err := tc.charset.decode(wire)
			require.NoError(t, err)
			assert.Equal(t, tc.text, text)
		})
	}
}

func TestCharsetUnmappable(t *testing.T) {
	_, err := CharsetLatin1.encode("日本")
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestCharsetText(t *testing.T) {
	var c Charset
	require.NoError(t, c.UnmarshalText([]byte("cp037")))
	assert.Equal(t, CharsetEBCDIC, c)
	assert.Equal(t, 2, c.width("é1"))
	assert.ErrorIs(t, c.UnmarshalText([]byte("utf-16")), ErrConfiguration)
}
