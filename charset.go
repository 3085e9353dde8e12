package iso8583

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset is the character set used on the wire for ASCII-encoded text.
// CharsetASCII passes bytes through untouched.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLatin1
	CharsetEBCDIC
)

var charsetNames = map[Charset]string{
	CharsetASCII:  "ascii",
	CharsetLatin1: "latin1",
	CharsetEBCDIC: "ebcdic",
}

// charsetCodecs holds the x/text codecs for every non-passthrough charset.
var charsetCodecs = map[Charset]encoding.Encoding{
	CharsetLatin1: charmap.ISO8859_1,
	CharsetEBCDIC: charmap.CodePage037,
}

func (c Charset) String() string {
	if s, ok := charsetNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Charset(%d)", int(c))
}

func (c Charset) MarshalText() ([]byte, error) {
	if _, ok := charsetNames[c]; !ok {
		return nil, fmt.Errorf("%w: unknown charset %d", ErrConfiguration, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Charset) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "ascii":
		*c = CharsetASCII
	case "latin1", "latin-1", "iso8859-1", "iso-8859-1":
		*c = CharsetLatin1
	case "ebcdic", "cp037", "ibm037":
		*c = CharsetEBCDIC
	default:
		return fmt.Errorf("%w: unknown charset %q", ErrConfiguration, string(text))
	}
	return nil
}

func (c Charset) valid() bool {
	_, ok := charsetNames[c]
	return ok
}

// width counts content units of s: bytes for ASCII, characters otherwise.
func (c Charset) width(s string) int {
	if c == CharsetASCII {
		return len(s)
	}
	return utf8.RuneCountInString(s)
}

func (c Charset) encode(s string) ([]byte, error) {
	codec, ok := charsetCodecs[c]
	if !ok {
		if c != CharsetASCII {
			return nil, fmt.Errorf("%w: charset %s", ErrInvalidDataType, c)
		}
		return []byte(s), nil
	}
	out, err := codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q not representable in %s", ErrInvalidContent, s, c)
	}
	return out, nil
}

func (c Charset) decode(b []byte) (string, error) {
	codec, ok := charsetCodecs[c]
	if !ok {
		if c != CharsetASCII {
			return "", fmt.Errorf("%w: charset %s", ErrInvalidDataType, c)
		}
		return string(b), nil
	}
	out, err := codec.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return string(out), nil
}
