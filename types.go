package iso8583

import (
	"fmt"
	"strings"
)

// ContentClass is the category of characters a field may carry.
type ContentClass int

const (
	ClassNumeric ContentClass = iota
	ClassAlpha
	ClassSpecial
	ClassAlphanumeric
	ClassAlphaSpecial
	ClassNumericSpecial
	ClassAlphanumericSpecial
	ClassBinary
	ClassTrackData
)

var contentClassNames = map[ContentClass]string{
	ClassNumeric:             "n",
	ClassAlpha:               "a",
	ClassSpecial:             "s",
	ClassAlphanumeric:        "an",
	ClassAlphaSpecial:        "as",
	ClassNumericSpecial:      "ns",
	ClassAlphanumericSpecial: "ans",
	ClassBinary:              "b",
	ClassTrackData:           "z",
}

var contentClassAliases = map[string]ContentClass{
	"numeric":             ClassNumeric,
	"alpha":               ClassAlpha,
	"special":             ClassSpecial,
	"alphanumeric":        ClassAlphanumeric,
	"alphaspecial":        ClassAlphaSpecial,
	"numericspecial":      ClassNumericSpecial,
	"alphanumericspecial": ClassAlphanumericSpecial,
	"binary":              ClassBinary,
	"trackdata":           ClassTrackData,
	"track":               ClassTrackData,
}

func (c ContentClass) String() string {
	if s, ok := contentClassNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ContentClass(%d)", int(c))
}

func (c ContentClass) MarshalText() ([]byte, error) {
	if _, ok := contentClassNames[c]; !ok {
		return nil, fmt.Errorf("%w: unknown content class %d", ErrConfiguration, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts the ISO notation ("n", "ans", "z") or the long
// names ("numeric", "alphanumericSpecial", "trackData").
func (c *ContentClass) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	s = strings.NewReplacer("_", "", "-", "").Replace(s)
	for class, name := range contentClassNames {
		if name == s {
			*c = class
			return nil
		}
	}
	if class, ok := contentClassAliases[s]; ok {
		*c = class
		return nil
	}
	return fmt.Errorf("%w: unknown content class %q", ErrConfiguration, string(text))
}

// LengthType is the length-prefix scheme of a field.
type LengthType int

const (
	LengthFixed LengthType = iota
	LengthLVAR
	LengthLLVAR
	LengthLLLVAR
)

var lengthTypeNames = map[LengthType]string{
	LengthFixed:  "FIXED",
	LengthLVAR:   "LVAR",
	LengthLLVAR:  "LLVAR",
	LengthLLLVAR: "LLLVAR",
}

// Digits returns the number of decimal digits in the length prefix.
func (lt LengthType) Digits() int {
	switch lt {
	case LengthLVAR:
		return 1
	case LengthLLVAR:
		return 2
	case LengthLLLVAR:
		return 3
	}
	return 0
}

func (lt LengthType) String() string {
	if s, ok := lengthTypeNames[lt]; ok {
		return s
	}
	return fmt.Sprintf("LengthType(%d)", int(lt))
}

func (lt LengthType) MarshalText() ([]byte, error) {
	if _, ok := lengthTypeNames[lt]; !ok {
		return nil, fmt.Errorf("%w: unknown length type %d", ErrConfiguration, int(lt))
	}
	return []byte(lt.String()), nil
}

func (lt *LengthType) UnmarshalText(text []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(text)))
	for t, name := range lengthTypeNames {
		if name == s {
			*lt = t
			return nil
		}
	}
	return fmt.Errorf("%w: unknown length type %q", ErrConfiguration, string(text))
}

// Encoding is the byte-level representation of field data or of a length prefix.
// EncodingDefault resolves to EncodingBinary for binary fields and to
// EncodingASCII for everything else.
type Encoding int

const (
	EncodingDefault Encoding = iota
	EncodingASCII
	EncodingBCD
	EncodingBinary
)

var encodingNames = map[Encoding]string{
	EncodingDefault: "",
	EncodingASCII:   "ASCII",
	EncodingBCD:     "BCD",
	EncodingBinary:  "BIN",
}

func (e Encoding) String() string {
	if s, ok := encodingNames[e]; ok {
		if s == "" {
			return "DEFAULT"
		}
		return s
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

func (e Encoding) MarshalText() ([]byte, error) {
	s, ok := encodingNames[e]
	if !ok {
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrInvalidDataType, int(e))
	}
	return []byte(s), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(text)))
	if s == "BINARY" {
		s = "BIN"
	}
	for enc, name := range encodingNames {
		if name == s {
			*e = enc
			return nil
		}
	}
	return fmt.Errorf("%w: unknown encoding %q", ErrInvalidDataType, string(text))
}

// FieldDescriptor is the static, read-only description of one field.
// Descriptors are shared freely between goroutines once a Spec is built.
type FieldDescriptor struct {
	Index          int          `json:"index" toml:"index"`
	Name           string       `json:"name" toml:"name"`
	Class          ContentClass `json:"class" toml:"class"`
	MaxLength      int          `json:"max_length" toml:"max_length"`
	LengthType     LengthType   `json:"length_type" toml:"length_type"`
	LengthEncoding Encoding     `json:"length_encoding,omitempty" toml:"length_encoding"`
	Encoding       Encoding     `json:"encoding,omitempty" toml:"encoding"`
	Charset        Charset      `json:"charset,omitempty" toml:"charset"`
	TLV            bool         `json:"tlv,omitempty" toml:"tlv"`
	Remark         string       `json:"remark,omitempty" toml:"remark"`
}

func (d *FieldDescriptor) String() string {
	return fmt.Sprintf("%d %q (%s %s max=%d %s)", d.Index, d.Name, d.Class, d.LengthType, d.MaxLength, d.dataEncoding())
}

// dataEncoding resolves EncodingDefault against the content class.
func (d *FieldDescriptor) dataEncoding() Encoding {
	if d.Encoding != EncodingDefault {
		return d.Encoding
	}
	if d.Class == ClassBinary {
		return EncodingBinary
	}
	return EncodingASCII
}

func (d *FieldDescriptor) lengthEncoding() Encoding {
	if d.LengthEncoding == EncodingDefault {
		return EncodingASCII
	}
	return d.LengthEncoding
}

const (
	MaxFieldNumber = 128
	BitmapSize     = 8
)
