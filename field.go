package iso8583

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

type padding int

const (
	padNone padding = iota
	padZeroLeft
	padSpaceRight
)

// classPadding is the fixed-length formatting rule of every content class.
// Spec construction rejects classes missing from this table.
var classPadding = map[ContentClass]padding{
	ClassNumeric:             padZeroLeft,
	ClassAlpha:               padSpaceRight,
	ClassSpecial:             padSpaceRight,
	ClassAlphanumeric:        padSpaceRight,
	ClassAlphaSpecial:        padSpaceRight,
	ClassNumericSpecial:      padSpaceRight,
	ClassAlphanumericSpecial: padSpaceRight,
	ClassBinary:              padNone,
	ClassTrackData:           padNone,
}

// normalize converts a caller value into the stored form of the field:
// []byte for binary fields and string for everything else. Binary fields
// take a string as hex.
func (d *FieldDescriptor) normalize(value any) (any, error) {
	if d.Class == ClassBinary {
		switch v := value.(type) {
		case []byte:
			return append([]byte(nil), v...), nil
		case string:
			b, err := hex.DecodeString(v)
			if err != nil {
				return nil, fmt.Errorf("%w: binary value %q is not hex", ErrInvalidContent, v)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("%w: binary field needs []byte or hex string, got %T", ErrInvalidDataType, value)
		}
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int:
		return d.formatInt(int64(v))
	case int64:
		return d.formatInt(v)
	case uint64:
		return strconv.FormatUint(v, 10), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrInvalidDataType, value)
	}
}

func (d *FieldDescriptor) formatInt(v int64) (any, error) {
	if v < 0 && d.Class == ClassNumeric {
		return nil, fmt.Errorf("%w: negative value %d for numeric field", ErrInvalidContent, v)
	}
	return strconv.FormatInt(v, 10), nil
}

// Pack encodes one field value into its on-wire form: the optional length
// prefix followed by the encoded data.
func (d *FieldDescriptor) Pack(value any) ([]byte, error) {
	v, err := d.normalize(value)
	if err != nil {
		return nil, err
	}

	var units int
	var data []byte
	if b, ok := v.([]byte); ok {
		units, data, err = d.encodeBinary(b)
	} else {
		units, data, err = d.encodeText(v.(string))
	}
	if err != nil {
		return nil, err
	}

	prefix, err := d.packLength(units)
	if err != nil {
		return nil, err
	}
	if len(prefix) == 0 {
		return data, nil
	}
	return append(prefix, data...), nil
}

// formatContent applies fixed-length padding and the track-data substitution.
func (d *FieldDescriptor) formatContent(s string) (string, error) {
	if d.LengthType == LengthFixed {
		width := d.Charset.width(s)
		if d.dataEncoding() == EncodingBCD {
			width = len(s)
		}
		if width > d.MaxLength {
			return "", fmt.Errorf("%w: %d units exceed fixed length %d", ErrContentTooLong, width, d.MaxLength)
		}
		rule, ok := classPadding[d.Class]
		if !ok {
			return "", fmt.Errorf("%w: unknown content class %s", ErrConfiguration, d.Class)
		}
		switch rule {
		case padZeroLeft:
			s = strings.Repeat("0", d.MaxLength-width) + s
		case padSpaceRight:
			s += strings.Repeat(" ", d.MaxLength-width)
		}
	}
	if d.Class == ClassTrackData {
		if err := checkTrack(s); err != nil {
			return "", err
		}
		s = TransformTrack(s)
	}
	return s, nil
}

// encodeText returns the content length in units and the encoded data.
func (d *FieldDescriptor) encodeText(value string) (int, []byte, error) {
	content, err := d.formatContent(value)
	if err != nil {
		return 0, nil, err
	}

	switch d.dataEncoding() {
	case EncodingASCII:
		data, err := d.Charset.encode(content)
		if err != nil {
			return 0, nil, err
		}
		return len(data), data, nil
	case EncodingBCD:
		if d.Class == ClassNumeric {
			if err := checkDigits(content); err != nil {
				return 0, nil, err
			}
		}
		data, err := PackBCD(content)
		if err != nil {
			return 0, nil, err
		}
		return len(content), data, nil
	case EncodingBinary:
		return 0, nil, fmt.Errorf("%w: BIN encoding on %s field", ErrConfiguration, d.Class)
	default:
		return 0, nil, fmt.Errorf("%w: %s", ErrInvalidDataType, d.Encoding)
	}
}

// encodeBinary handles binary fields, either raw or rendered as hex ASCII.
func (d *FieldDescriptor) encodeBinary(value []byte) (int, []byte, error) {
	switch d.dataEncoding() {
	case EncodingBinary:
		return len(value), value, nil
	case EncodingASCII:
		data, err := d.Charset.encode(hexUpper(value))
		if err != nil {
			return 0, nil, err
		}
		return len(value), data, nil
	case EncodingBCD:
		return 0, nil, fmt.Errorf("%w: BCD encoding on binary field", ErrConfiguration)
	default:
		return 0, nil, fmt.Errorf("%w: %s", ErrInvalidDataType, d.Encoding)
	}
}

// packLength checks the content length against the descriptor and renders
// the length prefix for variable schemes.
func (d *FieldDescriptor) packLength(units int) ([]byte, error) {
	if d.LengthType == LengthFixed {
		if units > d.MaxLength {
			return nil, fmt.Errorf("%w: %d units exceed fixed length %d", ErrContentTooLong, units, d.MaxLength)
		}
		if units != d.MaxLength {
			return nil, fmt.Errorf("%w: fixed field needs %d units, got %d", ErrLengthOutOfRange, d.MaxLength, units)
		}
		return nil, nil
	}

	digits := d.LengthType.Digits()
	if digits == 0 {
		return nil, fmt.Errorf("%w: unknown length type %s", ErrConfiguration, d.LengthType)
	}
	if units > d.MaxLength {
		return nil, fmt.Errorf("%w: %d units exceed max %d", ErrContentTooLong, units, d.MaxLength)
	}
	if units == 0 {
		return nil, fmt.Errorf("%w: zero-length content for %s field", ErrContentTooLong, d.LengthType)
	}

	buf := make([]byte, digits)
	writeIntToASCII(buf, units, digits)
	switch d.lengthEncoding() {
	case EncodingASCII:
		return d.Charset.encode(string(buf))
	case EncodingBCD:
		return PackBCD(string(buf))
	default:
		return nil, fmt.Errorf("%w: length prefix encoding %s", ErrInvalidDataType, d.LengthEncoding)
	}
}

// Unpack decodes the field starting at offset and reports how many bytes it
// consumed, prefix included.
func (d *FieldDescriptor) Unpack(data []byte, offset int) (any, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, fmt.Errorf("%w: offset %d outside %d bytes", ErrTruncatedInput, offset, len(data))
	}

	units, prefixLen, err := d.unpackLength(data, offset)
	if err != nil {
		return nil, 0, err
	}
	pos := offset + prefixLen

	span, err := d.wireSpan(units)
	if err != nil {
		return nil, 0, err
	}
	if pos+span > len(data) {
		return nil, 0, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrTruncatedInput, span, pos, len(data)-pos)
	}

	value, err := d.decodeContent(data[pos:pos+span], units)
	if err != nil {
		return nil, 0, err
	}
	return value, prefixLen + span, nil
}

// unpackLength returns the content length and the size of the length prefix.
func (d *FieldDescriptor) unpackLength(data []byte, offset int) (int, int, error) {
	if d.LengthType == LengthFixed {
		return d.MaxLength, 0, nil
	}
	digits := d.LengthType.Digits()
	if digits == 0 {
		return 0, 0, fmt.Errorf("%w: unknown length type %s", ErrConfiguration, d.LengthType)
	}

	var prefixLen int
	var text string
	switch d.lengthEncoding() {
	case EncodingASCII:
		prefixLen = digits
		if offset+prefixLen > len(data) {
			return 0, 0, fmt.Errorf("%w: length prefix", ErrTruncatedInput)
		}
		s, err := d.Charset.decode(data[offset : offset+prefixLen])
		if err != nil {
			return 0, 0, err
		}
		text = s
	case EncodingBCD:
		prefixLen = (digits + 1) / 2
		if offset+prefixLen > len(data) {
			return 0, 0, fmt.Errorf("%w: length prefix", ErrTruncatedInput)
		}
		text = UnpackBCD(data[offset : offset+prefixLen])
	default:
		return 0, 0, fmt.Errorf("%w: length prefix encoding %s", ErrInvalidDataType, d.LengthEncoding)
	}

	units, err := parseASCIIToInt([]byte(text))
	if err != nil {
		return 0, 0, err
	}
	if units > d.MaxLength || units == 0 {
		return 0, 0, fmt.Errorf("%w: decoded length %d, max %d", ErrLengthOutOfRange, units, d.MaxLength)
	}
	return units, prefixLen, nil
}

// wireSpan translates a content length into on-wire bytes.
func (d *FieldDescriptor) wireSpan(units int) (int, error) {
	switch d.dataEncoding() {
	case EncodingASCII:
		if d.Class == ClassBinary {
			return units * 2, nil
		}
		return units, nil
	case EncodingBCD:
		return (units + 1) / 2, nil
	case EncodingBinary:
		return units, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidDataType, d.Encoding)
	}
}

func (d *FieldDescriptor) decodeContent(raw []byte, units int) (any, error) {
	enc := d.dataEncoding()
	if d.Class == ClassBinary {
		switch enc {
		case EncodingBinary:
			return append([]byte(nil), raw...), nil
		case EncodingASCII:
			s, err := d.Charset.decode(raw)
			if err != nil {
				return nil, err
			}
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("%w: binary field is not hex: %v", ErrInvalidContent, err)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("%w: %s encoding on binary field", ErrConfiguration, enc)
		}
	}

	var s string
	switch enc {
	case EncodingASCII:
		text, err := d.Charset.decode(raw)
		if err != nil {
			return nil, err
		}
		s = text
	case EncodingBCD:
		s = UnpackBCD(raw)
		s = s[len(s)-units:]
		if d.Class == ClassNumeric {
			if err := checkDigits(s); err != nil {
				return nil, err
			}
		}
	case EncodingBinary:
		return nil, fmt.Errorf("%w: BIN encoding on %s field", ErrConfiguration, d.Class)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDataType, d.Encoding)
	}

	if d.Class == ClassTrackData {
		s = UntransformTrack(s)
	}
	return s, nil
}
