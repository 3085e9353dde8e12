package iso8583

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

const maxTLVLength = 0xFFFF

// TLVEntry is the length and value stored under one tag.
type TLVEntry struct {
	Length int
	Value  []byte
}

// Hex returns the value as upper-case hex.
func (e TLVEntry) Hex() string {
	return hexUpper(e.Value)
}

// TLVMap is an ordered tag -> entry mapping. Tags are upper-case hex
// strings ("9F02", "82"). Overwriting a tag keeps its original position,
// so building is deterministic. The zero value is an empty map.
type TLVMap struct {
	order   []string
	entries map[string]TLVEntry
}

func NewTLVMap() *TLVMap {
	return &TLVMap{entries: make(map[string]TLVEntry)}
}

// ParseTLV decodes a BER-TLV sequence with 1 or 2 byte tags and lengths of
// up to two bytes. A repeated tag overwrites the earlier entry.
func ParseTLV(data []byte) (*TLVMap, error) {
	t := NewTLVMap()
	off := 0
	for off < len(data) {
		tagLen := 1
		if data[off]&0x1F == 0x1F {
			tagLen = 2
		}
		if off+tagLen > len(data) {
			return nil, &TLVError{Tag: data[off:], Err: fmt.Errorf("%w: tag at offset %d", ErrTruncatedInput, off)}
		}
		tag := data[off : off+tagLen]
		off += tagLen

		if off >= len(data) {
			return nil, &TLVError{Tag: tag, Err: fmt.Errorf("%w: missing length", ErrTruncatedInput)}
		}
		length := int(data[off])
		off++
		if length&0x80 != 0 {
			n := length & 0x7F
			if n != 1 && n != 2 {
				return nil, &TLVError{Tag: tag, Err: fmt.Errorf("%w: %d length bytes", ErrInvalidTLV, n)}
			}
			if off+n > len(data) {
				return nil, &TLVError{Tag: tag, Err: fmt.Errorf("%w: length bytes", ErrTruncatedInput)}
			}
			length = 0
			for _, b := range data[off : off+n] {
				length = length<<8 | int(b)
			}
			off += n
		}

		if off+length > len(data) {
			return nil, &TLVError{Tag: tag, Err: fmt.Errorf("%w: value needs %d bytes, have %d", ErrTruncatedInput, length, len(data)-off)}
		}
		value := append([]byte(nil), data[off:off+length]...)
		off += length

		t.put(hexUpper(tag), TLVEntry{Length: length, Value: value})
	}
	return t, nil
}

// BuildTLV encodes t. It is the inverse of ParseTLV.
func BuildTLV(t *TLVMap) ([]byte, error) {
	return t.Bytes()
}

func (t *TLVMap) put(tag string, e TLVEntry) {
	if t.entries == nil {
		t.entries = make(map[string]TLVEntry)
	}
	if _, ok := t.entries[tag]; !ok {
		t.order = append(t.order, tag)
	}
	t.entries[tag] = e
}

// normalizeTag validates a hex tag against the 1/2-byte rule.
func normalizeTag(tag string) (string, []byte, error) {
	raw, err := hex.DecodeString(tag)
	if err != nil || len(raw) == 0 {
		return "", nil, &TLVError{Tag: []byte(tag), Err: fmt.Errorf("%w: tag is not hex", ErrInvalidTLV)}
	}
	twoByte := raw[0]&0x1F == 0x1F
	if (twoByte && len(raw) != 2) || (!twoByte && len(raw) != 1) {
		return "", nil, &TLVError{Tag: raw, Err: fmt.Errorf("%w: tag length %d does not match its first byte", ErrInvalidTLV, len(raw))}
	}
	return strings.ToUpper(tag), raw, nil
}

// Set stores value under tag with its natural length.
func (t *TLVMap) Set(tag string, value []byte) error {
	return t.SetEntry(tag, TLVEntry{Length: len(value), Value: append([]byte(nil), value...)})
}

// SetHex is Set with a hex-encoded value.
func (t *TLVMap) SetHex(tag, value string) error {
	_, rawTag, err := normalizeTag(tag)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return &TLVError{Tag: rawTag, Err: fmt.Errorf("%w: value is not hex", ErrInvalidContent)}
	}
	return t.Set(tag, raw)
}

// SetEntry stores e as given. Length is checked when the map is built.
func (t *TLVMap) SetEntry(tag string, e TLVEntry) error {
	key, _, err := normalizeTag(tag)
	if err != nil {
		return err
	}
	t.put(key, e)
	return nil
}

func (t *TLVMap) Get(tag string) (TLVEntry, bool) {
	e, ok := t.entries[strings.ToUpper(tag)]
	return e, ok
}

// Delete removes tag and reports whether it was present.
func (t *TLVMap) Delete(tag string) bool {
	key := strings.ToUpper(tag)
	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Tags lists tags in insertion order.
func (t *TLVMap) Tags() []string {
	return append([]string(nil), t.order...)
}

func (t *TLVMap) Len() int {
	return len(t.order)
}

// Bytes encodes every entry in order. Lengths must lie in 0..65535 and
// match the value size.
func (t *TLVMap) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	for _, key := range t.order {
		e := t.entries[key]
		_, tag, err := normalizeTag(key)
		if err != nil {
			return nil, err
		}
		if e.Length < 0 || e.Length > maxTLVLength {
			return nil, &TLVError{Tag: tag, Err: fmt.Errorf("%w: length %d outside 0..%d", ErrLengthOutOfRange, e.Length, maxTLVLength)}
		}
		if e.Length != len(e.Value) {
			return nil, &TLVError{Tag: tag, Err: fmt.Errorf("%w: length %d but value has %d bytes", ErrInvalidTLV, e.Length, len(e.Value))}
		}

		buf.Write(tag)
		switch {
		case e.Length <= 0x7F:
			buf.WriteByte(byte(e.Length))
		case e.Length <= 0xFF:
			buf.WriteByte(0x81)
			buf.WriteByte(byte(e.Length))
		default:
			buf.WriteByte(0x82)
			buf.WriteByte(byte(e.Length >> 8))
			buf.WriteByte(byte(e.Length))
		}
		buf.Write(e.Value)
	}
	return buf.Bytes(), nil
}

func (t *TLVMap) Hex() (string, error) {
	b, err := t.Bytes()
	if err != nil {
		return "", err
	}
	return hexUpper(b), nil
}

// Sub parses the value of a constructed tag (bit 6 of the first byte set)
// as a nested TLV sequence.
func (t *TLVMap) Sub(tag string) (*TLVMap, error) {
	key, raw, err := normalizeTag(tag)
	if err != nil {
		return nil, err
	}
	e, ok := t.entries[key]
	if !ok {
		return nil, &TLVError{Tag: raw, Err: fmt.Errorf("%w: tag not present", ErrBitNotFound)}
	}
	if raw[0]&0x20 == 0 {
		return nil, &TLVError{Tag: raw, Err: fmt.Errorf("%w: primitive tag has no nested data", ErrInvalidTLV)}
	}
	sub, err := ParseTLV(e.Value)
	if err != nil {
		return nil, fmt.Errorf("tag %s: %w", key, err)
	}
	return sub, nil
}

// String lists "TAG LEN VALUE" lines in order.
func (t *TLVMap) String() string {
	var sb strings.Builder
	for _, key := range t.order {
		e := t.entries[key]
		fmt.Fprintf(&sb, "%-4s %3d %s\n", key, e.Length, e.Hex())
	}
	return sb.String()
}
