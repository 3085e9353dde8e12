package iso8583

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// HeaderType selects the length header a transport puts in front of each
// message. The codec itself never writes one.
type HeaderType int

const (
	HeaderNone   HeaderType = iota
	HeaderBinary            // 2-byte big-endian length
	HeaderASCII             // 4-digit decimal length, e.g. "0048"
	HeaderHex               // 4-char hex length, e.g. "0030"
)

var headerTypeNames = map[HeaderType]string{
	HeaderNone:   "none",
	HeaderBinary: "binary",
	HeaderASCII:  "ascii",
	HeaderHex:    "hex",
}

func (h HeaderType) String() string {
	if s, ok := headerTypeNames[h]; ok {
		return s
	}
	return fmt.Sprintf("HeaderType(%d)", int(h))
}

func (h HeaderType) MarshalText() ([]byte, error) {
	s, ok := headerTypeNames[h]
	if !ok {
		return nil, fmt.Errorf("%w: header type %d", ErrConfiguration, int(h))
	}
	return []byte(s), nil
}

func (h *HeaderType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for t, name := range headerTypeNames {
		if name == s {
			*h = t
			return nil
		}
	}
	return fmt.Errorf("%w: unknown header type %q", ErrConfiguration, string(text))
}

// Size is the number of bytes the header occupies.
func (h HeaderType) Size() int {
	switch h {
	case HeaderBinary:
		return 2
	case HeaderASCII, HeaderHex:
		return 4
	}
	return 0
}

func (h HeaderType) limit() int {
	if h == HeaderASCII {
		return 9999
	}
	return 0xFFFF
}

// WriteHeader writes msgLen into buf and returns the number of bytes written.
func WriteHeader(msgLen int, buf []byte, htype HeaderType) (int, error) {
	if _, ok := headerTypeNames[htype]; !ok {
		return 0, fmt.Errorf("%w: header type %d", ErrConfiguration, int(htype))
	}
	size := htype.Size()
	if size == 0 {
		return 0, nil
	}
	if msgLen < 0 || msgLen > htype.limit() {
		return 0, fmt.Errorf("%w: message length %d does not fit a %s header", ErrContentTooLong, msgLen, htype)
	}
	if len(buf) < size {
		return 0, fmt.Errorf("%w: header needs %d bytes", ErrTruncatedInput, size)
	}

	switch htype {
	case HeaderBinary:
		binary.BigEndian.PutUint16(buf, uint16(msgLen))
	case HeaderASCII:
		writeIntToASCII(buf[:4], msgLen, 4)
	case HeaderHex:
		var word [2]byte
		binary.BigEndian.PutUint16(word[:], uint16(msgLen))
		encodeHexUpper(buf, word[:])
	}
	return size, nil
}

// ReadHeader decodes the message length at the start of buf.
func ReadHeader(buf []byte, htype HeaderType) (int, error) {
	if _, ok := headerTypeNames[htype]; !ok {
		return 0, fmt.Errorf("%w: header type %d", ErrConfiguration, int(htype))
	}
	size := htype.Size()
	if size == 0 {
		return 0, nil
	}
	if len(buf) < size {
		return 0, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedInput, size, len(buf))
	}

	switch htype {
	case HeaderBinary:
		return int(binary.BigEndian.Uint16(buf)), nil
	case HeaderASCII:
		return parseASCIIToInt(buf[:4])
	default:
		word, err := hex.DecodeString(string(buf[:4]))
		if err != nil {
			return 0, fmt.Errorf("%w: hex header %q", ErrInvalidContent, buf[:4])
		}
		return int(binary.BigEndian.Uint16(word)), nil
	}
}

// Frame prefixes msg with its length header.
func Frame(msg []byte, htype HeaderType) ([]byte, error) {
	out := make([]byte, htype.Size()+len(msg))
	n, err := WriteHeader(len(msg), out, htype)
	if err != nil {
		return nil, err
	}
	copy(out[n:], msg)
	return out, nil
}

// Unframe splits one framed message off data and returns it together with
// whatever follows it. With HeaderNone all of data is the message.
func Unframe(data []byte, htype HeaderType) (msg, rest []byte, err error) {
	if htype == HeaderNone {
		return data, nil, nil
	}
	n, err := ReadHeader(data, htype)
	if err != nil {
		return nil, nil, err
	}
	start := htype.Size()
	if len(data)-start < n {
		return nil, nil, fmt.Errorf("%w: frame announces %d bytes, have %d", ErrTruncatedInput, n, len(data)-start)
	}
	return data[start : start+n], data[start+n:], nil
}

// ReadFrame reads one framed message from r. It returns io.EOF when r is
// exhausted before a header starts.
func ReadFrame(r io.Reader, htype HeaderType) ([]byte, error) {
	size := htype.Size()
	if size == 0 {
		return io.ReadAll(r)
	}
	hdr := make([]byte, size)
	if _, err := io.ReadFull(r, hdr); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: partial header", ErrTruncatedInput)
		}
		return nil, err
	}
	n, err := ReadHeader(hdr, htype)
	if err != nil {
		return nil, err
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, fmt.Errorf("%w: frame body: %v", ErrTruncatedInput, err)
	}
	return msg, nil
}
