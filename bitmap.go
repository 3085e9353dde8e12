package iso8583

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/imroc/biu"
)

// Bitmap holds the presence flags of a message. Index 0 is unused and
// index 1 marks the secondary bitmap; it is kept equal to "any of 65..128 set".
type Bitmap [MaxFieldNumber + 1]bool

func (b *Bitmap) set(i int) {
	b[i] = true
	b.syncSecondary()
}

func (b *Bitmap) clear(i int) {
	b[i] = false
	b.syncSecondary()
}

func (b *Bitmap) syncSecondary() {
	b[1] = false
	for i := 65; i <= MaxFieldNumber; i++ {
		if b[i] {
			b[1] = true
			return
		}
	}
}

// IsSet reports whether field i is flagged. Out-of-range indices are never set.
func (b *Bitmap) IsSet(i int) bool {
	if i < 1 || i > MaxFieldNumber {
		return false
	}
	return b[i]
}

// HasSecondary reports whether any of fields 65..128 is present.
func (b *Bitmap) HasSecondary() bool {
	return b[1]
}

// Present lists the flagged data fields (2..128) in ascending order.
func (b *Bitmap) Present() []int {
	out := make([]int, 0, 16)
	for i := 2; i <= MaxFieldNumber; i++ {
		if b[i] {
			out = append(out, i)
		}
	}
	return out
}

// Bytes renders the bitmap as 8 or 16 big-endian bytes.
func (b *Bitmap) Bytes() []byte {
	words := 1
	if b[1] {
		words = 2
	}
	out := make([]byte, words*BitmapSize)
	for w := 0; w < words; w++ {
		binary.BigEndian.PutUint64(out[w*BitmapSize:], b.word(w))
	}
	return out
}

// word packs flags w*64+1 .. w*64+64 so that the lowest index is the MSB.
func (b *Bitmap) word(w int) uint64 {
	var v uint64
	for i := 1; i <= 64; i++ {
		if b[w*64+i] {
			v |= 1 << (64 - i)
		}
	}
	return v
}

func (b *Bitmap) setWord(w int, v uint64) {
	for i := 1; i <= 64; i++ {
		b[w*64+i] = v&(1<<(64-i)) != 0
	}
}

// String renders the bitmap as bit strings grouped per byte,
// e.g. "01100000 | 00000000 | ...".
func (b *Bitmap) String() string {
	raw := b.Bytes()
	parts := make([]string, len(raw))
	for i, v := range raw {
		parts[i] = biu.ToBinaryString(v)
	}
	return strings.Join(parts, " | ")
}

// packBitmap encodes the bitmap through the bitmap field descriptor, one
// 8-byte word at a time.
func packBitmap(d *FieldDescriptor, b *Bitmap) ([]byte, error) {
	raw := b.Bytes()
	out := make([]byte, 0, len(raw)*2)
	for off := 0; off < len(raw); off += BitmapSize {
		enc, err := d.Pack(raw[off : off+BitmapSize])
		if err != nil {
			return nil, fmt.Errorf("bitmap: %w", err)
		}
		out = append(out, enc...)
	}
	return out, nil
}

// unpackBitmap reads the primary word at offset and, when its first bit is
// set, the secondary word right after it. The returned flags are raw: bit 1
// is whatever the wire said.
func unpackBitmap(d *FieldDescriptor, data []byte, offset int) (Bitmap, int, error) {
	var b Bitmap
	consumed := 0
	for w := 0; w < 2; w++ {
		v, n, err := d.Unpack(data, offset+consumed)
		if err != nil {
			return b, 0, fmt.Errorf("bitmap: %w", err)
		}
		raw, ok := v.([]byte)
		if !ok || len(raw) != BitmapSize {
			return b, 0, fmt.Errorf("%w: bitmap word has %d bytes", ErrInvalidContent, len(raw))
		}
		b.setWord(w, binary.BigEndian.Uint64(raw))
		consumed += n
		if !b[1] {
			break
		}
	}
	return b, consumed, nil
}
