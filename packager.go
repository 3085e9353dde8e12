package iso8583

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Spec is the validated field table a Message is built and parsed against.
// It is immutable once constructed and safe for concurrent use.
type Spec struct {
	mti    FieldDescriptor
	fields [MaxFieldNumber + 1]*FieldDescriptor
}

// NewSpec validates every descriptor and indexes them by field number.
// When fields has no entry for index 1 the hex-ASCII bitmap is used.
func NewSpec(mti FieldDescriptor, fields []FieldDescriptor) (*Spec, error) {
	if err := validateMTIDescriptor(&mti); err != nil {
		return nil, err
	}
	s := &Spec{mti: mti}

	for i := range fields {
		d := fields[i]
		if d.Index < 1 || d.Index > MaxFieldNumber {
			return nil, fmt.Errorf("%w: field index %d outside 1..%d", ErrConfiguration, d.Index, MaxFieldNumber)
		}
		if s.fields[d.Index] != nil {
			return nil, fmt.Errorf("%w: field %d defined twice", ErrConfiguration, d.Index)
		}
		if err := d.validate(); err != nil {
			return nil, &FieldError{Field: d.Index, Err: err}
		}
		s.fields[d.Index] = &d
	}

	if s.fields[1] == nil {
		bm := bitmapDescriptor
		s.fields[1] = &bm
	}
	if err := validateBitmapDescriptor(s.fields[1]); err != nil {
		return nil, &FieldError{Field: 1, Err: err}
	}
	return s, nil
}

var (
	defaultSpecOnce sync.Once
	defaultSpecInst *Spec
)

// DefaultSpec returns the ISO 8583:1987 table with a hex-ASCII bitmap.
// The returned Spec is shared; use Override to derive variants.
func DefaultSpec() *Spec {
	defaultSpecOnce.Do(func() {
		fields := make([]FieldDescriptor, 0, len(defaultFields)+1)
		fields = append(fields, bitmapDescriptor)
		fields = append(fields, defaultFields...)
		s, err := NewSpec(mtiDescriptor, fields)
		if err != nil {
			panic(fmt.Sprintf("iso8583: default table is invalid: %v", err))
		}
		defaultSpecInst = s
	})
	return defaultSpecInst
}

// Override returns a copy of s with the given descriptors replacing or
// adding to the existing ones.
func (s *Spec) Override(fields ...FieldDescriptor) (*Spec, error) {
	merged := make(map[int]FieldDescriptor, MaxFieldNumber)
	for _, d := range s.fields {
		if d != nil {
			merged[d.Index] = *d
		}
	}
	for _, d := range fields {
		merged[d.Index] = d
	}
	list := make([]FieldDescriptor, 0, len(merged))
	for _, d := range merged {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Index < list[j].Index })
	return NewSpec(s.mti, list)
}

// MTI returns the message type indicator descriptor.
func (s *Spec) MTI() FieldDescriptor {
	return s.mti
}

// Field returns a copy of the descriptor for index.
func (s *Spec) Field(index int) (FieldDescriptor, error) {
	d, err := s.field(index)
	if err != nil {
		return FieldDescriptor{}, err
	}
	return *d, nil
}

// Fields lists every defined descriptor in index order.
func (s *Spec) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, 0, MaxFieldNumber)
	for _, d := range s.fields {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func (s *Spec) field(index int) (*FieldDescriptor, error) {
	if index < 1 || index > MaxFieldNumber {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRange, index)
	}
	d := s.fields[index]
	if d == nil {
		return nil, fmt.Errorf("%w: no descriptor for field %d", ErrConfiguration, index)
	}
	return d, nil
}

// validate checks a descriptor for internal consistency.
func (d *FieldDescriptor) validate() error {
	if _, ok := classPadding[d.Class]; !ok {
		return fmt.Errorf("%w: unknown content class %s", ErrConfiguration, d.Class)
	}
	if _, ok := lengthTypeNames[d.LengthType]; !ok {
		return fmt.Errorf("%w: unknown length type %s", ErrConfiguration, d.LengthType)
	}
	if _, ok := encodingNames[d.Encoding]; !ok {
		return fmt.Errorf("%w: unknown data encoding %s", ErrConfiguration, d.Encoding)
	}
	if _, ok := encodingNames[d.LengthEncoding]; !ok {
		return fmt.Errorf("%w: unknown length encoding %s", ErrConfiguration, d.LengthEncoding)
	}
	if !d.Charset.valid() {
		return fmt.Errorf("%w: unknown charset %s", ErrConfiguration, d.Charset)
	}
	if d.MaxLength <= 0 {
		return fmt.Errorf("%w: max length must be positive, got %d", ErrConfiguration, d.MaxLength)
	}

	if digits := d.LengthType.Digits(); digits > 0 {
		if limit := pow10(digits) - 1; d.MaxLength > limit {
			return fmt.Errorf("%w: max length %d does not fit a %s prefix", ErrConfiguration, d.MaxLength, d.LengthType)
		}
		if enc := d.lengthEncoding(); enc != EncodingASCII && enc != EncodingBCD {
			return fmt.Errorf("%w: length prefix cannot be %s", ErrConfiguration, enc)
		}
	}

	switch d.dataEncoding() {
	case EncodingBinary:
		if d.Class != ClassBinary {
			return fmt.Errorf("%w: BIN encoding requires the binary class, got %s", ErrConfiguration, d.Class)
		}
	case EncodingBCD:
		if d.Class != ClassNumeric && d.Class != ClassTrackData {
			return fmt.Errorf("%w: BCD encoding requires a numeric or track class, got %s", ErrConfiguration, d.Class)
		}
	}

	if d.Class == ClassTrackData && d.LengthType == LengthFixed && d.MaxLength%2 == 1 {
		return fmt.Errorf("%w: fixed track data needs an even length", ErrConfiguration)
	}
	if d.TLV && d.Class != ClassBinary {
		return fmt.Errorf("%w: TLV content requires the binary class", ErrConfiguration)
	}
	return nil
}

func validateMTIDescriptor(d *FieldDescriptor) error {
	if err := d.validate(); err != nil {
		return fmt.Errorf("MTI: %w", err)
	}
	if d.Class != ClassNumeric || d.LengthType != LengthFixed {
		return fmt.Errorf("%w: MTI must be fixed numeric", ErrConfiguration)
	}
	return nil
}

func validateBitmapDescriptor(d *FieldDescriptor) error {
	if d.Class != ClassBinary || d.LengthType != LengthFixed || d.MaxLength != BitmapSize {
		return fmt.Errorf("%w: bitmap must be fixed binary of %d bytes", ErrConfiguration, BitmapSize)
	}
	if enc := d.dataEncoding(); enc != EncodingBinary && enc != EncodingASCII {
		return fmt.Errorf("%w: bitmap encoding %s", ErrConfiguration, enc)
	}
	return nil
}

// specFile is the on-disk layout shared by the JSON and TOML loaders.
// With Base set to "default" the listed fields override DefaultSpec.
type specFile struct {
	Base   string            `json:"base,omitempty" toml:"base"`
	MTI    *FieldDescriptor  `json:"mti,omitempty" toml:"mti"`
	Fields []FieldDescriptor `json:"fields" toml:"field"`
}

func (f *specFile) compile() (*Spec, error) {
	switch strings.ToLower(f.Base) {
	case "":
		mti := mtiDescriptor
		if f.MTI != nil {
			mti = *f.MTI
		}
		return NewSpec(mti, f.Fields)
	case "default", "iso8583:1987":
		base := DefaultSpec()
		if f.MTI != nil {
			var err error
			if base, err = NewSpec(*f.MTI, base.Fields()); err != nil {
				return nil, err
			}
		}
		return base.Override(f.Fields...)
	default:
		return nil, fmt.Errorf("%w: unknown base table %q", ErrConfiguration, f.Base)
	}
}

// LoadSpecJSON builds a Spec from a JSON document. Unknown keys are rejected.
func LoadSpecJSON(data []byte) (*Spec, error) {
	var f specFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrInvalidDataType) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: parse JSON spec: %v", ErrConfiguration, err)
	}
	return f.compile()
}

// LoadSpecTOML builds a Spec from a TOML document with [[field]] tables.
func LoadSpecTOML(data []byte) (*Spec, error) {
	var f specFile
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse TOML spec: %v", ErrConfiguration, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys in TOML spec: %v", ErrConfiguration, undecoded)
	}
	return f.compile()
}

// LoadSpecFile picks the loader from the file extension (.toml or .json).
func LoadSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadSpecTOML(data)
	case ".json":
		return LoadSpecJSON(data)
	default:
		return nil, fmt.Errorf("%w: unsupported spec file %s", ErrConfiguration, path)
	}
}
