package iso8583

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// fieldSet keeps presence flags and values together so they can only
// change as a pair.
type fieldSet struct {
	bitmap Bitmap
	values [MaxFieldNumber + 1]any
}

func (fs *fieldSet) put(i int, v any) {
	fs.values[i] = v
	fs.bitmap.set(i)
}

func (fs *fieldSet) remove(i int) {
	fs.values[i] = nil
	fs.bitmap.clear(i)
}

// reset zeroes the arrays in place.
func (fs *fieldSet) reset() {
	fs.bitmap = Bitmap{}
	for i := range fs.values {
		fs.values[i] = nil
	}
}

// Message is one ISO 8583 message being built or parsed. It is not safe for
// concurrent use; distinct messages share nothing but their read-only Spec.
// The zero value is an empty message bound to DefaultSpec with no logging.
type Message struct {
	spec      *Spec
	log       zerolog.Logger
	strict    bool
	validator *Validator
	mti       string
	fields    fieldSet
}

// NewMessage creates an empty message bound to spec. A nil spec selects
// DefaultSpec.
func NewMessage(spec *Spec, opts ...MessageOption) (*Message, error) {
	m := &Message{}
	if err := m.init(spec, opts); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Message) init(spec *Spec, opts []MessageOption) error {
	if spec == nil {
		spec = DefaultSpec()
	}
	m.spec = spec
	m.log = zerolog.Nop()
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

// Spec returns the field table the message is bound to.
func (m *Message) Spec() *Spec {
	if m.spec == nil {
		return DefaultSpec()
	}
	return m.spec
}

// Reset clears MTI, bitmap and values. Options applied at construction stay.
func (m *Message) Reset() {
	m.mti = ""
	m.fields.reset()
}

func (m *Message) MTI() string {
	return m.mti
}

// SetMTI accepts exactly as many digits as the MTI descriptor defines.
func (m *Message) SetMTI(mti string) error {
	if err := checkMTI(mti, m.Spec().mti.MaxLength); err != nil {
		return err
	}
	m.mti = mti
	return nil
}

func checkMTI(mti string, size int) error {
	if len(mti) != size {
		return fmt.Errorf("%w: %q must be %d digits", ErrInvalidMTI, mti, size)
	}
	for i := 0; i < len(mti); i++ {
		if mti[i] < '0' || mti[i] > '9' {
			return fmt.Errorf("%w: %q is not numeric", ErrInvalidMTI, mti)
		}
	}
	return nil
}

// checkIndex validates a data field index. Bit 1 is derived and cannot be
// addressed directly.
func checkIndex(i int) error {
	if i < 2 || i > MaxFieldNumber {
		return fmt.Errorf("%w: field %d (valid 2..%d)", ErrInvalidRange, i, MaxFieldNumber)
	}
	return nil
}

// SetField stores value and flags the field present. Accepted types are
// string, []byte, int, int64 and uint64; binary fields take []byte or hex.
func (m *Message) SetField(i int, value any) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	d, err := m.Spec().field(i)
	if err != nil {
		return &FieldError{Field: i, Err: err}
	}
	v, err := d.normalize(value)
	if err != nil {
		return &FieldError{Field: i, Err: err}
	}
	m.fields.put(i, v)
	return nil
}

func (m *Message) SetString(i int, value string) error {
	return m.SetField(i, value)
}

func (m *Message) SetBytes(i int, value []byte) error {
	return m.SetField(i, value)
}

// ClearField removes the value and its presence flag. Clearing an absent
// field is a no-op.
func (m *Message) ClearField(i int) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	m.fields.remove(i)
	return nil
}

func (m *Message) HasField(i int) bool {
	if checkIndex(i) != nil {
		return false
	}
	return m.fields.bitmap[i]
}

// GetField returns the stored value: string for text classes, []byte for
// binary ones. Byte slices are copies.
func (m *Message) GetField(i int) (any, error) {
	if err := checkIndex(i); err != nil {
		return nil, err
	}
	if !m.fields.bitmap[i] {
		return nil, fmt.Errorf("%w: field %d", ErrBitNotFound, i)
	}
	if b, ok := m.fields.values[i].([]byte); ok {
		return append([]byte(nil), b...), nil
	}
	return m.fields.values[i], nil
}

// GetString returns text fields as-is and binary fields as upper-case hex.
func (m *Message) GetString(i int) (string, error) {
	v, err := m.GetField(i)
	if err != nil {
		return "", err
	}
	return valueString(v), nil
}

func (m *Message) GetBytes(i int) ([]byte, error) {
	v, err := m.GetField(i)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(string); ok {
		return []byte(s), nil
	}
	return v.([]byte), nil
}

// Fields lists the present data fields in ascending order.
func (m *Message) Fields() []int {
	return m.fields.bitmap.Present()
}

// Bitmap returns a copy of the presence flags.
func (m *Message) Bitmap() Bitmap {
	return m.fields.bitmap
}

// SetTLV encodes t into a field whose descriptor is flagged as TLV content.
func (m *Message) SetTLV(i int, t *TLVMap) error {
	d, err := m.tlvDescriptor(i)
	if err != nil {
		return err
	}
	if t == nil {
		return &FieldError{Field: d.Index, Err: fmt.Errorf("%w: nil TLV map", ErrInvalidTLV)}
	}
	raw, err := t.Bytes()
	if err != nil {
		return &FieldError{Field: d.Index, Err: err}
	}
	return m.SetField(i, raw)
}

// GetTLV decodes a TLV-flagged field.
func (m *Message) GetTLV(i int) (*TLVMap, error) {
	if _, err := m.tlvDescriptor(i); err != nil {
		return nil, err
	}
	raw, err := m.GetBytes(i)
	if err != nil {
		return nil, err
	}
	t, err := ParseTLV(raw)
	if err != nil {
		return nil, &FieldError{Field: i, Err: err}
	}
	return t, nil
}

func (m *Message) tlvDescriptor(i int) (*FieldDescriptor, error) {
	if err := checkIndex(i); err != nil {
		return nil, err
	}
	d, err := m.Spec().field(i)
	if err != nil {
		return nil, &FieldError{Field: i, Err: err}
	}
	if !d.TLV {
		return nil, &FieldError{Field: i, Err: fmt.Errorf("%w: field does not carry TLV data", ErrConfiguration)}
	}
	return d, nil
}

// Build encodes MTI, bitmap and every present field in ascending order.
func (m *Message) Build() ([]byte, error) {
	if m.mti == "" {
		return nil, fmt.Errorf("%w: not set", ErrInvalidMTI)
	}
	if m.strict {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}

	buf := getBuffer()
	defer putBuffer(buf)

	mti, err := m.Spec().mti.Pack(m.mti)
	if err != nil {
		return nil, fmt.Errorf("MTI: %w", err)
	}
	buf.Write(mti)

	bm, err := packBitmap(m.Spec().fields[1], &m.fields.bitmap)
	if err != nil {
		return nil, &FieldError{Field: 1, Err: err}
	}
	buf.Write(bm)

	if e := m.log.Debug(); e.Enabled() {
		e.Str("mti", m.mti).Str("bitmap", m.fields.bitmap.String()).Msg("building message")
	}

	for i := 2; i <= MaxFieldNumber; i++ {
		if !m.fields.bitmap[i] {
			continue
		}
		v := m.fields.values[i]
		if v == nil {
			return nil, &FieldError{Field: i, Err: ErrBitNotFound}
		}
		d, err := m.Spec().field(i)
		if err != nil {
			return nil, &FieldError{Field: i, Err: err}
		}
		enc, err := d.Pack(v)
		if err != nil {
			return nil, &FieldError{Field: i, Err: err}
		}
		m.log.Debug().Int("field", i).Str("name", d.Name).Int("bytes", len(enc)).Msg("field packed")
		buf.Write(enc)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Parse decodes data into the message. On error the message keeps its
// previous contents.
func (m *Message) Parse(data []byte) error {
	v, offset, err := m.Spec().mti.Unpack(data, 0)
	if err != nil {
		return fmt.Errorf("MTI: %w", err)
	}
	mti := v.(string)
	if err := checkMTI(mti, m.Spec().mti.MaxLength); err != nil {
		return err
	}

	raw, n, err := unpackBitmap(m.Spec().fields[1], data, offset)
	if err != nil {
		return &FieldError{Field: 1, Err: err}
	}
	offset += n

	if e := m.log.Debug(); e.Enabled() {
		e.Str("mti", mti).Str("bitmap", raw.String()).Msg("parsing message")
	}

	var staged fieldSet
	for i := 2; i <= MaxFieldNumber; i++ {
		if !raw[i] {
			continue
		}
		d, err := m.Spec().field(i)
		if err != nil {
			return &FieldError{Field: i, Err: err}
		}
		v, n, err := d.Unpack(data, offset)
		if err != nil {
			return &FieldError{Field: i, Err: err}
		}
		m.log.Debug().Int("field", i).Str("name", d.Name).Int("offset", offset).Int("bytes", n).Msg("field unpacked")
		staged.put(i, v)
		offset += n
	}

	if offset < len(data) {
		m.log.Debug().Int("trailing", len(data)-offset).Msg("ignoring bytes after last field")
	}

	m.mti = mti
	m.fields = staged
	return nil
}

// Validate runs the length and content class checks on every present
// field, then the validator attached with WithValidator.
func (m *Message) Validate() error {
	for _, i := range m.Fields() {
		d, err := m.Spec().field(i)
		if err != nil {
			return &FieldError{Field: i, Err: err}
		}
		if err := validateField(d, m.fields.values[i]); err != nil {
			return err
		}
	}
	if m.validator != nil {
		return m.validator.ValidateMessage(m)
	}
	return nil
}

// Clone returns a deep copy sharing only the Spec, logger and validator.
func (m *Message) Clone() *Message {
	c := *m
	for i, v := range c.fields.values {
		if b, ok := v.([]byte); ok {
			c.fields.values[i] = append([]byte(nil), b...)
		}
	}
	return &c
}

// CreateResponse clones m, turns the request MTI into its response class
// (0200 -> 0210, 0420 -> 0430) and sets field 39 when code is not empty.
func (m *Message) CreateResponse(code string) (*Message, error) {
	if len(m.mti) < 3 {
		return nil, fmt.Errorf("%w: %q has no message function digit", ErrInvalidMTI, m.mti)
	}
	fn := m.mti[2]
	if (fn-'0')%2 != 0 {
		return nil, fmt.Errorf("%w: %s is already a response", ErrInvalidMTI, m.mti)
	}

	resp := m.Clone()
	resp.mti = m.mti[:2] + string(fn+1) + m.mti[3:]
	if code != "" {
		if err := resp.SetField(39, code); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// IsNetworkManagement reports an 08xx message class.
func (m *Message) IsNetworkManagement() bool {
	return len(m.mti) > 1 && m.mti[1] == '8'
}

// BitmapString renders the bitmap grouped per byte.
func (m *Message) BitmapString() string {
	return m.fields.bitmap.String()
}

// FieldInfo lists every present field with its number, name and value.
func (m *Message) FieldInfo() string {
	var sb strings.Builder
	for _, i := range m.Fields() {
		name := ""
		if d, err := m.Spec().field(i); err == nil {
			name = d.Name
		}
		fmt.Fprintf(&sb, "\t%3d - %-41s : [%s]\n", i, name, valueString(m.fields.values[i]))
	}
	return sb.String()
}

func (m *Message) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MTI:    [%s]\n", m.mti)
	fmt.Fprintf(&sb, "Bitmap: [%s]\n", m.BitmapString())
	sb.WriteString(m.FieldInfo())
	return sb.String()
}

// maskedFields hold cardholder data and are masked in structured logs.
var maskedFields = map[int]bool{2: true, 35: true, 45: true, 52: true}

func maskValue(s string) string {
	if len(s) <= 10 {
		return strings.Repeat("*", len(s))
	}
	return s[:6] + strings.Repeat("*", len(s)-10) + s[len(s)-4:]
}

// LogValue implements slog.LogValuer.
func (m *Message) LogValue() slog.Value {
	fieldArgs := make([]any, 0, 16)
	for _, i := range m.Fields() {
		s := valueString(m.fields.values[i])
		if maskedFields[i] {
			s = maskValue(s)
		}
		fieldArgs = append(fieldArgs, slog.String(strconv.Itoa(i), s))
	}
	return slog.GroupValue(
		slog.String("mti", m.mti),
		slog.String("bitmap", hexUpper(m.fields.bitmap.Bytes())),
		slog.Group("fields", fieldArgs...),
	)
}
