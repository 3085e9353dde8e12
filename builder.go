package iso8583

import "sync"

var builderPool = sync.Pool{
	New: func() any {
		return &Builder{errors: make([]error, 0, 4)}
	},
}

// Builder assembles a Message fluently and reports the first error at Build.
type Builder struct {
	msg    *Message
	errors []error
}

func NewBuilder(spec *Spec, opts ...MessageOption) *Builder {
	b := builderPool.Get().(*Builder)
	b.errors = b.errors[:0]
	msg, err := NewMessage(spec, opts...)
	if err != nil {
		b.errors = append(b.errors, err)
		msg, _ = NewMessage(spec)
	}
	b.msg = msg
	return b
}

// Release returns the builder to the pool. A built message is unaffected.
func (b *Builder) Release() {
	b.msg = nil
	b.errors = b.errors[:0]
	builderPool.Put(b)
}

func (b *Builder) MTI(mti string) *Builder {
	if err := b.msg.SetMTI(mti); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

func (b *Builder) Field(i int, value any) *Builder {
	if err := b.msg.SetField(i, value); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

func (b *Builder) TLV(i int, t *TLVMap) *Builder {
	if err := b.msg.SetTLV(i, t); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

func (b *Builder) PAN(pan string) *Builder {
	return b.Field(2, pan)
}

func (b *Builder) ProcessingCode(code string) *Builder {
	return b.Field(3, code)
}

// Amount sets field 4 in minor units.
func (b *Builder) Amount(minor int64) *Builder {
	return b.Field(4, minor)
}

func (b *Builder) STAN(stan string) *Builder {
	return b.Field(11, stan)
}

// Build hands over the message. The builder must not be reused afterwards
// except through Release.
func (b *Builder) Build() (*Message, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	msg := b.msg
	b.msg = nil
	return msg, nil
}

func (b *Builder) MustBuild() *Message {
	msg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return msg
}
