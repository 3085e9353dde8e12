package iso8583

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// MessageOption configures a Message at construction.
type MessageOption func(*Message) error

// WithLogger attaches a diagnostic sink. Without it diagnostics are dropped.
func WithLogger(l zerolog.Logger) MessageOption {
	return func(m *Message) error {
		m.log = l
		return nil
	}
}

func WithMTI(mti string) MessageOption {
	return func(m *Message) error {
		return m.SetMTI(mti)
	}
}

func WithField(i int, value any) MessageOption {
	return func(m *Message) error {
		return m.SetField(i, value)
	}
}

// WithFields sets several fields, in ascending index order.
func WithFields(fields map[int]any) MessageOption {
	return func(m *Message) error {
		keys := make([]int, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			if err := m.SetField(k, fields[k]); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithStrictContent makes Build run Validate first.
func WithStrictContent() MessageOption {
	return func(m *Message) error {
		m.strict = true
		return nil
	}
}

// WithValidator adds message-level rules to Validate.
func WithValidator(v *Validator) MessageOption {
	return func(m *Message) error {
		m.validator = v
		return nil
	}
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor) error

// WithConcurrency bounds the number of messages parsed at once.
func WithConcurrency(n int) ProcessorOption {
	return func(p *Processor) error {
		if n < 1 {
			return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrConfiguration, n)
		}
		p.concurrency = n
		return nil
	}
}

// WithErrorHandler is called for every buffer that fails to parse.
func WithErrorHandler(h func(index int, err error)) ProcessorOption {
	return func(p *Processor) error {
		p.errorHandler = h
		return nil
	}
}

func WithProcessorLogger(l zerolog.Logger) ProcessorOption {
	return func(p *Processor) error {
		p.log = l
		return nil
	}
}

// WithMessageOptions forwards options to every message the processor creates.
func WithMessageOptions(opts ...MessageOption) ProcessorOption {
	return func(p *Processor) error {
		p.msgOpts = append(p.msgOpts, opts...)
		return nil
	}
}
