package iso8583

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Processor parses independent raw messages concurrently. Each buffer gets
// its own pooled Message; the Spec is the only shared state.
type Processor struct {
	spec         *Spec
	concurrency  int
	errorHandler func(index int, err error)
	log          zerolog.Logger
	msgOpts      []MessageOption
}

func NewProcessor(spec *Spec, opts ...ProcessorOption) (*Processor, error) {
	if spec == nil {
		spec = DefaultSpec()
	}
	p := &Processor{
		spec:        spec,
		concurrency: 4,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.errorHandler == nil {
		p.errorHandler = func(index int, err error) {
			p.log.Warn().Err(err).Int("index", index).Msg("message parse failed")
		}
	}
	return p, nil
}

// Parse decodes one buffer. The caller owns the result and should Release it.
func (p *Processor) Parse(data []byte) (*Message, error) {
	msg, err := AcquireMessage(p.spec, p.msgOpts...)
	if err != nil {
		return nil, err
	}
	if err := msg.Parse(data); err != nil {
		msg.Release()
		return nil, err
	}
	return msg, nil
}

// ParseBatch decodes every buffer, at most p.concurrency at a time. Results
// keep the input order; failed entries are nil and the first failure is
// returned alongside the partial results.
func (p *Processor) ParseBatch(ctx context.Context, batch [][]byte) ([]*Message, error) {
	results := make([]*Message, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

	for i, data := range batch {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return results, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return results, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, raw []byte) {
			defer wg.Done()
			defer func() { <-sem }()

			msg, err := p.Parse(raw)
			if err != nil {
				errs[idx] = fmt.Errorf("message %d: %w", idx, err)
				p.errorHandler(idx, err)
				return
			}
			results[idx] = msg
		}(i, data)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	p.log.Debug().Int("messages", len(batch)).Msg("batch parsed")
	return results, nil
}

// ParseStream reads raw buffers from input until it is closed or ctx is
// done and sends each parsed message to output. Output order is not
// guaranteed. Failures go to the error handler.
func (p *Processor) ParseStream(ctx context.Context, input <-chan []byte, output chan<- *Message) error {
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)
	seq := 0

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()

		case data, ok := <-input:
			if !ok {
				wg.Wait()
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				wg.Wait()
				return ctx.Err()
			}

			wg.Add(1)
			go func(idx int, raw []byte) {
				defer wg.Done()
				defer func() { <-sem }()

				msg, err := p.Parse(raw)
				if err != nil {
					p.errorHandler(idx, err)
					return
				}
				select {
				case output <- msg:
				case <-ctx.Done():
					msg.Release()
				}
			}(seq, data)
			seq++
		}
	}
}
