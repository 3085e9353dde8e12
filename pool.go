package iso8583

import (
	"bytes"
	"sync"
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= 8192 { // don't pool huge buffers
		bufferPool.Put(buf)
	}
}

var messagePool = sync.Pool{
	New: func() any {
		return &Message{}
	},
}

// AcquireMessage takes a message from the pool and binds it to spec.
// Return it with Release once it is no longer referenced.
func AcquireMessage(spec *Spec, opts ...MessageOption) (*Message, error) {
	m := messagePool.Get().(*Message)
	m.Reset()
	m.strict = false
	m.validator = nil
	if err := m.init(spec, opts); err != nil {
		messagePool.Put(m)
		return nil, err
	}
	return m, nil
}

// Release clears the message and hands it back to the pool. The message
// must not be used afterwards.
func (m *Message) Release() {
	m.Reset()
	m.spec = nil
	m.validator = nil
	messagePool.Put(m)
}
