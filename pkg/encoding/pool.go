package encoding

import (
	"bytes"
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// JSON is the codec used for every upstream body and API response
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// BufferPool pools bytes.Buffer for JSON encoding
	BufferPool = sync.Pool{
		New: func() interface{} {
			return new(bytes.Buffer)
		},
	}
)

// GetBuffer retrieves a bytes.Buffer from the pool
func GetBuffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset() // Ensure buffer is empty
	return buf
}

// PutBuffer returns a bytes.Buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	// Don't pool buffers that grew too large (>64KB)
	if buf.Cap() > 64*1024 {
		return
	}
	buf.Reset()
	BufferPool.Put(buf)
}

// EncodeJSON encodes v to JSON using a pooled buffer
// Returns the JSON bytes and any encoding error
func EncodeJSON(v interface{}) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := JSON.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}

	// Copy the buffer contents since we're returning the buffer to the pool
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// WriteJSON encodes v straight into w
func WriteJSON(w io.Writer, v interface{}) error {
	return JSON.NewEncoder(w).Encode(v)
}

// DecodeJSON unmarshals data into v
func DecodeJSON(data []byte, v interface{}) error {
	return JSON.Unmarshal(data, v)
}
