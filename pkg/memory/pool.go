// Package memory provides pooled buffers for hot-path encoding and string
// assembly.
package memory

import (
	"bytes"
	"strings"
	"sync"
)

// BufferPool manages a pool of reusable bytes.Buffer instances
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a new buffer pool
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &bytes.Buffer{}
			},
		},
	}
}

// Get retrieves a buffer from the pool
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset() // Clear any existing content
	return buf
}

// Put returns a buffer to the pool for reuse
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	// Only pool buffers under a reasonable size to prevent memory bloat
	if buf.Cap() <= 64*1024 { // 64KB limit
		bp.pool.Put(buf)
	}
}

// StringBuilderPool manages a pool of reusable strings.Builder instances
type StringBuilderPool struct {
	pool sync.Pool
}

// NewStringBuilderPool creates a new string builder pool
func NewStringBuilderPool() *StringBuilderPool {
	return &StringBuilderPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &strings.Builder{}
			},
		},
	}
}

// Get retrieves a builder from the pool
func (sp *StringBuilderPool) Get() *strings.Builder {
	sb := sp.pool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

// Put returns a builder to the pool for reuse
func (sp *StringBuilderPool) Put(sb *strings.Builder) {
	if sb.Cap() <= 64*1024 { // 64KB limit
		sp.pool.Put(sb)
	}
}

// Shared pools for encoding and text assembly. Callers that churn through
// many small buffers should prefer these over per-call allocation.
var (
	defaultBuffers  = NewBufferPool()
	defaultBuilders = NewStringBuilderPool()
)

// GetBuffer retrieves a buffer from the shared pool
func GetBuffer() *bytes.Buffer {
	return defaultBuffers.Get()
}

// PutBuffer returns a buffer to the shared pool
func PutBuffer(buf *bytes.Buffer) {
	defaultBuffers.Put(buf)
}

// GetBuilder retrieves a string builder from the shared pool
func GetBuilder() *strings.Builder {
	return defaultBuilders.Get()
}

// PutBuilder returns a string builder to the shared pool
func PutBuilder(sb *strings.Builder) {
	defaultBuilders.Put(sb)
}
