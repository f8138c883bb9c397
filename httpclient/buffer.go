package httpclient

// growthIncrement is the size, in bytes, by which a Buffer's backing array
// grows whenever fewer than growthIncrement bytes of spare capacity remain.
// Framing for HTTP/1.0 is read-until-EOF, so the buffer has to grow to an
// unknown final size rather than being preallocated to Content-Length.
const growthIncrement = 1024

// Buffer is a contiguous, growable byte sequence. It is the unit in which
// socket reads and assembled HTTP responses are held: one Buffer per
// response, owned by whichever goroutine currently holds the Task it is
// attached to.
type Buffer struct {
	data []byte
}

// newBuffer allocates a Buffer with growthIncrement bytes of initial
// capacity and zero length.
func newBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, growthIncrement)}
}

// growIfNeeded ensures at least growthIncrement bytes of spare capacity,
// growing the backing array by growthIncrement bytes at a time.
func (b *Buffer) growIfNeeded() {
	if cap(b.data)-len(b.data) >= growthIncrement {
		return
	}
	grown := make([]byte, len(b.data), cap(b.data)+growthIncrement)
	copy(grown, b.data)
	b.data = grown
}

// append adds chunk, read from the socket, to the Buffer, growing first if
// fewer than growthIncrement bytes of spare capacity remain.
func (b *Buffer) append(chunk []byte) {
	b.growIfNeeded()
	b.data = append(b.data, chunk...)
}

// Bytes returns the Buffer's contents. The caller must not retain it past
// the Buffer's lifetime if the Buffer is reused, though in this package a
// Buffer is always single-use.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int {
	return len(b.data)
}
