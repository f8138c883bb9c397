package httpclient

import (
	"bytes"
	"strconv"
)

// crlfcrlf is the literal header/body separator in an HTTP/1.0 response.
var crlfcrlf = []byte("\r\n\r\n")

// Response is a Buffer whose contents are a literal HTTP/1.0 response:
// status line, CRLF-delimited headers, CRLFCRLF, then body. The body is
// addressed by offset into the Buffer, never copied.
type Response struct {
	buf *Buffer
}

// Content returns the body: a slice of the Buffer starting just past the
// first CRLFCRLF. If no CRLFCRLF is
// present, it returns the start of the Buffer (the whole thing is treated
// as body, matching the original http_get_content behavior when handed a
// malformed or headerless response).
func (r *Response) Content() []byte {
	data := r.buf.Bytes()
	if idx := bytes.Index(data, crlfcrlf); idx >= 0 {
		return data[idx+len(crlfcrlf):]
	}
	return data
}

// Len returns the total size of the response, headers included.
func (r *Response) Len() int {
	return r.buf.Len()
}

// headerRegion returns the byte range containing the status line and
// headers, excluding the body. Only this region is ever case-folded, so a
// Buffer's body is never mutated by header inspection.
func (r *Response) headerRegion() []byte {
	data := r.buf.Bytes()
	if idx := bytes.Index(data, crlfcrlf); idx >= 0 {
		return data[:idx]
	}
	return data
}

// AcceptsRanges reports whether the response advertises byte-range support,
// i.e. whether the header region contains "accept-ranges:" (case
// insensitive) followed, after optional spaces, by the literal "bytes".
func (r *Response) AcceptsRanges() bool {
	lowered := bytes.ToLower(r.headerRegion())
	idx := bytes.Index(lowered, []byte("accept-ranges:"))
	if idx < 0 {
		return false
	}
	rest := bytes.TrimLeft(lowered[idx+len("accept-ranges:"):], " \t")
	return bytes.HasPrefix(rest, []byte("bytes"))
}

// ContentLength returns the integer value of the Content-Length header, or
// 0 if the header is absent or unparseable.
func (r *Response) ContentLength() int64 {
	lowered := bytes.ToLower(r.headerRegion())
	idx := bytes.Index(lowered, []byte("content-length:"))
	if idx < 0 {
		return 0
	}
	rest := lowered[idx+len("content-length:"):]
	rest = bytes.TrimLeft(rest, " \t")

	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.ParseInt(string(rest[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
