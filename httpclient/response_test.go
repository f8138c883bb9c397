package httpclient

import "testing"

func responseFrom(raw string) *Response {
	b := newBuffer()
	b.append([]byte(raw))
	return &Response{buf: b}
}

func TestContentFindsBodyAfterHeaders(t *testing.T) {
	r := responseFrom("HDR: v\r\n\r\nBODY")
	got := string(r.Content())
	if got != "BODY" {
		t.Fatalf("Content() = %q, want %q", got, "BODY")
	}
}

func TestContentWithoutCRLFCRLFReturnsWholeBuffer(t *testing.T) {
	r := responseFrom("no header terminator here")
	got := string(r.Content())
	want := "no header terminator here"
	if got != want {
		t.Fatalf("Content() = %q, want %q", got, want)
	}
}

func TestAcceptsRangesCaseInsensitive(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   bool
	}{
		{"lower", "accept-ranges: bytes\r\n\r\n", true},
		{"mixed case", "Accept-Ranges: Bytes\r\n\r\n", true},
		{"absent", "Content-Type: text/plain\r\n\r\n", false},
		{"not bytes", "Accept-Ranges: none\r\n\r\n", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := responseFrom("HTTP/1.0 200 OK\r\n" + c.header)
			if got := r.AcceptsRanges(); got != c.want {
				t.Fatalf("AcceptsRanges() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestContentLengthParsing(t *testing.T) {
	r := responseFrom("HTTP/1.0 200 OK\r\nContent-Length: 12345\r\n\r\nbody")
	if got := r.ContentLength(); got != 12345 {
		t.Fatalf("ContentLength() = %d, want 12345", got)
	}
}

func TestContentLengthAbsentIsZero(t *testing.T) {
	r := responseFrom("HTTP/1.0 200 OK\r\n\r\nbody")
	if got := r.ContentLength(); got != 0 {
		t.Fatalf("ContentLength() = %d, want 0", got)
	}
}

func TestHeaderFoldingDoesNotTouchBody(t *testing.T) {
	// The body contains text that would match header substrings if the
	// whole buffer were lower-cased and re-scanned; make sure Content()
	// returns it untouched (case preserved).
	r := responseFrom("HTTP/1.0 200 OK\r\nContent-Length: 4\r\n\r\nCoNt")
	r.ContentLength() // runs header inspection, with its case folding, first
	if got := string(r.Content()); got != "CoNt" {
		t.Fatalf("Content() = %q, want %q (body must not be case-folded)", got, "CoNt")
	}
}
