// Package httpclient is a minimal HTTP/1.0 client built directly over raw
// TCP sockets rather than net/http. It speaks exactly the subset of the
// protocol this downloader needs: a GET (optionally range-restricted) and a
// HEAD, both terminated by a single CRLFCRLF request, with the response
// framed by the server closing the connection (HTTP/1.0 has no
// Content-Length-driven keep-alive to rely on, and this client doesn't
// implement chunked transfer-encoding or persistent connections).
package httpclient

import (
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/cognusion/go-timings"
)

// userAgent is sent on every request this client makes.
const userAgent = "getter"

// readBlock is the size of each individual socket read; the Buffer grows in
// fixed growthIncrement steps around reads of this size until the server
// closes the connection.
const readBlock = 1024

// Client performs raw-socket HTTP/1.0 HEAD and ranged-GET requests.
// The zero value is ready to use.
type Client struct {
	// DialTimeout bounds the TCP connect; zero means no timeout.
	DialTimeout time.Duration

	// TimingsOut receives Track() instrumentation for each request.
	// A nil value discards timing output.
	TimingsOut *log.Logger
}

// timingsOut returns TimingsOut, or a logger that discards when it is nil, so callers
// that don't care about timing output don't have to supply a logger.
func (c *Client) timingsOut() *log.Logger {
	if c.TimingsOut != nil {
		return c.TimingsOut
	}
	return log.New(io.Discard, "", 0)
}

// Query opens a TCP connection to host:port, issues an HTTP/1.0 GET for
// page with an optional byte Range header, reads the response until the
// server closes the connection, and returns it as a Response. A zero-length
// rng means no Range header is sent (used for HEAD-equivalent framing by
// callers that want a body). Returns an error on DNS, socket, connect, or
// write failure. If host already carries an explicit ":port" suffix, that
// port is dialed instead of the port argument, so a bare "host/page" URL
// falls back to port while "host:port/page" is honored.
func (c *Client) Query(host, page, rng string, port int) (*Response, error) {
	defer timings.Track(fmt.Sprintf("httpclient.Query %s/%s", host, page), time.Now(), c.timingsOut())
	return c.do("GET", host, page, rng, port)
}

// Head is like Query but sends a HEAD request with no Range header. The response is
// still read in full and returned uniformly as a Response, even though a
// well-behaved HEAD response has no body.
func (c *Client) Head(host, page string, port int) (*Response, error) {
	defer timings.Track(fmt.Sprintf("httpclient.Head %s/%s", host, page), time.Now(), c.timingsOut())
	return c.do("HEAD", host, page, "", port)
}

// HTTPURL splits url at its first '/' into host and page and calls Query
// against port 80 with the given range. It returns an error if url
// contains no '/', matching http_url's "malformed URL" failure mode.
func (c *Client) HTTPURL(url, rng string) (*Response, error) {
	host, page, ok := splitHostPage(url)
	if !ok {
		return nil, fmt.Errorf("httpclient: could not split url into host/page: %q", url)
	}
	return c.Query(host, page, rng, 80)
}

// splitHostPage splits url at its first '/' into host and page. ok is false
// if no '/' is present.
func splitHostPage(url string) (host, page string, ok bool) {
	idx := strings.IndexByte(url, '/')
	if idx < 0 {
		return "", "", false
	}
	return url[:idx], url[idx+1:], true
}

// do performs the actual socket round trip for method GET or HEAD.
func (c *Client) do(method, host, page, rng string, port int) (*Response, error) {
	addr := dialAddr(host, port)

	dialer := net.Dialer{Timeout: c.DialTimeout}
	conn, err := dialer.Dial("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("httpclient: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(buildRequest(method, host, page, rng)); err != nil {
		return nil, fmt.Errorf("httpclient: write request to %s: %w", addr, err)
	}

	buf := newBuffer()
	chunk := make([]byte, readBlock)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.append(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("httpclient: read from %s: %w", addr, err)
		}
		if n == 0 {
			break
		}
	}

	return &Response{buf: buf}, nil
}

// dialAddr formats the address to dial. host is split with
// net.SplitHostPort first; if it already carries its own port, that port
// wins over the port argument. This is what lets a "host:port/page" URL
// (as opposed to the bare "host/page" form that always means port 80)
// reach anything other than port 80.
func dialAddr(host string, port int) string {
	if h, p, err := net.SplitHostPort(host); err == nil {
		if n, perr := strconv.Atoi(p); perr == nil {
			return net.JoinHostPort(h, strconv.Itoa(n))
		}
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// buildRequest formats the literal HTTP/1.0 request header bytes for
// method against host/page, with an optional Range header.
func buildRequest(method, host, page, rng string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s /%s HTTP/1.0\r\n", method, page)
	fmt.Fprintf(&b, "Host: %s\r\n", host)
	if rng != "" {
		fmt.Fprintf(&b, "Range: bytes=%s\r\n", rng)
	}
	fmt.Fprintf(&b, "User-Agent: %s\r\n", userAgent)
	b.WriteString("\r\n")
	return []byte(b.String())
}
