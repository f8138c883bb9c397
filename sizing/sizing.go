// Package sizing decides how many ranged sub-requests a URL should be split
// into, based on an HTTP HEAD probe of the resource.
package sizing

import (
	"strings"

	"github.com/cognusion/go-rangeget/httpclient"
)

// minRangeableLength is the Content-Length below which ranging is not
// worth the overhead of multiple requests, regardless of server support.
const minRangeableLength = 1024

// Decision is the outcome of sizing a single URL: how many ranged
// sub-requests to issue, and the byte span of each. It is returned by
// value and carried explicitly by the caller; no process-wide state holds
// it between calls.
type Decision struct {
	ChunkSize int64
	NumTasks  int
}

// Policy probes URLs via an httpclient.Client to produce Decisions.
type Policy struct {
	Client *httpclient.Client
}

// NewPolicy returns a Policy that probes with the given client. A nil
// client is replaced with a default &httpclient.Client{}.
func NewPolicy(client *httpclient.Client) *Policy {
	if client == nil {
		client = &httpclient.Client{}
	}
	return &Policy{Client: client}
}

// GetNumTasks splits url into host/page, issues a HEAD, and decides how to
// partition the resource across workers worker goroutines.
//
// If url contains no '/', or the HEAD fails, it returns a zero Decision and
// an error; the caller treats this as "no tasks for this URL".
//
// If the server does not advertise Accept-Ranges: bytes, or the resource is
// smaller than 1024 bytes, the Decision is a single task spanning the whole
// resource. Otherwise chunkSize is ceil(contentLength/workers) and NumTasks
// is workers.
func (p *Policy) GetNumTasks(url string, workers int) (Decision, error) {
	host, page, ok := splitHostPage(url)
	if !ok {
		return Decision{}, errMalformedURL(url)
	}

	res, err := p.Client.Head(host, page, 80)
	if err != nil {
		return Decision{}, err
	}

	contentLength := res.ContentLength()

	if !res.AcceptsRanges() || contentLength < minRangeableLength {
		return Decision{ChunkSize: contentLength, NumTasks: 1}, nil
	}

	return Decision{
		ChunkSize: ceilDiv(contentLength, int64(workers)),
		NumTasks:  workers,
	}, nil
}

// ceilDiv computes ceil(n/d) using integer arithmetic: q = n/d, then
// bumped by one if the division was not exact.
func ceilDiv(n, d int64) int64 {
	q := n / d
	if q*d < n {
		q++
	}
	return q
}

func splitHostPage(url string) (host, page string, ok bool) {
	idx := strings.IndexByte(url, '/')
	if idx < 0 {
		return "", "", false
	}
	return url[:idx], url[idx+1:], true
}

// errMalformedURL is a static error type: a typed string constant rather
// than a value built with errors.New, so the zero value is never mistaken
// for "no error".
type errMalformedURL string

func (e errMalformedURL) Error() string {
	return "sizing: could not split url into host/page: " + string(e)
}
