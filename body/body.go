// Package body implements response-body framing: Content-Length, chunked
// transfer encoding, the HEAD special case, and end-of-connection framing
// when no length is declared — plus the optional gzip decompression stage
// spliced on top.
package body

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jberryman/http-client/header"
)

// Reader is the framed response body handed to the caller's consumer. It
// tracks whether the natural end of the body was reached (as opposed to
// the consumer stopping early or a read erroring out), which is what the
// engine uses to decide whether the socket is eligible to return to the
// pool.
type Reader struct {
	r    io.Reader
	done bool
}

func (b *Reader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF {
		b.done = true
	}
	return n, err
}

// Consumed reports whether the body was read to its natural end.
func (b *Reader) Consumed() bool { return b.done }

func newReader(r io.Reader) *Reader { return &Reader{r: r} }

// Frame selects the body framing per the response headers and request
// method: HEAD responses carry no body, a chunked Transfer-Encoding is
// decoded chunk by chunk, a Content-Length streams exactly N bytes, and
// anything else streams to end of connection.
func Frame(method string, h header.List, conn *bufio.Reader) *Reader {
	if strings.EqualFold(method, "HEAD") {
		r := newReader(io.LimitReader(conn, 0))
		r.done = true
		return r
	}
	if h.HasValue("Transfer-Encoding", "chunked") {
		return newReader(newChunkedReader(conn))
	}
	if v, ok := h.Get("Content-Length"); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
			return newReader(io.LimitReader(conn, n))
		}
	}
	return newReader(conn)
}
