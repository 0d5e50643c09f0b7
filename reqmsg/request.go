// Package reqmsg holds the request descriptor and the byte-stream
// serialiser that turns it into an HTTP/1.1 request on the wire.
package reqmsg

import (
	"bytes"
	"io"
	"strings"

	"github.com/jberryman/http-client/header"
	"github.com/jberryman/http-client/urlpkg"
)

// Body is the tagged variant carried by a Request: either a fixed byte
// sequence or a declared-length stream whose producer may be invoked more
// than once (the redirect driver replays the original request body).
type Body interface {
	// Len is the declared length in bytes, used for Content-Length.
	Len() int64
	// Open returns a fresh reader over the body content. Called once per
	// attempt (initial send, then again on every redirect reissue that is
	// not a response to a 303).
	Open() (io.Reader, error)
}

// EmptyBody is a zero-length body, the default for GET-like requests.
var EmptyBody Body = BytesBody(nil)

// BytesBody is an in-memory body.
type BytesBody []byte

func (b BytesBody) Len() int64 { return int64(len(b)) }

func (b BytesBody) Open() (io.Reader, error) {
	return bytes.NewReader(b), nil
}

// Producer yields a fresh reader over a body's bytes; it must be safe to
// call more than once and must produce identical bytes each time.
type Producer func() (io.Reader, error)

// StreamBody is a declared-length body backed by a replayable producer.
type StreamBody struct {
	Length   int64
	Producer Producer
}

func (b StreamBody) Len() int64 { return b.Length }

func (b StreamBody) Open() (io.Reader, error) { return b.Producer() }

// Request is the immutable-by-convention descriptor carried through one
// round trip (and rewritten, not mutated, by the redirect driver).
type Request struct {
	Method string
	Secure bool
	Host   string
	Port   int
	Path   string
	Query  []urlpkg.Pair
	Header header.List
	Body   Body
}

// FromURL builds a Request from a parsed URL, with the default method GET,
// no headers, and an empty body.
func FromURL(u *urlpkg.URL) *Request {
	return &Request{
		Method: u.Method,
		Secure: u.Secure,
		Host:   u.Host,
		Port:   u.Port,
		Path:   u.Path,
		Query:  u.Query,
		Header: nil,
		Body:   EmptyBody,
	}
}

// Clone returns a shallow copy of r with its own header list, suitable for
// the redirect driver to rewrite without mutating the original request the
// caller still holds.
func (r *Request) Clone() *Request {
	out := *r
	out.Header = r.Header.Clone()
	if len(r.Query) > 0 {
		out.Query = append([]urlpkg.Pair(nil), r.Query...)
	}
	return &out
}

// reservedHeaders are injected by the serialiser; any caller-supplied
// value under these names is dropped so the engine's own value wins.
var reservedHeaders = [...]string{"Host", "Content-Length", "Accept-Encoding"}

func isReserved(name string) bool {
	for _, r := range reservedHeaders {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}
