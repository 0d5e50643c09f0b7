// Package client composes the URL parser, serialiser, header/status
// parser, body framing, transport, and connection pool into one round
// trip, then layers the redirect driver and convenience surface on top.
package client

import (
	"bufio"
	"io"
	"net"
	"strings"

	"github.com/jberryman/http-client/body"
	"github.com/jberryman/http-client/connpool"
	"github.com/jberryman/http-client/header"
	"github.com/jberryman/http-client/reqmsg"
	"github.com/jberryman/http-client/respmsg"
	"github.com/jberryman/http-client/transport"
)

// Consumer is the caller-supplied sink invoked with the parsed status and
// headers; it then reads the body as a lazy stream and returns a result.
// Returning early (or erroring) is the caller's signal that the body need
// not be drained further — the engine closes rather than pools the socket
// in that case.
type Consumer[T any] func(status respmsg.Status, h header.List, body io.Reader) (T, error)

// Buffered accumulates the body into memory and returns a BufferedResponse.
// This is the buffered consumer from the convenience surface, but it's
// also just an ordinary Consumer[BufferedResponse] and can be passed to Do
// or DoFollow directly.
func Buffered(status respmsg.Status, h header.List, r io.Reader) (BufferedResponse, error) {
	b, err := io.ReadAll(r)
	return BufferedResponse{
		Status: status.Code,
		Header: h,
		Body:   b,
	}, err
}

// BufferedResponse is the buffered (status, headers, body) value.
type BufferedResponse struct {
	Status int
	Header header.List
	Body   []byte
}

// Do performs one HTTP round trip for req: dial or acquire a transport,
// serialise and write the request, parse the response status and headers,
// frame and (if declared) gzip-decode the body, then hand everything to
// consume. The socket is released to the pool on a clean, fully-drained,
// plaintext completion and closed on every other path — including when
// consume itself returns an error.
func Do[T any](req *reqmsg.Request, pool *connpool.Pool, consume Consumer[T]) (T, error) {
	var zero T

	conn, err := acquireConn(req, pool)
	if err != nil {
		return zero, err
	}

	if _, err := reqmsg.WriteTo(conn, req); err != nil {
		conn.Close()
		return zero, err
	}

	br := bufio.NewReaderSize(conn, transport.DefaultReadBufferSize)
	status, headers, err := respmsg.Parse(br)
	if err != nil {
		conn.Close()
		return zero, err
	}

	framed := body.Frame(req.Method, headers, br)
	decoded := body.MaybeDecompress(framed, headers)

	result, consumeErr := consume(status, headers, decoded)

	canPool := !req.Secure && consumeErr == nil && framed.Consumed() && !connectionCloseRequested(headers)
	if canPool {
		pool.Release(req.Host, req.Port, conn)
	} else {
		conn.Close()
	}

	return result, consumeErr
}

// acquireConn selects a transport for req: plaintext requests first try
// the pool, falling back to a fresh dial; TLS requests always dial fresh
// and never touch the pool.
func acquireConn(req *reqmsg.Request, pool *connpool.Pool) (net.Conn, error) {
	if req.Secure {
		return transport.DialTLS(req.Host, req.Port)
	}
	if conn, ok := pool.Acquire(req.Host, req.Port); ok {
		return conn, nil
	}
	return transport.DialPlain(req.Host, req.Port)
}

// connectionCloseRequested reports whether the response told us to close
// the connection rather than keep it alive — an extension to the pool
// eligibility rule beyond "body fully consumed" that every real HTTP/1.1
// client applies (see SPEC_FULL.md §4.14).
func connectionCloseRequested(h header.List) bool {
	v, ok := h.Get("Connection")
	return ok && strings.EqualFold(strings.TrimSpace(v), "close")
}
