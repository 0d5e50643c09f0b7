// Package transport dials the plaintext or TLS byte stream a request is
// written to and a response is read from. Both implementations satisfy
// net.Conn, which already is the uniform write-all/read-until-closed
// interface the engine needs — there's no reason to wrap it further.
package transport

import (
	"crypto/tls"
	"net"
	"strconv"
)

// DefaultReadBufferSize is the chunk size used when buffering reads off a
// connection, whether freshly dialled or taken from the pool.
const DefaultReadBufferSize = 32 * 1024

// DialPlain resolves host and connects a plain TCP socket to it. This is
// the only transport the connection pool ever stores.
func DialPlain(host string, port int) (net.Conn, error) {
	return net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}

// DialTLS connects a TCP socket, then performs the TLS handshake over it.
// TLS connections are never pooled — their lifetime is tied to the request
// that opened them.
func DialTLS(host string, port int) (net.Conn, error) {
	raw, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	conn := tls.Client(raw, &tls.Config{ServerName: host})
	if err := conn.Handshake(); err != nil {
		raw.Close()
		return nil, err
	}
	return conn, nil
}

// Dial selects plaintext or TLS per secure.
func Dial(secure bool, host string, port int) (net.Conn, error) {
	if secure {
		return DialTLS(host, port)
	}
	return DialPlain(host, port)
}
