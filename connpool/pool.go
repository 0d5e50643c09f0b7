// Package connpool is the origin-keyed idle-socket cache: at most one idle
// plaintext connection per (host, port), reused opportunistically across
// requests. TLS connections never enter the pool — their lifetime is tied
// to whichever request opened them.
package connpool

import (
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/jberryman/http-client/internal/xlog"
)

type key struct {
	host string
	port int
}

type entry struct {
	conn net.Conn
	id   uuid.UUID
}

// Pool is a process-scoped, shared cache of idle sockets. Every mutation
// takes the single mutex for the whole map; the at-most-one-idle-per-key
// policy doesn't need finer-grained locking, and a single lock makes the
// linearisability of Acquire/Release trivial to reason about.
type Pool struct {
	mu     sync.Mutex
	idle   map[key]entry
	logger xlog.Logger
}

// New creates an empty pool. Pass a nil Logger to use xlog.Nop.
func New(logger xlog.Logger) *Pool {
	if logger == nil {
		logger = xlog.Nop
	}
	return &Pool{idle: make(map[key]entry), logger: logger}
}

// Acquire removes and returns the idle socket for (host, port), if any.
func (p *Pool) Acquire(host string, port int) (net.Conn, bool) {
	k := key{host, port}
	p.mu.Lock()
	e, ok := p.idle[k]
	if ok {
		delete(p.idle, k)
	}
	p.mu.Unlock()
	if ok {
		p.logger.Event("pool acquire hit", xlog.F("host", host), xlog.F("port", port), xlog.F("conn", e.id))
	}
	return e.conn, ok
}

// Release inserts conn as the idle socket for (host, port). If an entry
// already existed under that key (a racing release lost the swap), the
// older socket is closed rather than leaked.
func (p *Pool) Release(host string, port int, conn net.Conn) {
	k := key{host, port}
	id := uuid.New()
	p.mu.Lock()
	prev, hadPrev := p.idle[k]
	p.idle[k] = entry{conn: conn, id: id}
	p.mu.Unlock()

	if hadPrev {
		prev.conn.Close()
		p.logger.Event("pool release replaced stale idle conn", xlog.F("host", host), xlog.F("port", port), xlog.F("replaced", prev.id))
	}
	p.logger.Event("pool release", xlog.F("host", host), xlog.F("port", port), xlog.F("conn", id))
}

// CloseAll drains the pool and closes every socket it held.
func (p *Pool) CloseAll() error {
	p.mu.Lock()
	idle := p.idle
	p.idle = make(map[key]entry)
	p.mu.Unlock()

	var firstErr error
	for k, e := range idle {
		if err := e.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.logger.Event("pool close", xlog.F("host", k.host), xlog.F("port", k.port), xlog.F("conn", e.id))
	}
	return firstErr
}

// Len reports the number of idle sockets currently held (test/diagnostic use).
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
