package client

import (
	"io"
	"strconv"
	"strings"

	"github.com/jberryman/http-client/connpool"
	"github.com/jberryman/http-client/header"
	"github.com/jberryman/http-client/httperr"
	"github.com/jberryman/http-client/reqmsg"
	"github.com/jberryman/http-client/respmsg"
	"github.com/jberryman/http-client/urlpkg"
)

// defaultMaxRedirects is the initial remaining-redirect count; the 11th hop
// fails with TooManyRedirects before any further dial is attempted.
const defaultMaxRedirects = 10

// DoFollow performs req through Do, then follows any 3xx response carrying a
// Location header by rewriting the request and re-entering Do, up to
// defaultMaxRedirects hops. A response with no Location, or with a status
// outside [300, 400), is handed to consume unchanged.
//
// Per spec.md §4.10 / §9, the redirected method is whatever parseUrl gives
// the rewritten descriptor — which is always GET, since URL parsing always
// defaults Method to GET. This is the source library's documented, inherited
// behaviour, not a bug to "fix" here: every redirect hop becomes a GET,
// including 301/302/307/308. The original request's headers are sent on
// every hop, and its body on every hop except one that follows a 303.
func DoFollow[T any](req *reqmsg.Request, pool *connpool.Pool, consume Consumer[T]) (T, error) {
	return doFollow(req, pool, consume, defaultMaxRedirects)
}

func doFollow[T any](req *reqmsg.Request, pool *connpool.Pool, consume Consumer[T], remaining int) (T, error) {
	var zero T
	if remaining < 0 {
		return zero, httperr.ErrTooManyRedirects
	}

	redirected := false
	var next *reqmsg.Request
	var nextErr error

	result, err := Do(req, pool, func(status respmsg.Status, h header.List, body io.Reader) (T, error) {
		if status.Code < 300 || status.Code >= 400 {
			return consume(status, h, body)
		}
		loc, ok := h.Get("Location")
		if !ok {
			return consume(status, h, body)
		}
		if remaining == 0 {
			return zero, httperr.ErrTooManyRedirects
		}
		n, nerr := rewriteForRedirect(req, status.Code, loc)
		if nerr != nil {
			nextErr = nerr
			return zero, nerr
		}
		redirected = true
		next = n
		return zero, nil
	})
	if err != nil {
		return zero, err
	}
	if nextErr != nil {
		return zero, nextErr
	}
	if !redirected {
		return result, nil
	}
	return doFollow(next, pool, consume, remaining-1)
}

// rewriteForRedirect builds the request for the next hop: an absolute
// Location is parsed as its own URL; a Location starting with '/' resolves
// against orig's scheme/host/port. The 303-vs-other-status distinction named
// in spec.md §4.10 collapses for the method (see DoFollow's doc comment): both
// branches end up with Method "GET" because parseUrl always defaults to GET.
// orig's headers are copied; orig's body is carried over unless status is 303.
func rewriteForRedirect(orig *reqmsg.Request, status int, location string) (*reqmsg.Request, error) {
	var target *urlpkg.URL
	if strings.HasPrefix(location, "/") {
		scheme := "http"
		if orig.Secure {
			scheme = "https"
		}
		abs := scheme + "://" + orig.Host + ":" + strconv.Itoa(orig.Port) + location
		u, err := urlpkg.Parse(abs)
		if err != nil {
			return nil, err
		}
		target = u
	} else {
		u, err := urlpkg.Parse(location)
		if err != nil {
			return nil, err
		}
		target = u
	}

	if status == 303 {
		target.Method = "GET"
	}

	next := reqmsg.FromURL(target)
	next.Header = orig.Header.Clone()
	if status != 303 {
		next.Body = orig.Body
	}
	return next, nil
}
