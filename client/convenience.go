package client

import (
	"github.com/jberryman/http-client/connpool"
	"github.com/jberryman/http-client/httperr"
	"github.com/jberryman/http-client/internal/xlog"
	"github.com/jberryman/http-client/reqmsg"
	"github.com/jberryman/http-client/urlpkg"
)

// WithPool creates a pool, passes it to f, and closes it on every exit path,
// matching the "with_pool" scoped-acquisition helper spec.md §6 names.
func WithPool(logger xlog.Logger, f func(pool *connpool.Pool) error) error {
	pool := connpool.New(logger)
	defer pool.CloseAll()
	return f(pool)
}

// Get is the simpleHttp-equivalent convenience wrapper: it parses rawURL,
// runs a redirect-following GET within a pool scoped to this one call, and
// returns the buffered body only if the final status lands in [200, 300).
// Any other final status fails with an httperr.StatusCode carrying the code
// and the buffered body.
func Get(rawURL string) ([]byte, error) {
	u, err := urlpkg.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	req := reqmsg.FromURL(u)

	var body []byte
	err = WithPool(nil, func(pool *connpool.Pool) error {
		resp, err := DoFollow(req, pool, Buffered)
		if err != nil {
			return err
		}
		if resp.Status < 200 || resp.Status >= 300 {
			return httperr.NewStatusCode(resp.Status, resp.Body)
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// PostForm is the url-encoded POST helper: it sets req's body to the
// form-encoded concatenation of pairs, forces the method to POST, and
// replaces any existing Content-Type with application/x-www-form-urlencoded.
func PostForm(pairs []urlpkg.Pair, req *reqmsg.Request) *reqmsg.Request {
	out := req.Clone()
	out.Method = "POST"
	out.Body = reqmsg.BytesBody([]byte(urlpkg.RenderQuery(pairs)))
	out.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return out
}
