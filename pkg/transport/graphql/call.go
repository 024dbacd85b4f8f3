package graphql

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// Call is one in-flight request. It settles exactly once: with a response,
// a *errors.TransportError, or a *errors.CancelledError.
type Call struct {
	method string
	url    string

	ctx    context.Context
	cancel context.CancelCauseFunc
	stop   func() bool
	done   chan struct{}

	mu      sync.Mutex
	settled bool
	resp    *http.Response
	err     error
}

func newCall(ctx context.Context, cancel context.CancelCauseFunc, req *http.Request) *Call {
	c := &Call{
		method: req.Method,
		url:    redactURL(req.URL),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	// settles the call when the caller's context ends first
	c.stop = context.AfterFunc(ctx, func() {
		c.settle(nil, c.contextError())
	})
	return c
}

func (c *Call) run(doer HTTPDoer, req *http.Request) {
	resp, err := doer.Do(req)
	c.stop()

	if err != nil {
		if c.ctx.Err() != nil {
			err = c.contextError()
		} else {
			err = &errors.TransportError{Method: c.method, URL: c.url, Cause: err}
		}
		c.settle(nil, err)
		c.cancel(nil)
		return
	}

	resp.Body = &releaseOnClose{ReadCloser: resp.Body, release: c.cancel}
	if !c.settle(resp, nil) {
		// aborted while the response was on its way
		_ = resp.Body.Close()
	}
}

func (c *Call) settle(resp *http.Response, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settled {
		return false
	}
	c.settled = true
	c.resp, c.err = resp, err
	close(c.done)
	return true
}

func (c *Call) contextError() error {
	if c.ctx.Err() == context.DeadlineExceeded {
		return &errors.TransportError{Method: c.method, URL: c.url, Cause: context.Cause(c.ctx)}
	}
	return &errors.CancelledError{Reason: context.Cause(c.ctx)}
}

// Done is closed once the call has settled.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call settles. The caller owns the response body and
// must close it; the call's context is released when it is closed.
// Non-2xx responses are returned without error.
func (c *Call) Wait() (*http.Response, error) {
	<-c.done
	return c.resp, c.err
}

// Abort cancels the request if it has not settled yet, in which case Wait
// returns a *errors.CancelledError carrying reason. A nil reason means
// errors.ErrCancelled. Aborting a settled call does nothing.
func (c *Call) Abort(reason error) {
	if reason == nil {
		reason = errors.ErrCancelled
	}
	if c.settle(nil, &errors.CancelledError{Reason: reason}) {
		c.cancel(reason)
	}
}

// redactURL hides the password and every query value, since auth handlers
// may put credentials in either.
func redactURL(u *url.URL) string {
	r := *u
	if q := r.Query(); len(q) > 0 {
		for k := range q {
			q[k] = []string{"xxxxx"}
		}
		r.RawQuery = q.Encode()
	}
	return r.Redacted()
}

// releaseOnClose ends the call's context once the body is done with.
type releaseOnClose struct {
	io.ReadCloser
	release context.CancelCauseFunc
}

func (r *releaseOnClose) Close() error {
	err := r.ReadCloser.Close()
	r.release(nil)
	return err
}
