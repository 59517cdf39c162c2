package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var (
	// ErrRuntimeInit wraps every failure to bring the HTTP subsystem up.
	ErrRuntimeInit = errors.New("runtime initialization failed")
	// ErrRuntimeClosed reports a Retain on a runtime already torn down.
	ErrRuntimeClosed = errors.New("runtime already closed")
)

// Runtime owns the process-wide HTTP transport state: connection pools, TLS
// configuration and the optional proxy. It is reference counted so several
// pipelines in one process share a single instance, and teardown runs
// exactly once when the last holder releases it.
type Runtime struct {
	mu        sync.Mutex
	transport *http.Transport
	refs      int
	closed    bool
}

// NewRuntime builds the shared transport. proxyURL is optional; a value
// that does not parse as an absolute URL fails initialization. The returned
// runtime starts with one reference held by the caller.
func NewRuntime(proxyURL string) (*Runtime, error) {
	transport := &http.Transport{
		ResponseHeaderTimeout: 2 * time.Minute,
		IdleConnTimeout:       0,
		TLSHandshakeTimeout:   10 * time.Second,
		DisableKeepAlives:     true,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   0,
	}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: proxy %q: %v", ErrRuntimeInit, proxyURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: proxy %q is not an absolute URL", ErrRuntimeInit, proxyURL)
		}
		transport.Proxy = http.ProxyURL(u)
	}

	return &Runtime{transport: transport, refs: 1}, nil
}

// Retain takes an additional reference. It fails once the runtime has been
// torn down; a new runtime must be built instead.
func (rt *Runtime) Retain() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return ErrRuntimeClosed
	}
	rt.refs++
	return nil
}

// Release drops one reference and tears the transport down when the count
// reaches zero. Calling Release on a nil or already-closed runtime is a
// no-op, so teardown paths never need to track whether init succeeded.
func (rt *Runtime) Release() {
	if rt == nil {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed || rt.refs == 0 {
		return
	}
	rt.refs--
	if rt.refs == 0 {
		rt.closed = true
		rt.transport.CloseIdleConnections()
	}
}
