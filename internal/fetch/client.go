package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds one whole transfer, connect included.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "cn-data-fetch/1.0"
)

var (
	// ErrBufferTooSmall reports a response larger than the transfer buffer.
	// The transfer is discarded entirely; no prefix is kept.
	ErrBufferTooSmall = errors.New("response exceeds buffer capacity")

	ErrEmptyURL = errors.New("empty url")
	ErrNoBuffer = errors.New("nil transfer buffer")
)

// TransportError reports a failed transfer: connection, protocol or HTTP
// status problems, as opposed to local capacity rejection.
type TransportError struct {
	URL        string
	StatusCode int // zero when no response arrived
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Options tunes a Client. Zero values fall back to defaults; a zero
// RatePerSecond disables client-side pacing.
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	RatePerSecond float64
}

// Client fetches URLs into caller-owned bounded buffers. It is safe for
// concurrent use; the pacing limiter is shared across goroutines.
type Client struct {
	rest    *resty.Client
	limiter *rate.Limiter
}

// NewClient builds a client on the runtime's shared transport.
func NewClient(rt *Runtime, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	rest := resty.New().
		SetTransport(rt.transport).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetDoNotParseResponse(true)

	c := &Client{rest: rest}
	if opts.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 10)
	}
	return c
}

// Fetch downloads url into buf. On success it commits and returns the byte
// count; buf.Bytes() then holds the exact payload. On any failure buf is
// left empty: a response that overflows the buffer yields ErrBufferTooSmall,
// everything else a *TransportError.
func (c *Client) Fetch(ctx context.Context, url string, buf *Buffer) (int, error) {
	if url == "" {
		return 0, ErrEmptyURL
	}
	if buf == nil {
		return 0, ErrNoBuffer
	}
	buf.Reset()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, &TransportError{URL: url, Err: err}
		}
	}

	resp, err := c.rest.R().SetContext(ctx).Get(url)
	if err != nil {
		return 0, &TransportError{URL: url, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		return 0, &TransportError{URL: url, StatusCode: code, Err: errors.New(resp.Status())}
	}

	n, err := readInto(buf.region, body)
	if err != nil {
		if errors.Is(err, ErrBufferTooSmall) {
			return 0, fmt.Errorf("fetch %s: %w (capacity %d)", url, ErrBufferTooSmall, buf.Capacity())
		}
		return 0, &TransportError{URL: url, Err: err}
	}
	buf.n = n
	return n, nil
}

// readInto fills region from r and verifies the stream ends within
// capacity. A stream with even one byte past the end is rejected whole.
func readInto(region []byte, r io.Reader) (int, error) {
	n := 0
	for n < len(region) {
		m, err := r.Read(region[n:])
		n += m
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
	}

	var probe [1]byte
	switch _, err := io.ReadFull(r, probe[:]); err {
	case io.EOF:
		return n, nil
	case nil:
		return 0, ErrBufferTooSmall
	default:
		return 0, err
	}
}
