// Package httputils builds the outbound HTTP clients used to reach image hosts and geocoders.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"
)

// HeaderRoundTripper sets fixed headers on every outgoing request.
type HeaderRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}
	return t.Transport.RoundTrip(req)
}

// DumpRoundTripper writes request and response headers to Writer.
type DumpRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
}

func prefixLines(dump []byte, prefix string) string {
	lines := strings.Split(strings.TrimRight(string(dump), "\r\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + strings.TrimRight(line, "\r")
	}
	return strings.Join(lines, "\n") + "\n"
}

// RoundTrip implements the http.RoundTripper interface.
func (t *DumpRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, false)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}
	fmt.Fprint(t.Writer, prefixLines(dump, "> "))

	start := time.Now()
	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		fmt.Fprintf(t.Writer, "< ERROR: %v\n", err)
		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, false)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}
	fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n", time.Since(start))
	fmt.Fprint(t.Writer, prefixLines(dump, "< "))

	return resp, nil
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Debug receives request/response dumps when set.
	Debug io.Writer
}

// NewClient returns a client that identifies itself with opts.UserAgent.
func NewClient(opts Options) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if opts.Debug != nil {
		transport = &DumpRoundTripper{Transport: transport, Writer: opts.Debug}
	}
	if opts.UserAgent != "" {
		transport = &HeaderRoundTripper{
			Transport: transport,
			Headers:   map[string]string{"User-Agent": opts.UserAgent},
		}
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}
}
