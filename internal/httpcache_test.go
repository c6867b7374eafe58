/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

type stubRoundTripper struct {
	lastReq *http.Request
	resp    *http.Response
}

func (s *stubRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastReq = req
	return s.resp, nil
}

func TestHeaderOverrideTransport(t *testing.T) {
	stub := &stubRoundTripper{
		resp: &http.Response{
			StatusCode: http.StatusOK,
			Header: http.Header{
				"Pragma":        []string{"no-cache"},
				"Cache-Control": []string{"no-store"},
				"Expires":       []string{"0"},
			},
			Body: io.NopCloser(strings.NewReader("ok")),
		},
	}

	rt := &HeaderOverrideTransport{
		wrappedRT: stub,
		Request: func(req *http.Request) {
			req.Header.Set("User-Agent", UserAgent)
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Set("Cache-Control", "public, max-age=60")
			return nil
		},
	}

	req, err := http.NewRequest("GET", "https://example.org/entries", nil)
	if err != nil {
		t.Fatalf("NewRequest returned error: %v", err)
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}

	if got := stub.lastReq.Header.Get("User-Agent"); got != UserAgent {
		t.Errorf("request hook not applied: User-Agent = %q", got)
	}
	// the original request must not be mutated
	if req.Header.Get("User-Agent") != "" {
		t.Errorf("caller's request was mutated")
	}

	if resp.Header.Get("Pragma") != "" || resp.Header.Get("Expires") != "" {
		t.Errorf("cache-busting headers not stripped")
	}
	if got := resp.Header.Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", got)
	}
}
