package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// newClient builds a Client closed at test cleanup. A nil cfg uses DefaultConfig.
func newClient(t *testing.T, cfg *Config) *Client {
	t.Helper()
	client := New(cfg)
	t.Cleanup(client.Close)
	return client
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func closeResponseBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
