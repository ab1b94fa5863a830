package testkit

import (
	"fmt"
	"io"
	gohttp "net/http"
	"strings"
	"sync"
	"testing"

	"github.com/ephremw/gebeya/pkg/http"
)

// Responder builds the synthetic response for an intercepted request.
type Responder func(req *gohttp.Request) (status int, body string)

// MockTransport implements http.RoundTripper, matching outgoing requests
// by URL prefix and answering from registered responders. The payment
// client tests use it to fake the Chapa and PayPal APIs without a network.
type MockTransport struct {
	mu     sync.Mutex
	routes []mockRoute
}

type mockRoute struct {
	prefix    string
	responder Responder
	calls     int
}

// InterceptHTTP installs a MockTransport on the shared outbound client
// for the duration of the test.
func InterceptHTTP(t *testing.T) *MockTransport {
	t.Helper()
	mt := &MockTransport{}
	http.DefaultClient.Transport = mt
	t.Cleanup(http.ResetTransport)
	return mt
}

// Stub registers a responder for every request whose URL starts with prefix.
func (mt *MockTransport) Stub(prefix string, responder Responder) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.routes = append(mt.routes, mockRoute{prefix: prefix, responder: responder})
}

// StubJSON registers a fixed JSON response for the prefix.
func (mt *MockTransport) StubJSON(prefix string, status int, body string) {
	mt.Stub(prefix, func(*gohttp.Request) (int, string) { return status, body })
}

// Calls reports how many requests matched the prefix.
func (mt *MockTransport) Calls(prefix string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	for _, r := range mt.routes {
		if r.prefix == prefix {
			return r.calls
		}
	}
	return 0
}

func (mt *MockTransport) RoundTrip(req *gohttp.Request) (*gohttp.Response, error) {
	mt.mu.Lock()
	var match *mockRoute
	for i := range mt.routes {
		if strings.HasPrefix(req.URL.String(), mt.routes[i].prefix) {
			match = &mt.routes[i]
			break
		}
	}
	if match != nil {
		match.calls++
	}
	mt.mu.Unlock()

	if match == nil {
		return nil, fmt.Errorf("testkit: unexpected outbound request to %s", req.URL)
	}

	status, body := match.responder(req)
	header := make(gohttp.Header)
	header.Set("Content-Type", "application/json")
	return &gohttp.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, gohttp.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}
