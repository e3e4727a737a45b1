package api

import (
	"io"

	http "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// mockHTTPClient implements HTTPDoer for testing
type mockHTTPClient struct {
	doFunc    func(req *http.Request) (*http.Response, error)
	requests  []*http.Request
	bodies    [][]byte
	idleClose bool
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, data)
	}
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, io.ErrUnexpectedEOF
}

func (m *mockHTTPClient) CloseIdleConnections() {
	m.idleClose = true
}

// newMockHTTPClient returns a client that always answers with body and statusCode
func newMockHTTPClient(body string, statusCode int) *mockHTTPClient {
	return &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: statusCode,
				Body:       NewMockResponseBody([]byte(body)),
				Header:     make(http.Header),
			}, nil
		},
	}
}

// newMockHTTPClientWithError returns a client whose Do always fails
func newMockHTTPClientWithError(err error) *mockHTTPClient {
	return &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return nil, err
		},
	}
}
