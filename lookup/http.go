package lookup

import (
	"io"
	"net/http"
)

// HTTPClient is implemented by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MockHTTP the HTTPClient test double. The body is picked by the request's url, or the default Body is used.
type MockHTTP struct {
	Body       io.ReadCloser
	BodyRoute  map[string]io.ReadCloser
	StatusCode int
	Err        error
}

func (m MockHTTP) Do(req *http.Request) (*http.Response, error) {
	var r *http.Response
	if m.Err == nil {
		r = &http.Response{
			StatusCode: http.StatusOK,
			Body:       m.Body,
		}
		if m.StatusCode != 0 {
			r.StatusCode = m.StatusCode
		}
		if v, ok := m.BodyRoute[req.URL.String()]; ok {
			r.Body = v
		}
		if r.Body == nil {
			r.Body = http.NoBody
		}
	}
	return r, m.Err
}
