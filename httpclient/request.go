package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	// Method defaults to GET.
	Method string
	// Path is appended to BaseURL, or used as-is when it is an absolute URL.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Auth overrides the client-level auth for this request.
	Auth Authenticator
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
