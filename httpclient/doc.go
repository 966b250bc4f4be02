// Package httpclient is a small HTTP client used for dependency health checks.
//
// It sends one request per call and never retries: the caller owns the
// retry schedule. Non-2xx responses are returned together with a
// classified *Error so the caller can read the status code either way.
//
//	client, _ := httpclient.New(httpclient.Config{
//	    Timeout: 5 * time.Second,
//	    Auth:    httpclient.BasicAuth("user", "secret"),
//	})
//	resp, err := client.Get(ctx, "http://schema-registry:8081/subjects")
package httpclient
