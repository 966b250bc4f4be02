package httpclient

import "net/http"

// Authenticator decorates an outgoing request with credentials.
type Authenticator interface {
	Authenticate(req *http.Request)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(req *http.Request)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(req *http.Request) { f(req) }

type basicAuth struct{ username, password string }

func (b basicAuth) Authenticate(req *http.Request) { req.SetBasicAuth(b.username, b.password) }

// BasicAuth sends the username and password with every request. Schema
// registries behind Confluent Cloud expect an API key/secret pair this way.
func BasicAuth(username, password string) Authenticator {
	return basicAuth{username: username, password: password}
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) Authenticator {
	return AuthenticatorFunc(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
}
