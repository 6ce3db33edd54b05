package httptransport

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/icholy/digest"
)

// credentials is a login/password pair that applies to a set of URLs.
type credentials struct {
	scheme   string
	host     string
	path     string
	login    string
	password string
}

// newCredentials returns credentials for the URLs under uri.
func newCredentials(uri, login, password string) *credentials {
	c := &credentials{
		login:    login,
		password: password,
	}

	if uri == "" {
		return c
	}

	if !strings.Contains(uri, "://") {
		c.host = strings.ToLower(uri)
		c.path = "/"
		return c
	}

	u, err := url.Parse(uri)
	if err != nil {
		c.host = strings.ToLower(uri)
		c.path = "/"
		return c
	}

	c.scheme = strings.ToLower(u.Scheme)
	c.host = hostWithPort(u)
	c.path = u.Path

	if c.path == "" {
		c.path = "/"
	}

	return c
}

// covers returns true if the credentials apply to u.
func (c *credentials) covers(u *url.URL) bool {
	if c.host == "" {
		return true
	}

	if c.scheme != "" && !strings.EqualFold(c.scheme, u.Scheme) {
		return false
	}

	if c.host != strings.ToLower(u.Host) && c.host != hostWithPort(u) {
		return false
	}

	p := u.Path
	if p == "" {
		p = "/"
	}

	if p == c.path {
		return true
	}

	prefix := c.path
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return strings.HasPrefix(p, prefix)
}

// authorizers returns functions that add an Authorization header to a
// request, each answering one of the challenges in h.
//
// Digest answers come before Basic answers, so a Basic challenge is only
// answered if every Digest answer fails.
func (c *credentials) authorizers(h http.Header) []func(*http.Request) error {
	var digests []func(*http.Request) error
	var basic bool

	for _, v := range h.Values("WWW-Authenticate") {
		switch strings.ToLower(authScheme(v)) {
		case "digest":
			chal, err := digest.ParseChallenge(v)
			if err != nil {
				continue
			}

			digests = append(digests, func(r *http.Request) error {
				cred, err := digest.Digest(chal, digest.Options{
					Method:   r.Method,
					URI:      r.URL.RequestURI(),
					GetBody:  r.GetBody,
					Count:    1,
					Username: c.login,
					Password: c.password,
				})
				if err != nil {
					return err
				}

				r.Header.Set("Authorization", cred.String())
				return nil
			})

		case "basic":
			basic = true
		}
	}

	if basic {
		return append(digests, func(r *http.Request) error {
			r.SetBasicAuth(c.login, c.password)
			return nil
		})
	}

	return digests
}

// authScheme returns the authentication scheme of a WWW-Authenticate header
// value.
func authScheme(challenge string) string {
	challenge = strings.TrimSpace(challenge)

	if i := strings.IndexByte(challenge, ' '); i != -1 {
		return challenge[:i]
	}

	return challenge
}

// hostWithPort returns the host of u, including the default port for its
// scheme if no port is given explicitly.
func hostWithPort(u *url.URL) string {
	host := strings.ToLower(u.Host)

	if u.Port() != "" {
		return host
	}

	switch strings.ToLower(u.Scheme) {
	case "http":
		return net.JoinHostPort(strings.ToLower(u.Hostname()), "80")
	case "https":
		return net.JoinHostPort(strings.ToLower(u.Hostname()), "443")
	}

	return host
}
