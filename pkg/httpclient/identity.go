package httpclient

import "math/rand/v2"

// DefaultAccept is the content negotiation header sent with every rotated identity
const DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"

// DefaultUserAgents is the fixed pool of desktop browser identities
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.99 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.99 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.99 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_12_1) AppleWebKit/602.2.14 (KHTML, like Gecko) Version/10.0.1 Safari/602.2.14",
	"Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.71 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_12_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.98 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_11_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.98 Safari/537.36",
	"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.71 Safari/537.36",
	"Mozilla/5.0 (Windows NT 6.1; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2840.99 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; WOW64; rv:50.0) Gecko/20100101 Firefox/50.0",
}

// Identity is the set of request headers presented to the server
type Identity struct {
	UserAgent string
	Accept    string
}

// IdentityRotator hands out a randomly chosen browser identity per request.
// It keeps no state between calls and is safe for concurrent use.
type IdentityRotator struct {
	userAgents []string
	accept     string
	pick       func(n int) int
}

// NewIdentityRotator creates a rotator over the given user agents.
// An empty list falls back to DefaultUserAgents, an empty accept to DefaultAccept.
func NewIdentityRotator(userAgents []string, accept string) *IdentityRotator {
	if len(userAgents) == 0 {
		userAgents = DefaultUserAgents
	}
	if accept == "" {
		accept = DefaultAccept
	}

	agents := make([]string, len(userAgents))
	copy(agents, userAgents)

	return &IdentityRotator{
		userAgents: agents,
		accept:     accept,
		pick:       rand.IntN,
	}
}

// Next returns a uniformly chosen identity
func (r *IdentityRotator) Next() Identity {
	return Identity{
		UserAgent: r.userAgents[r.pick(len(r.userAgents))],
		Accept:    r.accept,
	}
}

// UserAgents returns a copy of the identity pool
func (r *IdentityRotator) UserAgents() []string {
	agents := make([]string, len(r.userAgents))
	copy(agents, r.userAgents)
	return agents
}
