package api

import (
	"net/url"
	"strings"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
)

// SignInPath is where unauthenticated visitors of protected pages are sent.
const SignInPath = "/sign-in"

// Outcome is the gate's verdict for a request.
type Outcome int

const (
	// Pass lets the request through.
	Pass Outcome = iota
	// NeedSignIn asks the visitor to sign in first.
	NeedSignIn
	// NotAdmin turns a signed-in non-admin away from the back-office.
	NotAdmin
)

// Decision is the result of Classify. Location is the redirect target for
// page requests and is empty when the request passes.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Classify decides whether a request for uri may proceed. uri is the
// request path with its query string. The function has no side effects.
func Classify(uri string, id *user.Identity) Decision {
	path := uri
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	switch {
	case isAdminPath(path):
		if !id.Authenticated() {
			return signIn(uri)
		}
		if !user.IsAdmin(id) {
			return Decision{Outcome: NotAdmin, Location: "/"}
		}
	case isAccountPath(path):
		if !id.Authenticated() {
			return signIn(uri)
		}
	}
	return Decision{Outcome: Pass}
}

func signIn(uri string) Decision {
	return Decision{
		Outcome:  NeedSignIn,
		Location: SignInPath + "?redirect_url=" + url.QueryEscape(uri),
	}
}

func isAdminPath(path string) bool {
	return hasSegmentPrefix(path, "/admin") || hasSegmentPrefix(path, "/api/v1/admin")
}

func isAccountPath(path string) bool {
	return hasSegmentPrefix(path, "/account") || hasSegmentPrefix(path, "/api/v1/account")
}

// hasSegmentPrefix matches prefix as a whole path segment, so /administrator
// does not count as /admin. Case is ignored, as it is by the router.
func hasSegmentPrefix(path, prefix string) bool {
	if len(path) < len(prefix) || !strings.EqualFold(path[:len(prefix)], prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}

// isAPIPath reports whether the path is served as JSON rather than a page.
func isAPIPath(path string) bool {
	return hasSegmentPrefix(path, "/api")
}
