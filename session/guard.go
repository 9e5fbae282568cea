package session

// Decision is a route guard's verdict for a navigation attempt.
type Decision int

const (
	// Allow renders the requested route.
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login entry point.
	RedirectLogin
	// RedirectLanding sends an authenticated but under-privileged visitor
	// to the default landing area instead of login.
	RedirectLanding
)

const (
	// LoginPath is the login entry point.
	LoginPath = "/login"
	// LandingPath is the default area for authenticated users.
	LandingPath = "/dashboard"
)

// Target returns the redirect path for the decision, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectLanding:
		return LandingPath
	default:
		return ""
	}
}

// AuthGuard admits any authenticated session.
func AuthGuard(s State) Decision {
	if !s.IsAuthenticated {
		return RedirectLogin
	}
	return Allow
}

// AdminGuard admits only authenticated admin sessions. An authenticated
// non-admin is sent to the landing area rather than login, since the
// session itself is valid.
func AdminGuard(s State) Decision {
	if !s.IsAuthenticated {
		return RedirectLogin
	}
	if !s.IsAdmin {
		return RedirectLanding
	}
	return Allow
}
