package auth

type Policy int

const (
	Public Policy = iota
	RequireAnonymous
	RequireAuthenticated
	RequireAdmin
)

type Decision int

const (
	Proceed Decision = iota
	RedirectInSession
	RedirectLogin
	RedirectForbidden
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case RedirectInSession:
		return "redirect-in-session"
	case RedirectLogin:
		return "redirect-login"
	case RedirectForbidden:
		return "redirect-forbidden"
	}
	return "unknown"
}

// Decide is the single route-level authorization table.
func Decide(p Policy, id Identity) Decision {
	switch p {
	case RequireAnonymous:
		if id.IsAuthenticated() {
			return RedirectInSession
		}
	case RequireAuthenticated:
		if !id.IsAuthenticated() {
			return RedirectLogin
		}
	case RequireAdmin:
		if !id.IsAuthenticated() {
			return RedirectLogin
		}
		if !id.IsAdmin() {
			return RedirectForbidden
		}
	}
	return Proceed
}

// CanModify reports whether id may change or delete content owned by authorID.
func CanModify(id Identity, authorID string) bool {
	if !id.IsAuthenticated() {
		return false
	}
	return id.IsAdmin() || id.UserID() == authorID
}
