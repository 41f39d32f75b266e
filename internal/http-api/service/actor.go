package service

// Actor is the identity a request acts as. The zero value is anonymous.
type Actor struct {
	UserID       string
	Username     string
	Capabilities []string
}

// Anonymous is the actor of an unauthenticated request.
var Anonymous = Actor{}

func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// HasCapability is the authorization predicate evaluated at the top of every
// privileged operation. Anonymous actors hold nothing.
func (a Actor) HasCapability(capability string) bool {
	if !a.Authenticated() {
		return false
	}
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Require returns ErrUnauthenticated or ErrPermissionDenied when the actor
// does not hold capability.
func (a Actor) Require(capability string) error {
	if !a.Authenticated() {
		return ErrUnauthenticated
	}
	if !a.HasCapability(capability) {
		return ErrPermissionDenied
	}
	return nil
}
