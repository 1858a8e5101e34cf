package netspo

import (
	"netspo/site"
)

// Teacher is the teacher-scoped client of an account. Obtain it from
// Account.Teacher. It only carries the identity for now.
type Teacher struct {
	identity site.Identity
}

// Identity returns the teacher identity found at login.
func (t *Teacher) Identity() site.Identity {
	return t.identity
}
