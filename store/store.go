// Package store persists portal login sessions, so that a client can resume
// one without sending the password again.
package store

import (
	"net/http"

	"netspo/errors"
	"netspo/site"
)

// Session is what is kept for a logged-in account: the identities found at
// login and the portal cookies.
type Session struct {
	Student *site.Identity `json:"student,omitempty"`
	Teacher *site.Identity `json:"teacher,omitempty"`
	Cookies []Cookie       `json:"cookies"`
}

// Cookie is the part of a portal cookie needed to replay it.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FromHTTP converts cookies received from the portal.
func FromHTTP(cookies []*http.Cookie) []Cookie {
	res := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		res = append(res, Cookie{Name: c.Name, Value: c.Value})
	}
	return res
}

// HTTP converts cookies back for a cookie jar.
func HTTP(cookies []Cookie) []*http.Cookie {
	res := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		res = append(res, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	return res
}

var errNoSession = errors.NewError("store", errors.ErrNoSession.Error(), errors.ErrNoSession)
