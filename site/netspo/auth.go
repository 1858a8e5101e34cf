package netspo

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"sort"

	"netspo/errors"
	"netspo/logger"
	"netspo/site"
	"netspo/store"
)

// hashPassword returns the credential the portal expects in place of the
// plaintext password.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Login authenticates username and returns the account with the roles the
// portal granted it. An account with no student or teacher role is not an
// error; its Student and Teacher methods return a *errors.ForbiddenError.
//
// Rejected credentials give an *errors.AuthenticationError.
func (c *Client) Login(ctx context.Context, username, password string) (*Account, error) {
	var resp loginResponse
	cookies, err := c.do(ctx, http.MethodPost, "/services/security/login", loginRequest{
		Login:    username,
		Password: hashPassword(password),
	}, &resp)
	if err != nil {
		var te *errors.TransportError
		if errors.As(err, &te) && te.Status == http.StatusUnauthorized {
			return nil, &errors.AuthenticationError{Reason: te.Reason}
		}
		return nil, err
	}
	if rs := resp.ResponseStatus; rs != nil && (rs.ErrorCode != "" || rs.Message != "") {
		reason := rs.Message
		if reason == "" {
			reason = rs.ErrorCode
		}
		return nil, &errors.AuthenticationError{Reason: reason}
	}

	// The session cookies belong to the whole portal, not only to the
	// login endpoint they were set by.
	for _, ck := range cookies {
		ck.Path = "/"
		ck.Domain = ""
	}
	c.jar.SetCookies(c.base, cookies)

	account := &Account{client: c, login: username}
	if t, ok := c.pickTenant(resp.Tenants); ok {
		account.student, account.teacher = identities(t)
	}
	logger.Info("netspo: logged in as %s (student: %t, teacher: %t)",
		username, account.student != nil, account.teacher != nil)

	if c.store != nil {
		s := store.Session{
			Student: account.student,
			Teacher: account.teacher,
			Cookies: store.FromHTTP(c.jar.Cookies(c.base)),
		}
		if err := c.store.Save(ctx, username, s); err != nil {
			logger.Warn(errors.NewError("netspo.Login", "cannot save session", err))
		}
	}
	return account, nil
}

// pickTenant returns the configured tenant or, if the portal did not list
// it, the first tenant by key.
func (c *Client) pickTenant(tenants map[string]tenant) (tenant, bool) {
	if t, ok := tenants[c.cfg.Tenant]; ok {
		return t, true
	}
	keys := make([]string, 0, len(tenants))
	for k := range tenants {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return tenant{}, false
	}
	sort.Strings(keys)
	return tenants[keys[0]], true
}

func identities(t tenant) (student, teacher *site.Identity) {
	org := t.Settings.Organization.Abbreviation
	if t.StudentRole != nil && len(t.StudentRole.Students) > 0 {
		s := t.StudentRole.Students[0]
		student = &site.Identity{
			TargetID:         s.ID,
			DisplayName:      s.fullName(),
			GroupName:        s.GroupName,
			OrganizationName: org,
		}
	}
	if t.TeacherRole != nil {
		teacher = &site.Identity{
			TargetID:         t.TeacherRole.ID,
			DisplayName:      t.TeacherRole.fullName(),
			OrganizationName: org,
		}
	}
	return student, teacher
}

// Resume restores the session saved for username by an earlier Login,
// without contacting the portal. It fails with an error matching
// errors.ErrNoSession if the client has no session store or nothing is
// saved.
func (c *Client) Resume(ctx context.Context, username string) (*Account, error) {
	if c.store == nil {
		return nil, errors.NewError("netspo.Resume", "no session store configured", errors.ErrNoSession)
	}
	s, err := c.store.Load(ctx, username)
	if err != nil {
		return nil, err
	}
	c.jar.SetCookies(c.base, store.HTTP(s.Cookies))
	logger.Debug("netspo: resumed session of %s", username)
	return &Account{
		client:  c,
		login:   username,
		student: s.Student,
		teacher: s.Teacher,
	}, nil
}

// Account is a logged-in portal account.
type Account struct {
	client  *Client
	login   string
	student *site.Identity
	teacher *site.Identity
}

// Login returns the username the account logged in with.
func (a *Account) Login() string {
	return a.login
}

// Roles lists the roles the portal granted the account.
func (a *Account) Roles() []site.Role {
	var roles []site.Role
	if a.student != nil {
		roles = append(roles, site.RoleStudent)
	}
	if a.teacher != nil {
		roles = append(roles, site.RoleTeacher)
	}
	return roles
}

// Student returns the student-scoped client.
func (a *Account) Student() (*Student, error) {
	if a.student == nil {
		return nil, &errors.ForbiddenError{Role: string(site.RoleStudent)}
	}
	return &Student{client: a.client, identity: *a.student}, nil
}

// Teacher returns the teacher-scoped client.
func (a *Account) Teacher() (*Teacher, error) {
	if a.teacher == nil {
		return nil, &errors.ForbiddenError{Role: string(site.RoleTeacher)}
	}
	return &Teacher{identity: *a.teacher}, nil
}

// Forget deletes the saved session of the account, if any.
func (a *Account) Forget(ctx context.Context) error {
	if a.client.store == nil {
		return nil
	}
	return a.client.store.Delete(ctx, a.login)
}

// Close closes the underlying client.
func (a *Account) Close() error {
	return a.client.Close()
}
