// Package netspo is a client for the "network city" SPO gradebook portal.
//
// A Client owns one HTTP session (a lazily created *http.Client and a cookie
// jar). Login authenticates an account and returns an Account, from which the
// role-scoped Student and Teacher clients are obtained:
//
//	client, err := netspo.New(site.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//	account, err := client.Login(ctx, username, password)
//	if err != nil {
//		return err
//	}
//	student, err := account.Student()
//	if err != nil {
//		return err
//	}
//	debts, err := student.Debts(ctx, time.Time{}, time.Time{})
//
// Every operation performs at most one portal request and returns when it
// completes or ctx is cancelled. Operations never retry.
package netspo

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"netspo/errors"
	"netspo/site"
	"netspo/store"
)

// SessionStore persists login sessions so that they can be resumed without
// logging in again. *store.Redis and *store.Memory implement it.
type SessionStore interface {
	Load(ctx context.Context, login string) (store.Session, error)
	Save(ctx context.Context, login string, s store.Session) error
	Delete(ctx context.Context, login string) error
}

// Client is a portal client. It is safe for concurrent use, but operations
// are not ordered with respect to each other: callers that need a login to
// complete before a fetch must sequence the calls themselves.
type Client struct {
	cfg   site.Config
	base  *url.URL
	loc   *time.Location
	jar   *cookiejar.Jar
	store SessionStore
	rt    http.RoundTripper
	now   func() time.Time

	mu   sync.Mutex
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithSessionStore makes Login save sessions to s and enables Resume.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithTransport replaces the HTTP transport used for portal requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.rt = rt
	}
}

// New returns a client for the portal described by cfg. No connection is
// made until the first request.
func New(cfg site.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewError("netspo.New", "invalid config", err)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.NewError("netspo.New", "cannot parse base URL", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.NewError("netspo.New", "cannot create cookie jar", err)
	}
	c := &Client{
		cfg:  cfg,
		base: base,
		loc:  cfg.Location(),
		jar:  jar,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dial creates a client and logs in straight away. The returned Account owns
// the client; release it with Account.Close.
func Dial(ctx context.Context, cfg site.Config, username, password string, opts ...Option) (*Account, error) {
	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	account, err := c.Login(ctx, username, password)
	if err != nil {
		c.Close()
		return nil, err
	}
	return account, nil
}

// Config returns the settings c was created with.
func (c *Client) Config() site.Config {
	return c.cfg
}

// session returns the live HTTP client, creating it if c has never been used
// or was closed.
func (c *Client) session() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.http != nil {
		return c.http
	}
	rt := c.rt
	if rt == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.MaxConnsPerHost = 1
		rt = t
	}
	c.http = &http.Client{
		Jar:       c.jar,
		Timeout:   c.cfg.Timeout,
		Transport: rt,
	}
	return c.http
}

// Close releases the HTTP session. It is a no-op if c was never used or is
// already closed. Cookies are kept, so a request made after Close opens a new
// session that is still logged in.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.http == nil {
		return nil
	}
	c.http.CloseIdleConnections()
	c.http = nil
	return nil
}
