package netspo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"netspo/errors"
	"netspo/logger"
)

// joinURL resolves path against the base URL.
func (c *Client) joinURL(path string) string {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return strings.TrimRight(c.base.String(), "/") + "/" + strings.TrimLeft(path, "/")
	}
	base := *c.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String()
}

// do sends one request to the portal and decodes the JSON response into out
// (which may be nil). It returns the cookies set by the response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) ([]*http.Cookie, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &errors.TransportError{Cause: errors.Wrap(err, "cannot encode request body")}
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.joinURL(path), payload)
	if err != nil {
		return nil, &errors.TransportError{Cause: errors.Wrap(err, "cannot create request")}
	}

	id := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", id)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.session().Do(req)
	if err != nil {
		logger.L().Debug("portal request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", id),
			zap.Error(err),
		)
		return nil, &errors.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	logger.L().Debug("portal request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", id),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		io.Copy(io.Discard, resp.Body)
		return nil, &errors.TransportError{
			Status: resp.StatusCode,
			Reason: statusReason(resp),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, &errors.TransportError{Cause: errors.Wrap(err, "cannot decode "+path+" response")}
		}
	}
	return resp.Cookies(), nil
}

// statusReason returns the reason phrase of resp, without the status code.
func statusReason(resp *http.Response) string {
	_, reason, _ := strings.Cut(resp.Status, " ")
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
