// Package client is the typed HTTP client for the AgriBizBoost admin API.
//
// Every call carries the stored access token as a bearer credential. A 401
// triggers one token refresh and one replay of the request; when the
// refresh fails or the replay is rejected again, the stored credentials
// are cleared and the logout hook fires.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/agribizboost/agriadmin/internal/client/tokenstore"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"go.uber.org/zap"
)

// DefaultBaseURL is the hosted backend.
const DefaultBaseURL = "https://ethio-agribizboost.onrender.com"

// DefaultTimeout bounds a single HTTP exchange.
const DefaultTimeout = 30 * time.Second

// Client talks to the admin API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    tokenstore.Store
	log       *zap.Logger
	refreshMu sync.Mutex

	hookMu   sync.Mutex
	onLogout func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithLogoutHook sets the function called after credentials are cleared
// because the session could not be renewed.
func WithLogoutHook(fn func()) Option {
	return func(c *Client) { c.onLogout = fn }
}

// New builds a Client for baseURL backed by store.
func New(baseURL string, store tokenstore.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  store,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetLogoutHook replaces the logout hook after construction.
func (c *Client) SetLogoutHook(fn func()) {
	c.hookMu.Lock()
	c.onLogout = fn
	c.hookMu.Unlock()
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Tokens returns the credential store.
func (c *Client) Tokens() tokenstore.Store { return c.tokens }

/*─────────────────────────────────────────────────────────────────────────────*
| Transport                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type call struct {
	method string
	path   string
	query  url.Values
	body   []byte
	auth   bool
}

// do runs an authenticated call through the refresh-once interceptor and
// decodes a 2xx body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	cl := call{method: method, path: path, query: query, auth: true}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		cl.body = b
	}

	sentWith, _ := c.tokens.Get(tokenstore.AccessToken)
	status, body, err := c.send(ctx, cl)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if rerr := c.renew(ctx, sentWith); rerr != nil {
			c.log.Debug("token refresh failed", zap.Error(rerr))
			c.logout()
			return &HTTPError{Status: status, Detail: detailFrom(body)}
		}
		status, body, err = c.send(ctx, cl)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			c.logout()
		}
	}

	if status < 200 || status >= 300 {
		return &HTTPError{Status: status, Detail: detailFrom(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs one HTTP exchange. The bearer header is attached only when
// cl.auth is set and an access token is stored.
func (c *Client) send(ctx context.Context, cl call) (int, []byte, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var rdr io.Reader
	if cl.body != nil {
		rdr = bytes.NewReader(cl.body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, rdr)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s: %w", cl.method, cl.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.auth {
		if tok, ok := c.tokens.Get(tokenstore.AccessToken); ok && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.log.Debug("api request", zap.String("method", cl.method), zap.String("url", u))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, &NetworkError{Method: cl.method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Method: cl.method, URL: u, Err: err}
	}
	c.log.Debug("api response",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return resp.StatusCode, body, nil
}

// renew refreshes the token pair unless another caller already replaced
// the access token that was rejected.
func (c *Client) renew(ctx context.Context, rejected string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if cur, ok := c.tokens.Get(tokenstore.AccessToken); ok && cur != "" && cur != rejected {
		return nil
	}
	return c.refreshLocked(ctx)
}

// RefreshToken exchanges the stored refresh token for a new pair and
// stores it.
func (c *Client) RefreshToken(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshLocked(ctx)
}

var errNoRefreshToken = errors.New("no refresh token available")

func (c *Client) refreshLocked(ctx context.Context) error {
	rt, ok := c.tokens.Get(tokenstore.RefreshToken)
	if !ok || rt == "" {
		return errNoRefreshToken
	}
	var pair dto.TokenPair
	if err := c.plain(ctx, http.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: rt}, &pair); err != nil {
		return err
	}
	if err := c.tokens.Set(tokenstore.AccessToken, pair.AccessToken); err != nil {
		return err
	}
	return c.tokens.Set(tokenstore.RefreshToken, pair.RefreshToken)
}

// plain is a call without the bearer header or the 401 interceptor.
func (c *Client) plain(ctx context.Context, method, path string, in, out any) error {
	cl := call{method: method, path: path}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		cl.body = b
	}
	status, body, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &HTTPError{Status: status, Detail: detailFrom(body)}
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) logout() {
	if err := tokenstore.Clear(c.tokens); err != nil {
		c.log.Warn("clear stored credentials", zap.Error(err))
	}
	c.hookMu.Lock()
	fn := c.onLogout
	c.hookMu.Unlock()
	if fn != nil {
		fn()
	}
}
