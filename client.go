package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Client is the authenticated JSON client for the autopay backend. Every
// outbound request attaches the session's bearer credential when one is
// bound, and any credentialed response with status 401 fires the
// registered invalid-session hooks before reporting ErrSessionInvalid,
// regardless of which operation produced it.
type Client struct {
	baseURL    string
	http       *http.Client
	logger     Logger
	credential func() string

	mu        sync.Mutex
	onInvalid []func()
}

// ClientOption customizes client construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the transport (useful for tests and timeouts).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClientLogger overrides the default logger.
func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCredentialSource binds the function the client pulls the current
// bearer credential from. NewManager installs this automatically.
func WithCredentialSource(fn func() string) ClientOption {
	return func(c *Client) {
		c.credential = fn
	}
}

// NewClient returns a client rooted at baseURL, e.g. "http://localhost:8000".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// BindCredentialSource implements CredentialBinder.
func (c *Client) BindCredentialSource(fn func() string) {
	c.credential = fn
}

// Scoped returns a copy of the client pinned to one credential. The
// copy shares the transport and logger but carries no invalid-session
// hooks, so server-side callers handling many sessions at once get the
// ErrSessionInvalid return without a shared teardown firing.
func (c *Client) Scoped(credential string) *Client {
	return &Client{
		baseURL:    c.baseURL,
		http:       c.http,
		logger:     c.logger,
		credential: func() string { return credential },
	}
}

// OnSessionInvalid implements InvalidSessionNotifier.
func (c *Client) OnSessionInvalid(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onInvalid = append(c.onInvalid, fn)
}

// backendError is a non-401 rejection produced by the backend; operations
// map it into the error taxonomy.
type backendError struct {
	Status  int
	Message string
}

func (e *backendError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

type backendErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one request and normalizes failures: transport trouble
// becomes NetworkError, a credentialed 401 becomes ErrSessionInvalid (after
// firing the hooks), everything else >=400 comes back as *backendError.
func (c *Client) do(ctx context.Context, method, path string, body any, overrideCredential string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	credential := overrideCredential
	if credential == "" && c.credential != nil {
		credential = c.credential()
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed for %s %s: %v", method, path, err)
		return nil, NetworkError(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NetworkError(err)
	}

	if res.StatusCode == http.StatusUnauthorized && credential != "" {
		c.logger.Info("credential rejected by backend on %s %s", method, path)
		c.fireSessionInvalid()
		return nil, SessionInvalidError(method, path)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return nil, &backendError{
			Status:  res.StatusCode,
			Message: backendMessage(data, res.StatusCode),
		}
	}

	return data, nil
}

func (c *Client) fireSessionInvalid() {
	c.mu.Lock()
	hooks := make([]func(), len(c.onInvalid))
	copy(hooks, c.onInvalid)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func backendMessage(data []byte, status int) string {
	var body backendErrorBody
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func decodeJSON(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to decode backend response")
	}
	return nil
}

// decodeUser handles both profile response shapes: {"user": {...}} and a
// bare user object.
func decodeUser(data []byte) (*User, error) {
	var envelope struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.User != nil {
		return envelope.User, nil
	}

	user := new(User)
	if err := json.Unmarshal(data, user); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to decode user record")
	}
	return user, nil
}

func asBackendError(err error) (*backendError, bool) {
	var be *backendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// normalizeBackendError turns a leftover *backendError into a rich error
// with the backend's message and status; taxonomy errors pass through.
func normalizeBackendError(err error) error {
	if be, ok := asBackendError(err); ok {
		return goerrors.New(be.Message, goerrors.CategoryOperation).WithCode(be.Status)
	}
	return err
}
