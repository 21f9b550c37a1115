package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/go-resty/resty/v2"
)

// envelope mirrors the API's common response format.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors"`
}

func (e *envelope) err(resp *resty.Response) error {
	if len(e.Errors) > 0 {
		return fmt.Errorf("%s", strings.Join(e.Errors, "; "))
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode())
}

// HTTPBackend implements Backend against the mess API over HTTP. The
// session cookie lives in the client's jar; events are emitted from
// the call sites after each successful auth change, the way hosted
// auth SDKs notify their own listeners.
type HTTPBackend struct {
	Broadcaster
	client *resty.Client
}

// NewHTTPBackend creates a backend for the API at baseURL.
func NewHTTPBackend(baseURL string) *HTTPBackend {
	jar, _ := cookiejar.New(nil)
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetCookieJar(jar).
		SetHeader("Content-Type", "application/json")
	return &HTTPBackend{client: client}
}

// Subscribe registers a callback for auth-state changes.
func (b *HTTPBackend) Subscribe(fn func(Event)) func() {
	return b.Broadcaster.Subscribe(fn)
}

// SignIn verifies credentials and opens a session.
func (b *HTTPBackend) SignIn(ctx context.Context, email, password string) error {
	var env envelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&env).
		SetError(&env).
		Post("/api/auth/login")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return env.err(resp)
	}

	b.Emit(Event{Type: EventSignedIn})
	return nil
}

// SignUp creates an account with profile metadata and opens a session.
func (b *HTTPBackend) SignUp(ctx context.Context, reg Registration) error {
	var env envelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(reg).
		SetResult(&env).
		SetError(&env).
		Post("/api/auth/register")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return env.err(resp)
	}

	b.Emit(Event{Type: EventSignedIn})
	return nil
}

// SignOut closes the current session.
func (b *HTTPBackend) SignOut(ctx context.Context) error {
	var env envelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Post("/api/auth/logout")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return env.err(resp)
	}

	b.Emit(Event{Type: EventSignedOut})
	return nil
}

// Restore checks for a restorable session. A missing session is not an
// error; a found one is announced as a restore event.
func (b *HTTPBackend) Restore(ctx context.Context) error {
	var env envelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/api/auth/me")
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil
	}
	if resp.IsError() {
		return env.err(resp)
	}

	b.Emit(Event{Type: EventSessionRestored})
	return nil
}

// FetchProfile loads the profile of the current session.
func (b *HTTPBackend) FetchProfile(ctx context.Context) (*Profile, error) {
	var env envelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/api/auth/me")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, env.err(resp)
	}

	var data struct {
		User *Profile `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, fmt.Errorf("profile missing in response")
	}
	return data.User, nil
}

// UpdateProfile persists a partial profile update.
func (b *HTTPBackend) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	var env envelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(update).
		SetResult(&env).
		SetError(&env).
		Patch("/api/auth/profile")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return env.err(resp)
	}
	return nil
}
