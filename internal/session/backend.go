package session

import (
	"context"
	"sync"
)

// EventType identifies an auth-state change
type EventType string

const (
	EventSignedIn        EventType = "signed_in"
	EventSignedOut       EventType = "signed_out"
	EventSessionRestored EventType = "session_restored"
)

// Event is an auth-state change notification
type Event struct {
	Type EventType
}

// Theme preference values
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Profile is the resident profile held by the binder
type Profile struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	RoomNo    string  `json:"roomNo"`
	RegNo     string  `json:"regNo"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Theme     string  `json:"theme"`
	Role      string  `json:"role"`
}

// IsAdmin reports whether the profile carries the admin role. The role
// is assigned by the server; nothing here derives it from the email.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == "admin"
}

// Registration carries the signup fields and profile metadata
type Registration struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	RoomNo   string  `json:"roomNo"`
	RegNo    string  `json:"regNo"`
	Phone    *string `json:"phone,omitempty"`
}

// ProfileUpdate is a partial profile mutation. Nil fields are not sent.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Theme     *string `json:"theme,omitempty"`
}

// Backend is the remote auth and profile service the binder reconciles
// against. Implementations emit an Event after every successful
// auth-state change, including a session restore.
type Backend interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, reg Registration) error
	SignOut(ctx context.Context) error

	// Restore checks for an existing session and emits
	// EventSessionRestored when one is found. No session is not an
	// error.
	Restore(ctx context.Context) error

	FetchProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) error

	// Subscribe registers a callback for auth-state changes and
	// returns an unsubscribe function.
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Broadcaster fans auth events out to subscribers. Backends embed it
// to implement Subscribe.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

// Subscribe registers a callback and returns its unsubscribe function.
func (b *Broadcaster) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(Event))
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Emit delivers an event to every subscriber.
func (b *Broadcaster) Emit(ev Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
