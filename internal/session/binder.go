package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Notifier surfaces transient user-visible messages (the toast layer).
type Notifier interface {
	Notify(message string)
}

// ThemeApplier applies the visual theme side-effect.
type ThemeApplier interface {
	Apply(theme string)
	Reset()
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopThemes struct{}

func (nopThemes) Apply(string) {}
func (nopThemes) Reset()       {}

// Binder maintains the single authoritative in-memory profile for the
// remote auth state. Only the subscription callback writes the profile
// on auth-state transitions; explicit Login/Register calls trigger the
// remote action and wait for that event. Profile updates merge locally
// only after the remote write succeeded.
type Binder struct {
	backend  Backend
	notifier Notifier
	themes   ThemeApplier
	logger   zerolog.Logger

	mu          sync.RWMutex
	profile     *Profile
	loading     bool
	unsubscribe func()
}

// Option configures a Binder.
type Option func(*Binder)

// WithNotifier sets the user-visible notification sink.
func WithNotifier(n Notifier) Option {
	return func(b *Binder) { b.notifier = n }
}

// WithThemeApplier sets the theme side-effect target.
func WithThemeApplier(t ThemeApplier) Option {
	return func(b *Binder) { b.themes = t }
}

// WithLogger sets the binder's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Binder) { b.logger = l }
}

// New creates a binder over a backend.
func New(backend Backend, opts ...Option) *Binder {
	b := &Binder{
		backend:  backend,
		notifier: nopNotifier{},
		themes:   nopThemes{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start subscribes to auth-state changes and runs the initial session
// check. The loading flag is raised until the restore settles.
func (b *Binder) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.unsubscribe != nil {
		b.mu.Unlock()
		return fmt.Errorf("binder already started")
	}
	b.unsubscribe = b.backend.Subscribe(b.handleEvent)
	b.loading = true
	b.mu.Unlock()

	if err := b.backend.Restore(ctx); err != nil {
		// No restorable session; the binder stays unauthenticated.
		b.logger.Error().Err(err).Msg("session restore failed")
	}

	b.mu.Lock()
	// A restore event may have already cleared it; this covers the
	// no-session path where no event fires.
	if b.profile == nil {
		b.loading = false
	}
	b.mu.Unlock()
	return nil
}

// Close unsubscribes from the backend.
func (b *Binder) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// handleEvent is the single writer of the authoritative profile.
func (b *Binder) handleEvent(ev Event) {
	switch ev.Type {
	case EventSignedIn, EventSessionRestored:
		profile, err := b.backend.FetchProfile(context.Background())
		if err != nil || profile == nil {
			// Incomplete profile after successful auth: treat as
			// signed out, log only.
			b.logger.Error().Err(err).Msg("profile hydration failed")
			profile = nil
		}
		b.mu.Lock()
		b.profile = profile
		b.loading = false
		b.mu.Unlock()
		if profile != nil {
			b.themes.Apply(profile.Theme)
		}

	case EventSignedOut:
		b.mu.Lock()
		b.profile = nil
		b.loading = false
		b.mu.Unlock()
		b.themes.Reset()
	}
}

// Profile returns a copy of the current profile, or nil when signed out.
func (b *Binder) Profile() *Profile {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.profile == nil {
		return nil
	}
	p := *b.profile
	return &p
}

// Loading reports whether an auth transition is in flight.
func (b *Binder) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// IsAdmin reports whether the current profile carries the admin role.
func (b *Binder) IsAdmin() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.profile.IsAdmin()
}

// Login verifies credentials remotely. Hydration of the profile
// arrives through the subscription event; on failure the binder stays
// signed out and the error is returned to the caller.
func (b *Binder) Login(ctx context.Context, email, password string) error {
	b.setLoading(true)

	if err := b.backend.SignIn(ctx, email, password); err != nil {
		b.setLoading(false)
		b.notifier.Notify("Login failed: " + err.Error())
		return err
	}
	return nil
}

// Register creates the remote account with the profile metadata
// attached. The admin role is assigned by the server from its own
// allow-list. Hydration arrives through the subscription event.
func (b *Binder) Register(ctx context.Context, reg Registration) error {
	b.setLoading(true)

	if err := b.backend.SignUp(ctx, reg); err != nil {
		b.setLoading(false)
		b.notifier.Notify("Registration failed: " + err.Error())
		return err
	}
	return nil
}

// Logout clears the remote session. The local profile and the applied
// theme are cleared by the resulting sign-out event. On failure the
// prior state is left intact.
func (b *Binder) Logout(ctx context.Context) error {
	if err := b.backend.SignOut(ctx); err != nil {
		b.notifier.Notify("Logout failed: " + err.Error())
		return err
	}
	return nil
}

// UpdateProfile persists a partial profile update remotely, then
// merges the same fields into local state. A failed remote write
// leaves local state untouched. No-op when signed out.
func (b *Binder) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	if b.Profile() == nil {
		return nil
	}

	if update.Theme != nil && *update.Theme != ThemeLight && *update.Theme != ThemeDark {
		return fmt.Errorf("theme must be %q or %q", ThemeLight, ThemeDark)
	}

	if err := b.backend.UpdateProfile(ctx, update); err != nil {
		b.notifier.Notify("Profile update failed: " + err.Error())
		return err
	}

	b.mu.Lock()
	if b.profile != nil {
		if update.Name != nil {
			b.profile.Name = *update.Name
		}
		if update.Phone != nil {
			b.profile.Phone = update.Phone
		}
		if update.AvatarURL != nil {
			b.profile.AvatarURL = update.AvatarURL
		}
		if update.Theme != nil {
			b.profile.Theme = *update.Theme
		}
	}
	b.mu.Unlock()

	if update.Theme != nil {
		b.themes.Apply(*update.Theme)
	}
	return nil
}

// ToggleTheme flips the theme between light and dark, persists it and
// applies the visual side-effect. No-op when signed out.
func (b *Binder) ToggleTheme(ctx context.Context) error {
	profile := b.Profile()
	if profile == nil {
		return nil
	}

	next := ThemeDark
	if profile.Theme == ThemeDark {
		next = ThemeLight
	}
	return b.UpdateProfile(ctx, ProfileUpdate{Theme: &next})
}

func (b *Binder) setLoading(v bool) {
	b.mu.Lock()
	b.loading = v
	b.mu.Unlock()
}
