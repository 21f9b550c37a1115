package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend scripts the remote auth service. Successful auth calls
// emit their event synchronously, the way the HTTP backend does.
type fakeBackend struct {
	Broadcaster

	profile    *Profile
	hasSession bool

	signInErr  error
	signUpErr  error
	signOutErr error
	fetchErr   error
	updateErr  error

	registered  *Registration
	updateCalls int
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) error {
	if f.signInErr != nil {
		return f.signInErr
	}
	f.Emit(Event{Type: EventSignedIn})
	return nil
}

func (f *fakeBackend) SignUp(ctx context.Context, reg Registration) error {
	if f.signUpErr != nil {
		return f.signUpErr
	}
	f.registered = &reg
	f.Emit(Event{Type: EventSignedIn})
	return nil
}

func (f *fakeBackend) SignOut(ctx context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.Emit(Event{Type: EventSignedOut})
	return nil
}

func (f *fakeBackend) Restore(ctx context.Context) error {
	if f.hasSession {
		f.Emit(Event{Type: EventSessionRestored})
	}
	return nil
}

func (f *fakeBackend) FetchProfile(ctx context.Context) (*Profile, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.profile, nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	f.updateCalls++
	return f.updateErr
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

type recordingThemes struct {
	applied []string
	resets  int
}

func (t *recordingThemes) Apply(theme string) { t.applied = append(t.applied, theme) }
func (t *recordingThemes) Reset()             { t.resets++ }

func testProfile() *Profile {
	return &Profile{
		ID:     1,
		Email:  "asha@hostel.test",
		Name:   "Asha",
		RoomNo: "B-204",
		RegNo:  "21CS104",
		Theme:  ThemeLight,
		Role:   "resident",
	}
}

func TestStartWithoutSession(t *testing.T) {
	backend := &fakeBackend{}
	b := New(backend)
	defer b.Close()

	require.NoError(t, b.Start(context.Background()))

	assert.Nil(t, b.Profile())
	assert.False(t, b.Loading())
}

func TestStartRestoresSession(t *testing.T) {
	backend := &fakeBackend{profile: testProfile(), hasSession: true}
	themes := &recordingThemes{}
	b := New(backend, WithThemeApplier(themes))
	defer b.Close()

	require.NoError(t, b.Start(context.Background()))

	profile := b.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "asha@hostel.test", profile.Email)
	assert.False(t, b.Loading())
	assert.Equal(t, []string{ThemeLight}, themes.applied)
}

func TestStartTwice(t *testing.T) {
	backend := &fakeBackend{}
	b := New(backend)
	defer b.Close()

	require.NoError(t, b.Start(context.Background()))
	assert.Error(t, b.Start(context.Background()))
}

func TestLoginHydratesProfile(t *testing.T) {
	backend := &fakeBackend{profile: testProfile()}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))

	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	profile := b.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "Asha", profile.Name)
	assert.False(t, b.Loading())
}

func TestLoginFailureStaysSignedOut(t *testing.T) {
	backend := &fakeBackend{signInErr: errors.New("invalid credentials")}
	notifier := &recordingNotifier{}
	b := New(backend, WithNotifier(notifier))
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))

	err := b.Login(context.Background(), "asha@hostel.test", "wrong")

	assert.Error(t, err)
	assert.Nil(t, b.Profile())
	assert.False(t, b.Loading())
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "invalid credentials")
}

func TestLoginHydrationFailure(t *testing.T) {
	backend := &fakeBackend{fetchErr: errors.New("profile gone")}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))

	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	assert.Nil(t, b.Profile())
	assert.False(t, b.Loading())
}

func TestRegisterPassesMetadata(t *testing.T) {
	backend := &fakeBackend{profile: testProfile()}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))

	phone := "9876543210"
	reg := Registration{
		Name:     "Asha",
		Email:    "asha@hostel.test",
		Password: "secret",
		RoomNo:   "B-204",
		RegNo:    "21CS104",
		Phone:    &phone,
	}
	require.NoError(t, b.Register(context.Background(), reg))

	require.NotNil(t, backend.registered)
	assert.Equal(t, reg, *backend.registered)
	require.NotNil(t, b.Profile())
}

func TestLogoutClearsState(t *testing.T) {
	backend := &fakeBackend{profile: testProfile()}
	themes := &recordingThemes{}
	b := New(backend, WithThemeApplier(themes))
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	require.NoError(t, b.Logout(context.Background()))

	assert.Nil(t, b.Profile())
	assert.False(t, b.Loading())
	assert.Equal(t, 1, themes.resets)
}

func TestLogoutFailureKeepsState(t *testing.T) {
	backend := &fakeBackend{profile: testProfile()}
	notifier := &recordingNotifier{}
	b := New(backend, WithNotifier(notifier))
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	backend.signOutErr = errors.New("server unreachable")
	err := b.Logout(context.Background())

	assert.Error(t, err)
	assert.NotNil(t, b.Profile())
	assert.Len(t, notifier.messages, 1)
}

func TestUpdateProfileSignedOutIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))

	name := "Someone"
	require.NoError(t, b.UpdateProfile(context.Background(), ProfileUpdate{Name: &name}))

	assert.Equal(t, 0, backend.updateCalls)
}

func TestUpdateProfileRejectsUnknownTheme(t *testing.T) {
	backend := &fakeBackend{profile: testProfile()}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	theme := "sepia"
	err := b.UpdateProfile(context.Background(), ProfileUpdate{Theme: &theme})

	assert.Error(t, err)
	assert.Equal(t, 0, backend.updateCalls)
	assert.Equal(t, ThemeLight, b.Profile().Theme)
}

func TestUpdateProfileMergesAfterRemoteWrite(t *testing.T) {
	backend := &fakeBackend{profile: testProfile()}
	themes := &recordingThemes{}
	b := New(backend, WithThemeApplier(themes))
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	name := "Asha R"
	theme := ThemeDark
	require.NoError(t, b.UpdateProfile(context.Background(), ProfileUpdate{Name: &name, Theme: &theme}))

	profile := b.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "Asha R", profile.Name)
	assert.Equal(t, ThemeDark, profile.Theme)
	assert.Equal(t, ThemeDark, themes.applied[len(themes.applied)-1])
}

func TestUpdateProfileRemoteFailureLeavesState(t *testing.T) {
	backend := &fakeBackend{profile: testProfile(), updateErr: errors.New("write failed")}
	notifier := &recordingNotifier{}
	b := New(backend, WithNotifier(notifier))
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	name := "Asha R"
	err := b.UpdateProfile(context.Background(), ProfileUpdate{Name: &name})

	assert.Error(t, err)
	assert.Equal(t, "Asha", b.Profile().Name)
	assert.Len(t, notifier.messages, 1)
}

func TestToggleThemeFlips(t *testing.T) {
	backend := &fakeBackend{profile: testProfile()}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))

	require.NoError(t, b.ToggleTheme(context.Background()))
	assert.Equal(t, ThemeDark, b.Profile().Theme)

	require.NoError(t, b.ToggleTheme(context.Background()))
	assert.Equal(t, ThemeLight, b.Profile().Theme)
}

func TestToggleThemeSignedOutIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))

	require.NoError(t, b.ToggleTheme(context.Background()))
	assert.Equal(t, 0, backend.updateCalls)
}

func TestIsAdmin(t *testing.T) {
	admin := testProfile()
	admin.Role = "admin"
	backend := &fakeBackend{profile: admin}
	b := New(backend)
	defer b.Close()
	require.NoError(t, b.Start(context.Background()))

	assert.False(t, b.IsAdmin())
	require.NoError(t, b.Login(context.Background(), "asha@hostel.test", "secret"))
	assert.True(t, b.IsAdmin())
}
