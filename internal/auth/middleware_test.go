package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardFixture struct {
	router       *gin.Engine
	sessionStore *SessionStore
	tokenStore   *TokenStore
	repo         *Repository
	handlerRan   *bool
}

// newGuardFixture mounts RequireSessionOrToken in front of a recording
// handler, the way the menu record routes use it.
func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newTestRepository(t)
	sessionStore := NewSessionStore(repo, 0, false)
	tokenStore := NewTokenStore(repo)
	middleware := NewMiddleware(tokenStore, sessionStore)

	handlerRan := false
	router := gin.New()
	records := router.Group("/records")
	records.Use(middleware.RequireSessionOrToken())
	records.POST("", func(c *gin.Context) {
		handlerRan = true
		c.JSON(http.StatusCreated, gin.H{"created": true})
	})

	return &guardFixture{
		router:       router,
		sessionStore: sessionStore,
		tokenStore:   tokenStore,
		repo:         repo,
		handlerRan:   &handlerRan,
	}
}

func (f *guardFixture) postWithSession(t *testing.T, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/records", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestSessionOrTokenRejectsResidentSession(t *testing.T) {
	f := newGuardFixture(t)

	hash, err := HashPassword("secretsecret")
	require.NoError(t, err)
	resident, err := f.repo.CreateUser("asha@hostel.test", hash, "Asha", "B-204", "21CS104", nil, RoleResident)
	require.NoError(t, err)
	session, err := f.sessionStore.CreateSession(resident.ID)
	require.NoError(t, err)

	w := f.postWithSession(t, session.ID)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *f.handlerRan)
}

func TestSessionOrTokenAdmitsAdminSession(t *testing.T) {
	f := newGuardFixture(t)

	admin := createTestAdmin(t, f.repo)
	session, err := f.sessionStore.CreateSession(admin.ID)
	require.NoError(t, err)

	w := f.postWithSession(t, session.ID)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, *f.handlerRan)
}

func TestSessionOrTokenAdmitsServiceToken(t *testing.T) {
	f := newGuardFixture(t)

	admin := createTestAdmin(t, f.repo)
	token, err := f.tokenStore.CreateToken(admin.ID, "kitchen", nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/records", nil)
	req.Header.Set(HeaderAuthorization, "Bearer "+token.RawToken)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, *f.handlerRan)
}

func TestSessionOrTokenRejectsAnonymous(t *testing.T) {
	f := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/records", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *f.handlerRan)
}
