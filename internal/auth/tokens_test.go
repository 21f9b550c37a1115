package auth

import (
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Every pooled connection gets its own :memory: database, so pin
	// the pool to one connection.
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile("../databases/migrations/auth/0001_init.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return NewRepository(db)
}

func createTestAdmin(t *testing.T, repo *Repository) *User {
	t.Helper()

	hash, err := HashPassword("secretsecret")
	require.NoError(t, err)
	user, err := repo.CreateUser("admin.mess@hostel.test", hash, "Mess Admin", "A-101", "STAFF01", nil, RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func TestGenerateTokenFormat(t *testing.T) {
	store := NewTokenStore(nil)

	raw, hash, err := store.GenerateToken()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw, TokenPrefix))
	assert.Len(t, hash, 64)
	assert.Equal(t, hashToken(raw), hash)

	raw2, _, err := store.GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestCreateAndValidateToken(t *testing.T) {
	repo := newTestRepository(t)
	store := NewTokenStore(repo)
	admin := createTestAdmin(t, repo)

	created, err := store.CreateToken(admin.ID, "kitchen publisher", []string{"10.0.0.5"}, nil)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, strings.HasPrefix(created.RawToken, TokenPrefix))
	assert.Equal(t, []string{"10.0.0.5"}, created.AllowedIPs)

	validated, err := store.ValidateToken(created.RawToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, validated.User.ID)
	assert.Equal(t, "kitchen publisher", validated.Token.Label)
	assert.Equal(t, []string{"10.0.0.5"}, validated.AllowedIPs)
}

func TestCreateTokenRequiresLabel(t *testing.T) {
	repo := newTestRepository(t)
	store := NewTokenStore(repo)
	admin := createTestAdmin(t, repo)

	_, err := store.CreateToken(admin.ID, "  ", nil, nil)
	assert.Error(t, err)
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	repo := newTestRepository(t)
	store := NewTokenStore(repo)

	_, err := store.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = store.ValidateToken(TokenPrefix + "unknownunknownunknown")
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	repo := newTestRepository(t)
	store := NewTokenStore(repo)
	admin := createTestAdmin(t, repo)

	expiry := time.Now().Add(-time.Hour)
	created, err := store.CreateToken(admin.ID, "expired", nil, &expiry)
	require.NoError(t, err)

	_, err = store.ValidateToken(created.RawToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestRevokeToken(t *testing.T) {
	repo := newTestRepository(t)
	store := NewTokenStore(repo)
	admin := createTestAdmin(t, repo)

	created, err := store.CreateToken(admin.ID, "to revoke", nil, nil)
	require.NoError(t, err)

	require.NoError(t, store.RevokeToken(created.ID, admin.ID))

	_, err = store.ValidateToken(created.RawToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")

	// Revoking twice fails.
	assert.Error(t, store.RevokeToken(created.ID, admin.ID))
}

func TestAdminRevokeToken(t *testing.T) {
	repo := newTestRepository(t)
	store := NewTokenStore(repo)
	admin := createTestAdmin(t, repo)

	created, err := store.CreateToken(admin.ID, "kitchen", nil, nil)
	require.NoError(t, err)

	require.NoError(t, store.AdminRevokeToken(created.ID))
	assert.Error(t, store.AdminRevokeToken(created.ID))
}

func TestListUserTokens(t *testing.T) {
	repo := newTestRepository(t)
	store := NewTokenStore(repo)
	admin := createTestAdmin(t, repo)

	_, err := store.CreateToken(admin.ID, "first", nil, nil)
	require.NoError(t, err)
	_, err = store.CreateToken(admin.ID, "second", []string{"192.168.1.10"}, nil)
	require.NoError(t, err)

	tokens, err := store.ListUserTokens(admin.ID)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	for _, tok := range tokens {
		assert.Empty(t, tok.TokenHash)
	}
}
