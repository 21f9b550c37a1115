package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

const (
	// TokenPrefix is the prefix for all generated service tokens
	TokenPrefix = "mess_"
)

// TokenStore manages service token operations. Service tokens let the
// kitchen automation publish menu records without a browser session.
type TokenStore struct {
	repo *Repository
}

// NewTokenStore creates a new token store
func NewTokenStore(repo *Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// GenerateToken creates a new random token with the mess_ prefix
// Format: mess_ + Base58(SHA256(random_bytes))
func (s *TokenStore) GenerateToken() (rawToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", err
	}

	hash := sha256.Sum256(randomBytes)
	encoded := base58.Encode(hash[:])

	rawToken = TokenPrefix + encoded
	tokenHash = hashToken(rawToken)

	return rawToken, tokenHash, nil
}

// hashToken creates a SHA256 hash of a token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CreateToken creates a service token owned by an admin user.
func (s *TokenStore) CreateToken(userID int64, label string, allowedIPs []string, expiresAt *time.Time) (*ServiceTokenWithRaw, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("token label is required")
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	canonicalIPs, err := CanonicalizeIPs(allowedIPs)
	if err != nil {
		return nil, err
	}

	rawToken, tokenHash, err := s.GenerateToken()
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO service_tokens (user_id, token_hash, label, expires_at)
		VALUES (?, ?, ?, ?)
	`, userID, tokenHash, label, expiresAt)
	if err != nil {
		return nil, err
	}

	tokenID, _ := result.LastInsertId()

	for _, ip := range canonicalIPs {
		if _, err := tx.Exec(`
			INSERT INTO token_allowed_ips (token_id, ip_address) VALUES (?, ?)
		`, tokenID, ip); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &ServiceTokenWithRaw{
		ServiceToken: ServiceToken{
			ID:         tokenID,
			UserID:     userID,
			Label:      label,
			ExpiresAt:  expiresAt,
			CreatedAt:  time.Now(),
			AllowedIPs: canonicalIPs,
		},
		RawToken: rawToken,
	}, nil
}

// ValidateToken validates a raw token and returns the token with user info
func (s *TokenStore) ValidateToken(rawToken string) (*ValidatedToken, error) {
	if !strings.HasPrefix(rawToken, TokenPrefix) {
		return nil, fmt.Errorf("invalid token format")
	}

	tokenHash := hashToken(rawToken)

	var t ServiceToken
	var expiresAt, revokedAt sql.NullTime
	err := s.repo.db.QueryRow(`
		SELECT id, user_id, token_hash, label, expires_at, revoked_at, created_at
		FROM service_tokens WHERE token_hash = ?
	`, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.Label, &expiresAt, &revokedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invalid token")
	}
	if err != nil {
		return nil, err
	}

	t.ExpiresAt = ScanNullableTime(expiresAt)
	t.RevokedAt = ScanNullableTime(revokedAt)

	if t.RevokedAt != nil {
		return nil, fmt.Errorf("token has been revoked")
	}
	if t.ExpiresAt != nil && t.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("token has expired")
	}

	user, err := s.repo.GetUserByID(t.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	if user.Status != StatusActive {
		return nil, fmt.Errorf("user account is %s", user.Status)
	}

	allowedIPs, err := s.getTokenAllowedIPs(t.ID)
	if err != nil {
		return nil, err
	}

	return &ValidatedToken{
		Token:      &t,
		User:       user,
		AllowedIPs: allowedIPs,
	}, nil
}

func (s *TokenStore) getTokenAllowedIPs(tokenID int64) ([]string, error) {
	rows, err := s.repo.db.Query(`
		SELECT ip_address FROM token_allowed_ips WHERE token_id = ?
	`, tokenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, err
		}
		ips = append(ips, ip)
	}
	return ips, rows.Err()
}

// ListUserTokens returns all tokens for a user (without raw values)
func (s *TokenStore) ListUserTokens(userID int64) ([]ServiceToken, error) {
	rows, err := s.repo.db.Query(`
		SELECT id, user_id, label, expires_at, revoked_at, created_at
		FROM service_tokens WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []ServiceToken
	for rows.Next() {
		var t ServiceToken
		var expiresAt, revokedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Label, &expiresAt, &revokedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ExpiresAt = ScanNullableTime(expiresAt)
		t.RevokedAt = ScanNullableTime(revokedAt)

		t.AllowedIPs, err = s.getTokenAllowedIPs(t.ID)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// AdminRevokeToken revokes any token (admin use)
func (s *TokenStore) AdminRevokeToken(tokenID int64) error {
	result, err := s.repo.db.Exec(`
		UPDATE service_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL
	`, time.Now(), tokenID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("token not found or already revoked")
	}
	return nil
}

// RevokeToken revokes a token owned by a user
func (s *TokenStore) RevokeToken(tokenID int64, userID int64) error {
	result, err := s.repo.db.Exec(`
		UPDATE service_tokens SET revoked_at = ?
		WHERE id = ? AND user_id = ? AND revoked_at IS NULL
	`, time.Now(), tokenID, userID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("token not found or already revoked")
	}
	return nil
}
