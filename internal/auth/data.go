package auth

import (
	"database/sql"
)

// Repository provides access to auth-related database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// EnableWAL enables Write-Ahead Logging mode for better concurrent performance
func (r *Repository) EnableWAL() error {
	_, err := r.db.Exec("PRAGMA journal_mode=WAL")
	return err
}

// --- User Operations ---

const userColumns = `id, email, name, room_no, reg_no, phone, avatar_url, theme, role, status, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	var phone, avatar sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.RoomNo, &u.RegNo, &phone, &avatar, &u.Theme, &u.Role, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Phone = ScanNullableString(phone)
	u.AvatarURL = ScanNullableString(avatar)
	return &u, nil
}

// GetUserByID returns a user by ID
func (r *Repository) GetUserByID(id int64) (*User, error) {
	return scanUser(r.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE id = ?
	`, id))
}

// GetUserByEmail returns a user by email
func (r *Repository) GetUserByEmail(email string) (*User, error) {
	return scanUser(r.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE email = ?
	`, email))
}

// GetUserCredentials returns the stored password hash for an email.
// Accounts created through OAuth have no hash and return nil.
func (r *Repository) GetUserCredentials(email string) (*string, error) {
	var hash sql.NullString
	err := r.db.QueryRow(`
		SELECT password_hash FROM users WHERE email = ?
	`, email).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ScanNullableString(hash), nil
}

// GetAllUsers returns all users with pagination
func (r *Repository) GetAllUsers(limit, offset int) ([]User, error) {
	rows, err := r.db.Query(`
		SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var phone, avatar sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.RoomNo, &u.RegNo, &phone, &avatar, &u.Theme, &u.Role, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Phone = ScanNullableString(phone)
		u.AvatarURL = ScanNullableString(avatar)
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser creates a new user with its mess profile fields
func (r *Repository) CreateUser(email, passwordHash, name, roomNo, regNo string, phone *string, role Role) (*User, error) {
	var hash interface{}
	if passwordHash != "" {
		hash = passwordHash
	}
	result, err := r.db.Exec(`
		INSERT INTO users (email, password_hash, name, room_no, reg_no, phone, theme, role)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, email, hash, name, roomNo, regNo, phone, ThemeLight, role)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()
	return r.GetUserByID(id)
}

// UpdateProfile applies a partial profile update. Nil fields are left untouched.
func (r *Repository) UpdateProfile(id int64, req *ProfileUpdateRequest) error {
	if req.Name != nil {
		if _, err := r.db.Exec("UPDATE users SET name = ? WHERE id = ?", *req.Name, id); err != nil {
			return err
		}
	}
	if req.Phone != nil {
		if _, err := r.db.Exec("UPDATE users SET phone = ? WHERE id = ?", *req.Phone, id); err != nil {
			return err
		}
	}
	if req.AvatarURL != nil {
		if _, err := r.db.Exec("UPDATE users SET avatar_url = ? WHERE id = ?", *req.AvatarURL, id); err != nil {
			return err
		}
	}
	if req.Theme != nil {
		if _, err := r.db.Exec("UPDATE users SET theme = ? WHERE id = ?", *req.Theme, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateUser updates administrative user fields
func (r *Repository) UpdateUser(id int64, role *Role, status *Status, roomNo *string) error {
	if role != nil {
		if _, err := r.db.Exec("UPDATE users SET role = ? WHERE id = ?", *role, id); err != nil {
			return err
		}
	}
	if status != nil {
		if _, err := r.db.Exec("UPDATE users SET status = ? WHERE id = ?", *status, id); err != nil {
			return err
		}
	}
	if roomNo != nil {
		if _, err := r.db.Exec("UPDATE users SET room_no = ? WHERE id = ?", *roomNo, id); err != nil {
			return err
		}
	}
	return nil
}

// --- OAuth Identity Operations ---

// GetOAuthIdentity returns an OAuth identity by provider and provider ID
func (r *Repository) GetOAuthIdentity(provider Provider, providerID string) (*OAuthIdentity, error) {
	var o OAuthIdentity
	var accessToken, refreshToken sql.NullString
	err := r.db.QueryRow(`
		SELECT id, user_id, provider, provider_id, access_token, refresh_token, created_at
		FROM oauth_identities
		WHERE provider = ? AND provider_id = ?
	`, provider, providerID).Scan(&o.ID, &o.UserID, &o.Provider, &o.ProviderID, &accessToken, &refreshToken, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.AccessToken = ScanNullableString(accessToken)
	o.RefreshToken = ScanNullableString(refreshToken)
	return &o, nil
}

// CreateOAuthIdentity creates a new OAuth identity
func (r *Repository) CreateOAuthIdentity(userID int64, provider Provider, providerID, accessToken, refreshToken string) (*OAuthIdentity, error) {
	result, err := r.db.Exec(`
		INSERT INTO oauth_identities (user_id, provider, provider_id, access_token, refresh_token)
		VALUES (?, ?, ?, ?, ?)
	`, userID, provider, providerID, accessToken, refreshToken)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()

	var o OAuthIdentity
	var at, rt sql.NullString
	err = r.db.QueryRow(`
		SELECT id, user_id, provider, provider_id, access_token, refresh_token, created_at
		FROM oauth_identities WHERE id = ?
	`, id).Scan(&o.ID, &o.UserID, &o.Provider, &o.ProviderID, &at, &rt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.AccessToken = ScanNullableString(at)
	o.RefreshToken = ScanNullableString(rt)
	return &o, nil
}

// UpdateOAuthIdentityTokens updates the tokens for an OAuth identity
func (r *Repository) UpdateOAuthIdentityTokens(id int64, accessToken, refreshToken string) error {
	_, err := r.db.Exec(`
		UPDATE oauth_identities SET access_token = ?, refresh_token = ? WHERE id = ?
	`, accessToken, refreshToken, id)
	return err
}
