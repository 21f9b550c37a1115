package auth

import (
	"context"
	"net/http"

	"messapi/internal/v0/common"

	"github.com/gin-gonic/gin"
)

const (
	OAuthStateCookieName = "mess_oauth_state"
)

// Handler handles authentication and profile endpoints
type Handler struct {
	repo         *Repository
	oauthConfig  *OAuthConfig
	stateStore   *OAuthStateStore
	sessionStore *SessionStore
	tokenStore   *TokenStore
	roles        *RoleAssigner
}

// NewHandler creates a new auth handler
func NewHandler(
	repo *Repository,
	oauthConfig *OAuthConfig,
	stateStore *OAuthStateStore,
	sessionStore *SessionStore,
	tokenStore *TokenStore,
	roles *RoleAssigner,
) *Handler {
	return &Handler{
		repo:         repo,
		oauthConfig:  oauthConfig,
		stateStore:   stateStore,
		sessionStore: sessionStore,
		tokenStore:   tokenStore,
		roles:        roles,
	}
}

// Register creates a resident account with credentials and profile metadata
// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	existing, err := h.repo.GetUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to check account"}))
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, common.CreateErrorResponse([]string{"an account with this email already exists"}))
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create account"}))
		return
	}

	// Role is decided here, never by the client.
	role := h.roles.AssignRole(req.Email)

	user, err := h.repo.CreateUser(req.Email, hash, req.Name, req.RoomNo, req.RegNo, req.Phone, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create account"}))
		return
	}

	session, err := h.sessionStore.CreateSession(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create session"}))
		return
	}
	h.sessionStore.SetSessionCookie(c, session.ID)

	c.JSON(http.StatusCreated, common.CreateSuccessResponse(gin.H{
		"message": "registered successfully",
		"user":    user,
	}))
}

// Login verifies credentials and opens a session
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	hash, err := h.repo.GetUserCredentials(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to verify credentials"}))
		return
	}
	if hash == nil || !CheckPassword(*hash, req.Password) {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"invalid email or password"}))
		return
	}

	user, err := h.repo.GetUserByEmail(req.Email)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to load account"}))
		return
	}

	if user.Status != StatusActive {
		c.JSON(http.StatusForbidden, common.CreateErrorResponse([]string{"account is " + string(user.Status)}))
		return
	}

	session, err := h.sessionStore.CreateSession(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create session"}))
		return
	}
	h.sessionStore.SetSessionCookie(c, session.ID)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "authenticated successfully",
		"user":    user,
	}))
}

// OAuthLogin initiates the OAuth flow
// GET /auth/login/:provider
func (h *Handler) OAuthLogin(c *gin.Context) {
	provider := Provider(c.Param("provider"))

	if provider != ProviderGoogle {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"unsupported provider"}))
		return
	}

	if !h.oauthConfig.IsProviderConfigured(provider) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"provider not configured"}))
		return
	}

	state, err := h.stateStore.CreateState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth state"}))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		OAuthStateCookieName,
		state,
		int(OAuthStateExpiry.Seconds()),
		"/",
		"",
		h.sessionStore.secureCookie,
		true,
	)

	authURL, err := h.oauthConfig.GetAuthURL(provider, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth URL"}))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// OAuthCallback handles the OAuth callback
// GET /auth/callback/:provider
func (h *Handler) OAuthCallback(c *gin.Context) {
	provider := Provider(c.Param("provider"))

	if provider != ProviderGoogle {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"unsupported provider"}))
		return
	}

	queryState := c.Query("state")
	cookieState, err := c.Cookie(OAuthStateCookieName)
	if err != nil || cookieState == "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"missing OAuth state cookie"}))
		return
	}

	if queryState != cookieState {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"OAuth state mismatch"}))
		return
	}

	valid, err := h.stateStore.ValidateState(queryState)
	if err != nil || !valid {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid or expired OAuth state"}))
		return
	}

	c.SetCookie(OAuthStateCookieName, "", -1, "/", "", h.sessionStore.secureCookie, true)

	if errMsg := c.Query("error"); errMsg != "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"OAuth error: " + errMsg}))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"missing authorization code"}))
		return
	}

	ctx := context.Background()
	token, err := h.oauthConfig.ExchangeCode(ctx, provider, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to exchange code"}))
		return
	}

	userInfo, err := h.oauthConfig.GetUserInfo(ctx, provider, token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to get user info"}))
		return
	}

	user, err := h.findOrCreateUser(userInfo, provider, token.AccessToken, token.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create user"}))
		return
	}

	if user.Status != StatusActive {
		c.JSON(http.StatusForbidden, common.CreateErrorResponse([]string{"account is " + string(user.Status)}))
		return
	}

	session, err := h.sessionStore.CreateSession(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create session"}))
		return
	}

	h.sessionStore.SetSessionCookie(c, session.ID)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "authenticated successfully",
		"user":    user,
	}))
}

func (h *Handler) findOrCreateUser(info *OAuthUserInfo, provider Provider, accessToken, refreshToken string) (*User, error) {
	identity, err := h.repo.GetOAuthIdentity(provider, info.ProviderID)
	if err != nil {
		return nil, err
	}

	if identity != nil {
		err := h.repo.UpdateOAuthIdentityTokens(identity.ID, accessToken, refreshToken)
		if err != nil {
			return nil, err
		}
		return h.repo.GetUserByID(identity.UserID)
	}

	user, err := h.repo.GetUserByEmail(info.Email)
	if err != nil {
		return nil, err
	}

	if user != nil {
		// Link new OAuth identity to existing user
		_, err = h.repo.CreateOAuthIdentity(user.ID, provider, info.ProviderID, accessToken, refreshToken)
		if err != nil {
			return nil, err
		}
		return h.repo.GetUserByID(user.ID)
	}

	// New OAuth account: room and registration numbers are filled in
	// later through a profile update.
	role := h.roles.AssignRole(info.Email)
	user, err = h.repo.CreateUser(info.Email, "", info.DisplayName, "", "", nil, role)
	if err != nil {
		return nil, err
	}

	if info.AvatarURL != "" {
		update := ProfileUpdateRequest{AvatarURL: &info.AvatarURL}
		if err := h.repo.UpdateProfile(user.ID, &update); err != nil {
			return nil, err
		}
	}

	_, err = h.repo.CreateOAuthIdentity(user.ID, provider, info.ProviderID, accessToken, refreshToken)
	if err != nil {
		return nil, err
	}

	return h.repo.GetUserByID(user.ID)
}

// Me returns the current authenticated user with its profile
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"user": user,
	}))
}

// Logout closes the current session
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	sessionID, err := h.sessionStore.GetSessionFromCookie(c)
	if err == nil && sessionID != "" {
		if err := h.sessionStore.DeleteSession(sessionID); err != nil {
			c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to close session"}))
			return
		}
	}

	h.sessionStore.ClearSessionCookie(c)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "logged out successfully",
	}))
}

// UpdateProfile applies a partial profile update for the current user
// PATCH /auth/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	if req.Theme != nil && !req.Theme.Valid() {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"theme must be light or dark"}))
		return
	}

	if err := h.repo.UpdateProfile(user.ID, &req); err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to update profile"}))
		return
	}

	updated, err := h.repo.GetUserByID(user.ID)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to load profile"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"user": updated,
	}))
}

// ListTokens returns all service tokens for the current user
// GET /auth/tokens
func (h *Handler) ListTokens(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	tokens, err := h.tokenStore.ListUserTokens(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list tokens"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"tokens": tokens,
	}))
}

// CreateToken creates a new service token for the current user
// POST /auth/tokens
func (h *Handler) CreateToken(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	var req TokenCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	token, err := h.tokenStore.CreateToken(user.ID, req.Label, req.AllowedIPs, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	c.JSON(http.StatusCreated, common.CreateSuccessResponse(gin.H{
		"token":   token.RawToken,
		"details": token.ServiceToken,
		"message": "Token created. Save this token now - it will not be shown again.",
	}))
}

// RevokeToken revokes a service token owned by the current user
// DELETE /auth/tokens/:id
func (h *Handler) RevokeToken(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	tokenID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid token ID"}))
		return
	}

	if err := h.tokenStore.RevokeToken(tokenID, user.ID); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "Token revoked successfully",
	}))
}

// parseID parses a string ID to int64
func parseID(s string) (int64, error) {
	if s == "" {
		return 0, &parseError{s}
	}
	var id int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, &parseError{s}
		}
		id = id*10 + int64(c-'0')
	}
	return id, nil
}

type parseError struct {
	s string
}

func (e *parseError) Error() string {
	return "Invalid ID: " + e.s
}
