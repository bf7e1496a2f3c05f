package api

import (
	"encoding/json"
	"errors"
	"katalog-miejsc/internal/auth"
	"katalog-miejsc/internal/database"
	"katalog-miejsc/internal/models"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string `json:"email" example:"jan.kowalski@example.com"`
	Password    string `json:"password" example:"password123"`
	DisplayName string `json:"display_name,omitempty" example:"Jan Kowalski"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"jan.kowalski@example.com"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...."`
	SessionID    uuid.UUID `json:"session_id" example:"a1b2c3d4-e5f6-7890-1234-567890abcdef"`
}

// issueTokenPair is the single entry point for every login path. It creates
// the session row first and only then signs tokens bound to it, so the two
// credential paths cannot diverge in session semantics and no token can
// outlive a session that was never committed.
func (s *Server) issueTokenPair(r *http.Request, user *models.User) (*TokenResponse, error) {
	sessionID := uuid.New()
	browser, os := auth.ParseUserAgent(r.UserAgent())

	sessionParams := database.CreateSessionParams{
		ID:        sessionID,
		UserID:    user.ID,
		ClientIP:  auth.ClientIP(r),
		Browser:   browser,
		OS:        os,
		ExpiresAt: time.Now().Add(s.tokens.RefreshTTL()),
	}

	if err := s.store.CreateSession(r.Context(), sessionParams); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.Issue(user.ID, sessionID, auth.TokenKindAccess)
	if err != nil {
		s.discardSession(r, sessionID, user.ID)
		return nil, err
	}

	refreshToken, err := s.tokens.Issue(user.ID, sessionID, auth.TokenKindRefresh)
	if err != nil {
		s.discardSession(r, sessionID, user.ID)
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

// discardSession rolls back a session whose tokens could not be signed. If
// the cleanup itself fails the orphaned row stays until the reaper; log it so
// the orphan is traceable.
func (s *Server) discardSession(r *http.Request, sessionID uuid.UUID, userID int64) {
	if err := s.store.DeleteSessionByID(r.Context(), sessionID, userID); err != nil {
		log.Printf("ERROR: Failed to clean up session %s after signing failure: %v", sessionID, err)
	}
}

// @Summary      Register a new account
// @Description  Creates a local account with a hashed password and a pending email verification code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registerRequest   body      RegisterRequest  true  "Registration data"
// @Success      201               {object}  models.User
// @Failure      400               {string}  string "Invalid request body"
// @Failure      409               {string}  string "Email already registered"
// @Failure      500               {string}  string "Internal Server Error"
// @Router       /auth/register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "A valid email is required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	params := database.CreateUserParams{
		Email:            req.Email,
		PasswordHash:     passwordHash,
		Role:             models.RoleUser,
		Verified:         false,
		VerificationCode: &code,
	}
	if req.DisplayName != "" {
		params.DisplayName = &req.DisplayName
	}

	user, err := s.store.CreateUser(r.Context(), params)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type VerifyEmailRequest struct {
	Code string `json:"code" example:"483920"`
}

// @Summary      Confirm an email address
// @Description  Consumes the verification code generated at registration and marks the account as verified.
// @Tags         auth
// @Accept       json
// @Param        verifyEmailRequest   body   VerifyEmailRequest  true  "Verification code"
// @Success      204  {null}    nil "No Content"
// @Failure      400  {string}  string "Invalid or unknown verification code"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/verify [post]
func (s *Server) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ok, err := s.store.VerifyUserByCode(r.Context(), req.Code)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Invalid or unknown verification code", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Logs a user in
// @Description  Authenticates with email and password, creates a session and returns an access/refresh token pair bound to it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest   body      LoginRequest  true  "Login Credentials"
// @Success      200            {object}  TokenResponse
// @Failure      400            {string}  string "Invalid request body"
// @Failure      401            {string}  string "Invalid email or password"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	tokens, err := s.issueTokenPair(r, user)
	if err != nil {
		log.Printf("ERROR: Failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokens)
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" example:"eyJhbGciOiJSUzI1NiIsImtpZCI6Ij...."`
}

// @Summary      Logs a user in with a Google ID token
// @Description  Validates the Google assertion, provisions or refreshes the local account and returns the same token pair as a password login.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        googleLoginRequest   body      GoogleLoginRequest  true  "Google ID token"
// @Success      200                  {object}  TokenResponse
// @Failure      400                  {string}  string "Invalid request body"
// @Failure      401                  {string}  string "Invalid Google token"
// @Failure      500                  {string}  string "Internal Server Error"
// @Router       /auth/google [post]
func (s *Server) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := s.google.Verify(r.Context(), req.IDToken)
	if err != nil {
		http.Error(w, "Invalid Google token", http.StatusUnauthorized)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), claims.Email)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	displayName := strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)

	if user == nil {
		// Accounts provisioned through Google never use this password; it
		// only satisfies the NOT NULL column.
		randomPassword, err := auth.GenerateRandomPassword()
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		passwordHash, err := auth.HashPassword(randomPassword)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		params := database.CreateUserParams{
			Email:        claims.Email,
			PasswordHash: passwordHash,
			Role:         models.RoleUser,
			Verified:     true,
		}
		if displayName != "" {
			params.DisplayName = &displayName
		}
		if claims.Picture != "" {
			params.Picture = &claims.Picture
		}

		user, err = s.store.CreateUser(r.Context(), params)
		if err != nil {
			log.Printf("ERROR: Failed to provision Google user %s: %v", claims.Email, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	} else {
		if err := s.store.UpdateUserFromProvider(r.Context(), user.ID, displayName, claims.Picture); err != nil {
			log.Printf("ERROR: Failed to refresh profile for user %d: %v", user.ID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	tokens, err := s.issueTokenPair(r, user)
	if err != nil {
		log.Printf("ERROR: Failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokens)
}

type RefreshTokenRequest struct {
	SessionID    uuid.UUID `json:"session_id" example:"a1b2c3d4-e5f6-7890-1234-567890abcdef"`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...."`
}

var errSessionRevoked = errors.New("session revoked or expired")

// @Summary      Refresh the token pair
// @Description  Rotates the session: the presented refresh token and session are invalidated and a fresh pair bound to a successor session is returned.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refreshTokenRequest   body      RefreshTokenRequest  true  "Session ID and refresh token"
// @Success      200                   {object}  TokenResponse
// @Failure      400                   {string}  string "Invalid request body"
// @Failure      401                   {string}  string "Invalid or expired refresh token"
// @Failure      500                   {string}  string "Internal Server Error"
// @Router       /auth/refresh [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" || req.SessionID == uuid.Nil {
		http.Error(w, "Session ID and refresh token are required", http.StatusBadRequest)
		return
	}

	claims, err := s.tokens.Verify(req.RefreshToken, auth.TokenKindRefresh)
	if err != nil || claims.SessionID != req.SessionID {
		http.Error(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	browser, os := auth.ParseUserAgent(r.UserAgent())
	clientIP := auth.ClientIP(r)

	var resp *TokenResponse

	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		user, err := q.GetUserBySessionID(r.Context(), req.SessionID)
		if err != nil {
			return err
		}
		if user == nil {
			return errSessionRevoked
		}

		claimed, err := q.ClaimSessionForRotation(r.Context(), req.SessionID, user.ID)
		if err != nil {
			return err
		}
		if !claimed {
			// Lost a race against a concurrent refresh or logout.
			return errSessionRevoked
		}

		newSessionID := uuid.New()
		sessionParams := database.CreateSessionParams{
			ID:        newSessionID,
			UserID:    user.ID,
			ClientIP:  clientIP,
			Browser:   browser,
			OS:        os,
			ExpiresAt: time.Now().Add(s.tokens.RefreshTTL()),
		}
		if err := q.CreateSession(r.Context(), sessionParams); err != nil {
			return err
		}

		accessToken, err := s.tokens.Issue(user.ID, newSessionID, auth.TokenKindAccess)
		if err != nil {
			return err
		}
		refreshToken, err := s.tokens.Issue(user.ID, newSessionID, auth.TokenKindRefresh)
		if err != nil {
			return err
		}

		resp = &TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			SessionID:    newSessionID,
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, errSessionRevoked) {
			http.Error(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		} else {
			log.Printf("ERROR: Refresh token transaction failed: %v", txErr)
			http.Error(w, "Failed to refresh token", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// @Summary      Log out
// @Description  Deletes the session behind the presented access token. The token pair stops verifying immediately.
// @Tags         auth
// @Security     BearerAuth
// @Success      204  {null}    nil "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	info := GetAuthFromContext(r.Context())

	if err := s.store.DeleteSessionByID(r.Context(), info.SessionID, info.User.ID); err != nil {
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
