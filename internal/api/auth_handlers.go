package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"blog-serwer/internal/auth"
	"blog-serwer/internal/database"
	"blog-serwer/internal/models"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const defaultRefreshTTL = 24 * time.Hour

var errInvalidRefreshToken = errors.New("invalid or expired refresh token")

type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"password123"`
}

type LoginRequest struct {
	Login    string `json:"login" example:"alice"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoxLCJ1c2VybmFtZSI6ImFsaWNlIn0...."`
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
}

// @Summary      Registers a new blogger
// @Description  Creates an account. Usernames and email addresses are unique.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registerRequest  body      RegisterRequest  true  "Account details"
// @Success      201              {object}  models.User
// @Failure      400              {string}  string "Invalid request body or field"
// @Failure      409              {string}  string "Username or email already taken"
// @Failure      503              {string}  string "Service Unavailable"
// @Router       /auth/register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.blog.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// @Summary      Logs a user in
// @Description  Authenticates by username or email and returns a short-lived access token and a long-lived refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest   body      LoginRequest  true  "Login Credentials"
// @Success      200            {object}  TokenResponse
// @Failure      400            {string}  string "Invalid request body"
// @Failure      401            {string}  string "Invalid login or password"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.blog.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tokens, err := s.issueTokens(r.Context(), s.store.Queries, user, r)
	if err != nil {
		logger.Errorf("failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// @Summary      Refresh access token
// @Description  Provides a new short-lived access token and a new refresh token in exchange for a valid, non-expired refresh token. Implements refresh token rotation.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refreshTokenRequest   body      RefreshTokenRequest  true  "Refresh Token"
// @Success      200                   {object}  TokenResponse
// @Failure      400                   {string}  string "Invalid request body or missing token"
// @Failure      401                   {string}  string "Invalid or expired refresh token"
// @Failure      500                   {string}  string "Internal Server Error"
// @Router       /auth/refresh [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	var tokens *TokenResponse
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		user, err := q.GetUserByRefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			return err
		}
		if user == nil {
			return errInvalidRefreshToken
		}

		if _, err := q.DeleteSessionByRefreshToken(r.Context(), req.RefreshToken); err != nil {
			return err
		}

		tokens, err = s.issueTokens(r.Context(), q, user, r)
		return err
	})

	if txErr != nil {
		if errors.Is(txErr, errInvalidRefreshToken) {
			http.Error(w, txErr.Error(), http.StatusUnauthorized)
		} else {
			logger.Errorf("refresh token transaction failed: %v", txErr)
			http.Error(w, "Failed to refresh token", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// @Summary      Logs out the current session
// @Description  Revokes the given refresh token. Access tokens already issued stay valid until they expire.
// @Tags         auth
// @Accept       json
// @Param        refreshTokenRequest   body      RefreshTokenRequest  true  "Refresh Token"
// @Success      204                   {null}    nil "No Content"
// @Failure      400                   {string}  string "Invalid request body or missing token"
// @Failure      500                   {string}  string "Internal Server Error"
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	if _, err := s.store.DeleteSessionByRefreshToken(r.Context(), req.RefreshToken); err != nil {
		logger.Errorf("failed to delete session: %v", err)
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) issueTokens(ctx context.Context, q *database.Queries, user *models.User, r *http.Request) (*TokenResponse, error) {
	accessToken, err := auth.GenerateJWT(user, s.config.JWT.Secret, s.config.JWT.AccessTTL)
	if err != nil {
		return nil, err
	}

	generateID, err := nanoid.Standard(40)
	if err != nil {
		return nil, err
	}
	refreshToken := generateID()

	ttl := s.config.JWT.RefreshTTL
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}

	err = q.CreateSession(ctx, database.CreateSessionParams{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(ttl),
	})
	if err != nil {
		return nil, err
	}

	return &TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
