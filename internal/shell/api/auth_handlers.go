package api

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shorepound/TheSandwich/internal/core/auth"
	"github.com/shorepound/TheSandwich/internal/core/password"
	"github.com/shorepound/TheSandwich/internal/shell/store"
)

// =============================================================================
// Registration
// =============================================================================

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == nil || req.Password == nil {
		h.writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	addr := strings.TrimSpace(*req.Email)
	if addr == "" {
		h.writeError(w, http.StatusBadRequest, "email required")
		return
	}
	if *req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "password required")
		return
	}

	hash, err := password.Hash(*req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		h.writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	if _, err := h.store.CreateUser(r.Context(), addr, hash); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			h.logger.Info("registration attempt for existing email", "email", addr)
			h.writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		h.writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	// Welcome mail is best effort: a broken mail server must never fail a
	// registration that already committed.
	if err := h.email.SendWelcome(r.Context(), addr); err != nil {
		h.logger.Warn("failed to send welcome email", "email", addr, "error", err)
	}

	h.writeJSON(w, http.StatusOK, RegisterResponse{Success: true})
}

func (h *Handler) handleEmailExists(w http.ResponseWriter, r *http.Request) {
	addr := strings.TrimSpace(r.URL.Query().Get("email"))
	if addr == "" {
		h.writeError(w, http.StatusBadRequest, "email required")
		return
	}

	exists, err := h.store.EmailExists(r.Context(), addr)
	if err != nil {
		h.logger.Error("failed to check email", "error", err)
		h.writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, ExistsResponse{Exists: exists})
}

// =============================================================================
// Login
// =============================================================================

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == nil || req.Password == nil {
		h.writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.TrimSpace(*req.Email))
	if err != nil {
		if isNotFound(err) {
			// Don't reveal whether the account exists.
			h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("failed to load user", "error", err)
		h.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if !password.Verify(*req.Password, user.PasswordHash) {
		h.logger.Warn("login failed", "user_id", user.ID)
		h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Accounts with an enrolled TOTP secret get a short-lived challenge
	// instead of a session; the session is issued by /auth/mfa/verify.
	if user.MFASecret != nil && *user.MFASecret != "" {
		challenge := uuid.NewString()
		h.mfa.put(challenge, user.ID)
		h.writeJSON(w, http.StatusOK, LoginResponse{RequiresMFA: true, MFAToken: challenge})
		return
	}

	token, err := h.issueSession(r, user.ID)
	if err != nil {
		h.logger.Error("failed to create session", "user_id", user.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *Handler) handleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	var req MFAVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MFAToken == "" || req.Code == "" {
		h.writeError(w, http.StatusBadRequest, "mfaToken and code required")
		return
	}

	userID, ok := h.mfa.take(req.MFAToken)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "invalid or expired challenge")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load user", "user_id", userID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}
	if user.MFASecret == nil || !auth.VerifyTOTP(*user.MFASecret, req.Code, time.Now()) {
		h.writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	token, err := h.issueSession(r, user.ID)
	if err != nil {
		h.logger.Error("failed to create session", "user_id", user.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// handleEnrollMFA generates and stores a fresh TOTP secret for the
// authenticated user. Enrolling again replaces the previous secret.
func (h *Handler) handleEnrollMFA(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		h.logger.Error("failed to generate MFA secret", "error", err)
		h.writeError(w, http.StatusInternalServerError, "enrollment failed")
		return
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)

	if err := h.store.SetMFASecret(r.Context(), caller.UserID, &secret); err != nil {
		h.logger.Error("failed to store MFA secret", "user_id", caller.UserID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "enrollment failed")
		return
	}

	h.logger.Info("MFA enrolled", "user_id", caller.UserID)
	h.writeJSON(w, http.StatusOK, MFAEnrollResponse{Secret: secret})
}

// issueSession creates an opaque random bearer token backed by a session row.
func (h *Handler) issueSession(r *http.Request, userID int64) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	now := time.Now()
	err := h.store.CreateSession(r.Context(), &store.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// =============================================================================
// MFA Challenges
// =============================================================================

const mfaChallengeTTL = 5 * time.Minute

// mfaChallenges holds pending login challenges in memory. Losing them on
// restart only forces the user to log in again.
type mfaChallenges struct {
	mu      sync.Mutex
	pending map[string]mfaChallenge
}

type mfaChallenge struct {
	userID  int64
	expires time.Time
}

func newMFAChallenges() *mfaChallenges {
	return &mfaChallenges{pending: make(map[string]mfaChallenge)}
}

func (c *mfaChallenges) put(token string, userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for t, ch := range c.pending {
		if ch.expires.Before(time.Now()) {
			delete(c.pending, t)
		}
	}
	c.pending[token] = mfaChallenge{userID: userID, expires: time.Now().Add(mfaChallengeTTL)}
}

// take consumes a challenge; each challenge is single use.
func (c *mfaChallenges) take(token string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.pending[token]
	if !ok {
		return 0, false
	}
	delete(c.pending, token)
	if ch.expires.Before(time.Now()) {
		return 0, false
	}
	return ch.userID, true
}
