package httpx

import (
	"errors"
	"net/http"

	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/service"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc *service.AuthService
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Verify handles GET /auth/verify. It reports whether the presented token is
// still good and returns the current user when it is.
func (h *AuthHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}

	user, err := h.Svc.VerifyToken(r.Context(), token)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"valid": true, "user": user})
}

// Logout handles POST /auth/logout. The middleware guarantees a token is
// present.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	if err := h.Svc.Logout(r.Context(), token); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Profile handles GET /auth/profile.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	fresh, err := h.Svc.Profile(r.Context(), user.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, fresh)
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	var req struct {
		Email     *string `json:"email,omitempty"`
		FirstName *string `json:"first_name,omitempty"`
		LastName  *string `json:"last_name,omitempty"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Svc.UpdateProfile(r.Context(), user.ID, data.UpdateProfileParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())

	var req changePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
