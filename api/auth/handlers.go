package auth

import (
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// LoginHandler handles POST /api/login
func LoginHandler(svc *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrEmailRequired)
			return
		}
		s, err := svc.Login(req.Email)
		if errors.Is(err, ErrUnknownEmail) {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrUnknownEmail)
			return
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.RespondWithPayload(w, http.StatusOK, "session", s)
	}
}

// LogoutHandler handles POST /api/logout
func LogoutHandler(svc *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(TokenFromRequest(r)); err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		utils.RespondWithFields(w, http.StatusOK, map[string]interface{}{"message": "logout successful"})
	}
}

// MeHandler returns the session attached by the session middleware.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := utils.GetSessionFromCtx(r.Context())
		if s == nil {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		utils.RespondWithPayload(w, http.StatusOK, "session", s)
	}
}

// TokenFromRequest reads "Authorization: Bearer <token>" or X-Session-Token.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	return strings.TrimSpace(r.Header.Get(constants.HeaderSessionToken))
}
