package middlewares

import (
	"CollectPortal/api/auth"
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"net/http"
)

// RequireSession rejects requests without a live session token and stores
// the session in the request context.
func RequireSession(svc *auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
				return
			}
			s, ok := svc.Validate(token)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := utils.GetSessionFromCtx(r.Context())
		if s == nil || !s.IsAdmin() {
			utils.RespondWithError(w, http.StatusForbidden, constants.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
