package reports

import (
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"CollectPortal/internal/portal"
	"net/http"
)

// GetOverview handles GET /api/overview
func GetOverview(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		utils.RespondWithPayload(w, http.StatusOK, "overview", svc.Overview(r.Context(), clientID))
	}
}

// GetReports handles GET /api/reports
func GetReports(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		utils.RespondWithPayload(w, http.StatusOK, "reports", svc.Reports(r.Context(), clientID))
	}
}

// GetClients handles GET /api/clients for administrators.
func GetClients(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithPayload(w, http.StatusOK, "clients", svc.ClientIDs(r.Context()))
	}
}
