package cases

import (
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"CollectPortal/internal/portal"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// GetCases handles GET /api/cases?search=&status=&page=&limit=
func GetCases(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		pg, err := utils.ExtractPagination(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidPagination)
			return
		}
		q := r.URL.Query()
		page := svc.ListCases(r.Context(), clientID, portal.CaseQuery{
			Search: q.Get("search"),
			Status: q.Get("status"),
			Offset: pg.Offset,
			Limit:  pg.Limit,
		})
		pg.SetPaginationStats(page.Total)
		utils.RespondWithFields(w, http.StatusOK, map[string]interface{}{
			"cases":      page.Cases,
			"pagination": pg,
		})
	}
}

// GetCase handles GET /api/cases/{caseId}. Admins name the owning client
// with ?clientId=.
func GetCase(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		if clientID == "" {
			clientID = strings.TrimSpace(r.URL.Query().Get("clientId"))
			if clientID == "" {
				utils.RespondWithError(w, http.StatusBadRequest, constants.ErrClientIDRequired)
				return
			}
		}
		detail, err := svc.GetCase(r.Context(), clientID, mux.Vars(r)["caseId"])
		if errors.Is(err, portal.ErrCaseNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, constants.ErrCaseNotFound)
			return
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.RespondWithFields(w, http.StatusOK, map[string]interface{}{
			"case":     detail.Case,
			"messages": detail.Messages,
		})
	}
}
