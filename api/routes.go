package api

import (
	"CollectPortal/api/auth"
	"CollectPortal/api/cases"
	"CollectPortal/api/messages"
	"CollectPortal/api/middlewares"
	"CollectPortal/api/notifications"
	"CollectPortal/api/reports"
	"CollectPortal/api/utils"
	"CollectPortal/internal/notification"
	"CollectPortal/internal/portal"
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(authSvc *auth.AuthService, svc *portal.Service, hub *notification.NotificationService) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.HandleFunc("/api/health", HealthHandler(authSvc)).Methods(http.MethodGet)
	router.HandleFunc("/api/login", auth.LoginHandler(authSvc)).Methods(http.MethodPost)
	router.HandleFunc("/api/logout", auth.LogoutHandler(authSvc)).Methods(http.MethodPost)

	secured := router.PathPrefix("/api").Subrouter()
	secured.Use(middlewares.RequireSession(authSvc))
	secured.HandleFunc("/me", auth.MeHandler()).Methods(http.MethodGet)

	// literal paths before {caseId}
	secured.HandleFunc("/cases", cases.GetCases(svc)).Methods(http.MethodGet)
	secured.HandleFunc("/cases/import", cases.UploadCases(svc)).Methods(http.MethodPost)
	secured.HandleFunc("/cases/export", cases.ExportCases(svc)).Methods(http.MethodGet)
	secured.HandleFunc("/cases/{caseId}", cases.GetCase(svc)).Methods(http.MethodGet)
	secured.HandleFunc("/cases/{caseId}/messages", messages.SendMessage(svc)).Methods(http.MethodPost)

	secured.HandleFunc("/messages", messages.GetMessages(svc)).Methods(http.MethodGet)
	secured.HandleFunc("/messages/export", messages.ExportMessages(svc)).Methods(http.MethodGet)

	secured.HandleFunc("/overview", reports.GetOverview(svc)).Methods(http.MethodGet)
	secured.HandleFunc("/reports", reports.GetReports(svc)).Methods(http.MethodGet)
	secured.Handle("/clients", middlewares.RequireAdmin(reports.GetClients(svc))).Methods(http.MethodGet)

	secured.HandleFunc("/notifications", notifications.GetNotifications(hub)).Methods(http.MethodGet)

	return router
}

func HealthHandler(authSvc *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithFields(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"sessions": authSvc.ActiveSessions(),
		})
	}
}
