package notifications

import (
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"CollectPortal/internal/notification"
	"net/http"
)

// GetNotifications handles GET /api/notifications
func GetNotifications(hub *notification.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		utils.RespondWithPayload(w, http.StatusOK, "notifications", hub.Recent(clientID))
	}
}
