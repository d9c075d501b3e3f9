package messages

import (
	"CollectPortal/api/cases"
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"CollectPortal/internal/models"
	"CollectPortal/internal/portal"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// GetMessages handles GET /api/messages?author=client|collector|all
func GetMessages(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		board := svc.ListMessages(r.Context(), clientID, r.URL.Query().Get("author"))
		utils.RespondWithPayload(w, http.StatusOK, "messages", board)
	}
}

// SendMessage handles POST /api/cases/{caseId}/messages. Client users post
// as "Client". Administrators post as "Collector" and name the owning client
// in "clientId" (body or query).
func SendMessage(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := utils.GetSessionFromCtx(r.Context())
		if s == nil {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		var req struct {
			Body     string `json:"body"`
			ClientID string `json:"clientId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}

		clientID, author := s.ClientID, models.AuthorClient
		if s.IsAdmin() {
			author = models.AuthorCollector
			clientID = strings.TrimSpace(req.ClientID)
			if clientID == "" {
				clientID = strings.TrimSpace(r.URL.Query().Get("clientId"))
			}
			if clientID == "" {
				utils.RespondWithError(w, http.StatusBadRequest, constants.ErrClientIDRequired)
				return
			}
		}
		msg, err := svc.SendMessage(r.Context(), clientID, mux.Vars(r)["caseId"], author, req.Body)
		switch {
		case errors.Is(err, portal.ErrEmptyMessage):
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrEmptyMessage)
			return
		case errors.Is(err, portal.ErrCaseNotFound):
			utils.RespondWithError(w, http.StatusNotFound, constants.ErrCaseNotFound)
			return
		case err != nil:
			utils.LogError("send message: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, constants.ErrSendFailed)
			return
		}
		utils.RespondWithPayload(w, http.StatusCreated, "message", msg)
	}
}

// ExportMessages handles GET /api/messages/export
func ExportMessages(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		var buf bytes.Buffer
		if err := svc.ExportMessages(r.Context(), clientID, &buf); err != nil {
			utils.LogError("export messages: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, constants.ErrExportFailed)
			return
		}
		cases.WriteAttachment(w, constants.ContentTypeCSV, fmt.Sprintf("messages_%s.csv", time.Now().Format(constants.ExportStamp)), buf.Bytes())
	}
}
