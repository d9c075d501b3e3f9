package cases

import (
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"CollectPortal/internal/portal"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ExportCases handles GET /api/cases/export?format=csv|xlsx
func ExportCases(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := utils.ClientScopeFromCtx(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
		if format == "" {
			format = "csv"
		}

		var buf bytes.Buffer
		err := svc.ExportCases(r.Context(), clientID, format, &buf)
		if errors.Is(err, portal.ErrUnsupportedFormat) {
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrUnsupportedFormat)
			return
		}
		if err != nil {
			utils.LogError("export cases for %q: %v", clientID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, constants.ErrExportFailed)
			return
		}

		contentType := constants.ContentTypeCSV
		if format == "xlsx" {
			contentType = constants.ContentTypeXLSX
		}
		WriteAttachment(w, contentType, fmt.Sprintf("cases_%s.%s", time.Now().Format(constants.ExportStamp), format), buf.Bytes())
	}
}

// WriteAttachment sends a generated file as a download.
func WriteAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set(constants.ContentTypeText, contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		utils.LogError("write %s: %v", filename, err)
	}
}
