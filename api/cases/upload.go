package cases

import (
	"CollectPortal/api/constants"
	"CollectPortal/api/utils"
	"CollectPortal/internal/caseimport"
	"CollectPortal/internal/config"
	"CollectPortal/internal/portal"
	"errors"
	"io"
	"net/http"
	"strings"
)

// UploadCases handles POST /api/cases/import as multipart/form-data with the
// spreadsheet in "file". Admins must name the target client in "clientId".
func UploadCases(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, ok := utils.ClientScopeFromCtx(ctx)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
		if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.RespondWithError(w, http.StatusRequestEntityTooLarge, constants.ErrFileTooLarge)
				return
			}
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}
		if clientID == "" {
			clientID = strings.TrimSpace(r.FormValue("clientId"))
			if clientID == "" {
				utils.RespondWithError(w, http.StatusBadRequest, constants.ErrClientIDRequired)
				return
			}
		}

		file, header, err := r.FormFile(constants.FormFieldFile)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}

		summary, err := svc.ImportFile(ctx, clientID, header.Filename, data)
		switch {
		case errors.Is(err, caseimport.ErrUnsupportedFileType):
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrUnsupportedFileType)
			return
		case errors.Is(err, caseimport.ErrEmptyFile):
			utils.RespondWithError(w, http.StatusBadRequest, constants.ErrEmptyFile)
			return
		case err != nil:
			utils.LogError("import %s for %s: %v", header.Filename, clientID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, constants.ErrImportFailed)
			return
		}
		utils.LogInfo("import %s for %s: %d imported, %d skipped", header.Filename, clientID, summary.Imported, summary.Skipped)
		utils.RespondWithPayload(w, http.StatusOK, "summary", summary)
	}
}
