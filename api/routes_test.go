package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CollectPortal/api/auth"
	"CollectPortal/internal/notification"
	"CollectPortal/internal/portal"
	"CollectPortal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadCSV = `Case ID,Debtor Name,Principal Amount,Interest,Amount Collected,Status
C-100,Jane Roe,1000,100,275,Open
C-101,John Doe,400,0,400,Paid
,Nobody,1,1,1,Open
`

type testEnv struct {
	router http.Handler
	auth   *auth.AuthService
	hub    *notification.NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	authSvc := auth.NewAuthService(nil, time.Hour)
	hub := notification.NewNotificationService(0)
	svc := portal.NewService(store.NewRecordStore(store.NewMemoryKV()), nil)
	svc.SetNotifier(hub)
	return &testEnv{router: NewRouter(authSvc, svc, hub), auth: authSvc, hub: hub}
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/login", "", strings.NewReader(`{"email":"`+email+`"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Success bool `json:"success"`
		Session struct {
			Token string `json:"token"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Session.Token)
	return resp.Session.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body *strings.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, token, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return e.do(t, http.MethodPost, "/api/cases/import", token, strings.NewReader(buf.String()), mw.FormDataContentType())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", "", strings.NewReader(`{"email":"nobody@example.com"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = env.do(t, http.MethodPost, "/api/login", "", strings.NewReader(`{"email":""}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := env.login(t, "Layla@Example.com")
	rec = env.do(t, http.MethodGet, "/api/me", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	sess := decode(t, rec)["session"].(map[string]interface{})
	assert.Equal(t, "client-001", sess["clientId"])

	rec = env.do(t, http.MethodPost, "/api/logout", token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/me", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecuredRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/cases", "/api/messages", "/api/overview", "/api/reports", "/api/cases/export"} {
		rec := env.do(t, http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		rec = env.do(t, http.MethodGet, path, "not-a-token", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestUploadListAndDetail(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "layla@example.com")

	rec := env.upload(t, token, "cases.csv", uploadCSV, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode(t, rec)["summary"].(map[string]interface{})
	assert.EqualValues(t, 2, summary["imported"])
	assert.EqualValues(t, 1, summary["skipped"])

	rec = env.do(t, http.MethodGet, "/api/cases?search=jane&limit=5", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	list := body["cases"].([]interface{})
	require.Len(t, list, 1)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "C-100", first["caseId"])
	assert.Equal(t, "1100", first["totalAmountDue"])
	assert.Equal(t, "825", first["balanceAmount"])
	assert.Equal(t, "25", first["collectionRate"])
	pg := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pg["total_records"])

	rec = env.do(t, http.MethodGet, "/api/cases?page=0", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cases/C-101", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Paid", decode(t, rec)["case"].(map[string]interface{})["status"])

	other := env.login(t, "john@acmecorp.com")
	rec = env.do(t, http.MethodGet, "/api/cases/C-101", other, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	admin := env.login(t, "admin@portal.com")
	rec = env.do(t, http.MethodGet, "/api/cases/C-101", admin, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/cases/C-101?clientId=client-001", admin, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-001", decode(t, rec)["case"].(map[string]interface{})["clientId"])
}

func TestUploadRejectsBadFiles(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "layla@example.com")

	rec := env.upload(t, token, "cases.pdf", "%PDF", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.upload(t, token, "empty.csv", "Case ID,Debtor Name\n", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	admin := env.login(t, "admin@portal.com")
	rec = env.upload(t, admin, "cases.csv", uploadCSV, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.upload(t, admin, "cases.csv", uploadCSV, map[string]string{"clientId": "client-002"})
	require.Equal(t, http.StatusOK, rec.Code)

	john := env.login(t, "john@acmecorp.com")
	rec = env.do(t, http.MethodGet, "/api/cases", john, nil, "")
	assert.Len(t, decode(t, rec)["cases"], 2)
}

func TestMessagesFlow(t *testing.T) {
	env := newTestEnv(t)
	client := env.login(t, "layla@example.com")
	admin := env.login(t, "admin@portal.com")
	require.Equal(t, http.StatusOK, env.upload(t, client, "cases.csv", uploadCSV, nil).Code)

	rec := env.do(t, http.MethodPost, "/api/cases/C-100/messages", client, strings.NewReader(`{"body":"Any update?"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Client", decode(t, rec)["message"].(map[string]interface{})["author"])

	rec = env.do(t, http.MethodPost, "/api/cases/C-100/messages", admin, strings.NewReader(`{"body":"Payment plan agreed"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "admin must name the client")

	rec = env.do(t, http.MethodPost, "/api/cases/C-100/messages", admin, strings.NewReader(`{"body":"Payment plan agreed","clientId":"client-001"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	msg := decode(t, rec)["message"].(map[string]interface{})
	assert.Equal(t, "Collector", msg["author"])
	assert.Equal(t, "client-001", msg["clientId"])

	rec = env.do(t, http.MethodPost, "/api/cases/C-100/messages", client, strings.NewReader(`{"body":"   "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/cases/NOPE/messages", client, strings.NewReader(`{"body":"hi"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/messages?author=collector", client, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode(t, rec)["messages"].(map[string]interface{})
	assert.EqualValues(t, 1, board["total"])
	assert.EqualValues(t, 1, board["clientCount"])
	assert.EqualValues(t, 1, board["collectorCount"])

	rec = env.do(t, http.MethodGet, "/api/messages/export", client, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "messages_")
	assert.Contains(t, rec.Body.String(), "Payment plan agreed")
}

func TestExportCases(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "layla@example.com")
	require.Equal(t, http.StatusOK, env.upload(t, token, "cases.csv", uploadCSV, nil).Code)

	rec := env.do(t, http.MethodGet, "/api/cases/export", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Case ID,"))
	assert.Contains(t, rec.Body.String(), "C-101")

	rec = env.do(t, http.MethodGet, "/api/cases/export?format=xlsx", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = env.do(t, http.MethodGet, "/api/cases/export?format=pdf", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOverviewReportsAndClients(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "layla@example.com")
	require.Equal(t, http.StatusOK, env.upload(t, token, "cases.csv", uploadCSV, nil).Code)

	rec := env.do(t, http.MethodGet, "/api/overview", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec), "overview")

	rec = env.do(t, http.MethodGet, "/api/reports", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec), "reports")

	rec = env.do(t, http.MethodGet, "/api/clients", token, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := env.login(t, "admin@portal.com")
	rec = env.do(t, http.MethodGet, "/api/clients", admin, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"client-001"}, decode(t, rec)["clients"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "layla@example.com")
	rec := env.do(t, http.MethodGet, "/api/health", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["sessions"])
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	client := env.login(t, "layla@example.com")
	other := env.login(t, "john@acmecorp.com")
	require.Equal(t, http.StatusOK, env.upload(t, client, "cases.csv", uploadCSV, nil).Code)

	rec := env.do(t, http.MethodGet, "/api/notifications", client, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["notifications"].([]interface{})
	require.Len(t, list, 1)
	ev := list[0].(map[string]interface{})
	assert.Equal(t, "cases_imported", ev["type"])
	assert.Contains(t, ev["message"], "from cases.csv")

	rec = env.do(t, http.MethodGet, "/api/notifications", other, nil, "")
	assert.Empty(t, decode(t, rec)["notifications"])
}
