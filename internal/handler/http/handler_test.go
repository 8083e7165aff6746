package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/internal/mock"
	"github.com/omnisession/omnisession-server/internal/service"
	"github.com/omnisession/omnisession-server/internal/store"
	"github.com/omnisession/omnisession-server/models"
)

func newTestHandler(t *testing.T) (*chiRouter, *mock.MockBackupService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	services := mock.NewMockBackupService(ctrl)
	handler := NewHandler(services, logger.Nop())

	return &chiRouter{handler.Init()}, services
}

// chiRouter wraps the mux with a one-call test helper.
type chiRouter struct {
	http.Handler
}

func (rt *chiRouter) do(method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))

	return out
}

func TestRoutes_Registered(t *testing.T) {
	router, services := newTestHandler(t)

	services.EXPECT().InitSchema(gomock.Any()).Return(nil).AnyTimes()
	services.EXPECT().Status(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	services.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
	services.EXPECT().Restore(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.RestoredSession{}, nil).AnyTimes()

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/init"},
		{http.MethodGet, "/status/example.com"},
		{http.MethodPost, "/backup"},
		{http.MethodGet, "/restore/example.com"},
		{http.MethodDelete, "/backup/example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := router.do(tt.method, tt.target, []byte("{}"), nil)
			assert.NotEqual(t, http.StatusNotFound, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestHandler_Health(t *testing.T) {
	router, _ := newTestHandler(t)

	rec := router.do(http.MethodGet, "/", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeBody[models.StatusResponse](t, rec).Status)
}

func TestHandler_Health_SetsTraceID(t *testing.T) {
	router, _ := newTestHandler(t)

	rec := router.do(http.MethodGet, "/", nil, nil)

	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestHandler_InitSchema(t *testing.T) {
	router, services := newTestHandler(t)

	services.EXPECT().InitSchema(gomock.Any()).Return(nil)

	rec := router.do(http.MethodPost, "/init", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[models.StatusResponse](t, rec).Status)
}

func TestHandler_InitSchema_Error(t *testing.T) {
	router, services := newTestHandler(t)

	services.EXPECT().InitSchema(gomock.Any()).Return(store.ErrSchemaInit)

	rec := router.do(http.MethodPost, "/init", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// internal detail must not leak into the response body
	assert.Equal(t, "storage operation failed", decodeBody[models.ErrorResponse](t, rec).Error)
}

func TestHandler_BackupStatus_Exists(t *testing.T) {
	router, services := newTestHandler(t)

	updatedAt := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	services.EXPECT().Status(gomock.Any(), "example.com").Return(&updatedAt, nil)

	rec := router.do(http.MethodGet, "/status/example.com", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[models.BackupStatusResponse](t, rec)
	assert.Equal(t, "example.com", body.Domain)
	assert.True(t, body.Exists)
	require.NotNil(t, body.UpdatedAt)
	assert.Equal(t, updatedAt.Format(time.RFC3339Nano), *body.UpdatedAt)
}

func TestHandler_BackupStatus_Absent(t *testing.T) {
	router, services := newTestHandler(t)

	services.EXPECT().Status(gomock.Any(), "missing.example").Return(nil, nil)

	rec := router.do(http.MethodGet, "/status/missing.example", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[models.BackupStatusResponse](t, rec)
	assert.False(t, body.Exists)
	assert.Nil(t, body.UpdatedAt)
}

func TestHandler_SaveBackup(t *testing.T) {
	router, services := newTestHandler(t)

	want := models.SessionPayload{
		Cookies:      []map[string]any{{"name": "sid", "value": "abc"}},
		LocalStorage: map[string]any{"theme": "dark"},
	}
	services.EXPECT().
		Save(gomock.Any(), "example.com", want, "secret").
		Return(nil)

	body, err := json.Marshal(models.BackupRequest{
		Domain:       "example.com",
		Cookies:      want.Cookies,
		LocalStorage: want.LocalStorage,
	})
	require.NoError(t, err)

	rec := router.do(http.MethodPost, "/backup", body, map[string]string{passwordHeader: "secret"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[models.StatusResponse](t, rec).Status)
}

func TestHandler_SaveBackup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "malformed json",
			body:    "{not json",
			wantMsg: "invalid JSON body",
		},
		{
			name:    "missing domain",
			body:    `{"cookies":[],"local_storage":{}}`,
			wantMsg: "domain must not be empty",
		},
		{
			name:    "missing cookies",
			body:    `{"domain":"example.com","local_storage":{}}`,
			wantMsg: "cookies must be a list",
		},
		{
			name:    "missing local storage",
			body:    `{"domain":"example.com","cookies":[]}`,
			wantMsg: "local_storage must be an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestHandler(t)

			rec := router.do(http.MethodPost, "/backup", []byte(tt.body), nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody[models.ErrorResponse](t, rec).Error)
		})
	}
}

func TestHandler_SaveBackup_EmptyCollectionsAccepted(t *testing.T) {
	router, services := newTestHandler(t)

	services.EXPECT().
		Save(gomock.Any(), "example.com", models.SessionPayload{
			Cookies:      []map[string]any{},
			LocalStorage: map[string]any{},
		}, "").
		Return(nil)

	body := []byte(`{"domain":"example.com","cookies":[],"local_storage":{}}`)
	rec := router.do(http.MethodPost, "/backup", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_RestoreBackup(t *testing.T) {
	router, services := newTestHandler(t)

	updatedAt := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	services.EXPECT().
		Restore(gomock.Any(), "example.com", "secret").
		Return(&models.RestoredSession{
			Domain: "example.com",
			Payload: models.SessionPayload{
				Cookies:      []map[string]any{{"name": "sid", "value": "abc"}},
				LocalStorage: map[string]any{"theme": "dark"},
			},
			UpdatedAt: updatedAt,
		}, nil)

	rec := router.do(http.MethodGet, "/restore/example.com", nil, map[string]string{passwordHeader: "secret"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[models.RestoreResponse](t, rec)
	assert.Equal(t, "example.com", body.Domain)
	require.Len(t, body.Cookies, 1)
	assert.Equal(t, "sid", body.Cookies[0]["name"])
	assert.Equal(t, "dark", body.LocalStorage["theme"])
	assert.Equal(t, updatedAt.Format(time.RFC3339Nano), body.UpdatedAt)
}

func TestHandler_RestoreBackup_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "backup not found",
			err:        service.ErrBackupNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    service.ErrBackupNotFound.Error(),
		},
		{
			name:       "password required",
			err:        service.ErrPasswordRequired,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    service.ErrPasswordRequired.Error(),
		},
		{
			name:       "invalid password",
			err:        service.ErrInvalidPassword,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    service.ErrInvalidPassword.Error(),
		},
		{
			name:       "storage failure",
			err:        store.ErrExecutingQuery,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "storage operation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, services := newTestHandler(t)

			services.EXPECT().
				Restore(gomock.Any(), "example.com", gomock.Any()).
				Return(nil, tt.err)

			rec := router.do(http.MethodGet, "/restore/example.com", nil, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody[models.ErrorResponse](t, rec).Error)
		})
	}
}

func TestHandler_DeleteBackup(t *testing.T) {
	tests := []struct {
		name    string
		deleted bool
	}{
		{name: "existing backup", deleted: true},
		{name: "missing backup", deleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, services := newTestHandler(t)

			services.EXPECT().Delete(gomock.Any(), "example.com").Return(tt.deleted, nil)

			rec := router.do(http.MethodDelete, "/backup/example.com", nil, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody[models.DeleteResponse](t, rec)
			assert.Equal(t, "ok", body.Status)
			assert.Equal(t, tt.deleted, body.Deleted)
		})
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	router, _ := newTestHandler(t)

	rec := router.do(http.MethodOptions, "/backup", nil, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), passwordHeader))
}
