package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benx421/bank-sync/internal/api"
	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/service"
	"github.com/benx421/bank-sync/internal/service/mocks"
)

func TestGetSyncStatus_Success(t *testing.T) {
	ctrl := mocks.NewMockSyncController(t)
	lastSync := time.Date(2025, 10, 8, 9, 0, 0, 0, time.UTC)
	ctrl.On("Status", mock.Anything).Return(&models.Settings{
		Name:     "default",
		Enabled:  true,
		Schedule: models.CadenceDaily,
		RunState: models.RunState{
			Status:           models.RunStatusInProgress,
			ProcessedRecords: 40,
			TotalRecords:     140,
			CreatedRecords:   38,
			ErrorRecords:     1,
			Progress:         28.57,
			LastSyncAt:       &lastSync,
		},
	}, nil)

	progress := fakeProgress{"default": {Setting: "default", Status: models.RunStatusInProgress, Processed: 40, Total: 140}}
	handler := NewHandler(ctrl, nil, progress, nil, testLogger())

	rec := httptest.NewRecorder()
	handler.GetSyncStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[api.SyncStatusResponse](t, rec)
	assert.Equal(t, "default", resp.Setting)
	assert.Equal(t, "In Progress", resp.Status)
	assert.Equal(t, "Daily", resp.Schedule)
	assert.Equal(t, 40, resp.ProcessedRecords)
	assert.Equal(t, 38, resp.CreatedRecords)
	require.NotNil(t, resp.LastSyncAt)
	assert.True(t, lastSync.Equal(*resp.LastSyncAt))
	assert.Nil(t, resp.LastCompletedAt)
	require.NotNil(t, resp.LatestEvent)
	assert.Equal(t, 140, resp.LatestEvent.Total)
}

func TestGetSyncStatus_NoProgressReader(t *testing.T) {
	ctrl := mocks.NewMockSyncController(t)
	ctrl.On("Status", mock.Anything).Return(&models.Settings{Name: "default", RunState: models.RunState{Status: models.RunStatusNotStarted}}, nil)
	handler := NewHandler(ctrl, nil, nil, nil, testLogger())

	rec := httptest.NewRecorder()
	handler.GetSyncStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[api.SyncStatusResponse](t, rec).LatestEvent)
}

func TestGetSyncStatus_NotFound(t *testing.T) {
	ctrl := mocks.NewMockSyncController(t)
	ctrl.On("Status", mock.Anything).Return(nil, &service.ServiceError{
		Code:    service.ErrCodeSettingsNotFound,
		Message: "sync settings not found",
	})
	handler := NewHandler(ctrl, nil, nil, nil, testLogger())

	rec := httptest.NewRecorder()
	handler.GetSyncStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, api.ErrorCodeSettingsNotFound, decode[api.ErrorResponse](t, rec).Error)
}

func TestStartSync_Started(t *testing.T) {
	ctrl := mocks.NewMockSyncController(t)
	window := mustWindow(t, "2025-10-01", "2025-10-07")
	ctrl.On("Start", mock.Anything, window).
		Return(&service.StartResult{Window: window, Status: models.RunStatusInProgress, Started: true}, nil).
		Once()
	handler := NewHandler(ctrl, nil, nil, nil, testLogger())

	rec := httptest.NewRecorder()
	handler.StartSync(rec, jsonRequest(http.MethodPost, "/api/v1/sync", `{"from_date":"2025-10-01","to_date":"2025-10-07"}`))

	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := decode[api.SyncStartResponse](t, rec)
	assert.True(t, resp.Started)
	assert.Equal(t, "In Progress", resp.Status)
	assert.Equal(t, "2025-10-01", resp.FromDate)
	assert.Equal(t, "2025-10-07", resp.ToDate)
}

func TestStartSync_AlreadyRunningIsNotAnError(t *testing.T) {
	ctrl := mocks.NewMockSyncController(t)
	window := mustWindow(t, "2025-10-01", "2025-10-07")
	ctrl.On("Start", mock.Anything, window).
		Return(&service.StartResult{Window: window, Status: models.RunStatusInProgress, Started: false}, nil)
	handler := NewHandler(ctrl, nil, nil, nil, testLogger())

	rec := httptest.NewRecorder()
	handler.StartSync(rec, jsonRequest(http.MethodPost, "/api/v1/sync", `{"from_date":"2025-10-01","to_date":"2025-10-07"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[api.SyncStartResponse](t, rec).Started)
}

func TestStartSync_WindowErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    api.ErrorCode
		wantMessage string
	}{
		{"malformed json", `{"from_date":`, api.ErrorCodeInvalidRequest, "JSON object"},
		{"empty body", ``, api.ErrorCodeInvalidRequest, "JSON object"},
		{"missing to date", `{"from_date":"2025-10-01"}`, api.ErrorCodeInvalidWindow, "required"},
		{"inverted window", `{"from_date":"2025-10-08","to_date":"2025-10-01"}`, api.ErrorCodeInvalidWindow, "cannot be greater"},
		{"bad date", `{"from_date":"10/01/2025","to_date":"2025-10-07"}`, api.ErrorCodeInvalidWindow, "invalid from date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := mocks.NewMockSyncController(t)
			handler := NewHandler(ctrl, nil, nil, nil, testLogger())

			rec := httptest.NewRecorder()
			handler.StartSync(rec, jsonRequest(http.MethodPost, "/api/v1/sync", tt.body))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[api.ErrorResponse](t, rec)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Contains(t, resp.Message, tt.wantMessage)
			ctrl.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
		})
	}
}

func TestStartSync_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   api.ErrorCode
	}{
		{"integration disabled", &service.ServiceError{Code: service.ErrCodeIntegrationDisabled, Message: "disabled"}, http.StatusConflict, api.ErrorCodeIntegrationDisabled},
		{"queue full", &service.ServiceError{Code: service.ErrCodeQueueFull, Message: "busy"}, http.StatusServiceUnavailable, api.ErrorCodeQueueFull},
		{"settings missing", &service.ServiceError{Code: service.ErrCodeSettingsNotFound, Message: "missing"}, http.StatusNotFound, api.ErrorCodeSettingsNotFound},
		{"internal", &service.ServiceError{Code: service.ErrCodeInternalError, Message: "db down", Err: errors.New("dial tcp")}, http.StatusInternalServerError, api.ErrorCodeInternalError},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, api.ErrorCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := mocks.NewMockSyncController(t)
			ctrl.On("Start", mock.Anything, mock.AnythingOfType("models.SyncWindow")).Return(nil, tt.err)
			handler := NewHandler(ctrl, nil, nil, nil, testLogger())

			rec := httptest.NewRecorder()
			handler.StartSync(rec, jsonRequest(http.MethodPost, "/api/v1/sync", `{"from_date":"2025-10-01","to_date":"2025-10-07"}`))

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decode[api.ErrorResponse](t, rec)
			assert.Equal(t, tt.wantCode, resp.Error)
			if tt.wantCode == api.ErrorCodeInternalError {
				assert.NotContains(t, resp.Message, "dial tcp", "internal details must not leak")
			}
		})
	}
}

func TestRestartSync(t *testing.T) {
	ctrl := mocks.NewMockSyncController(t)
	window := mustWindow(t, "2025-09-01", "2025-09-30")
	ctrl.On("Restart", mock.Anything, window).
		Return(&service.StartResult{Window: window, Status: models.RunStatusInProgress, Started: true}, nil).
		Once()
	handler := NewHandler(ctrl, nil, nil, nil, testLogger())

	rec := httptest.NewRecorder()
	handler.RestartSync(rec, jsonRequest(http.MethodPost, "/api/v1/sync/restart", `{"from_date":"2025-09-01","to_date":"2025-09-30"}`))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	ctrl.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestStopSync(t *testing.T) {
	t.Run("stop requested", func(t *testing.T) {
		ctrl := mocks.NewMockSyncController(t)
		ctrl.On("Stop", mock.Anything).Return(nil).Once()
		handler := NewHandler(ctrl, nil, nil, nil, testLogger())

		rec := httptest.NewRecorder()
		handler.StopSync(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sync/stop", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Sync stop requested", decode[api.MessageResponse](t, rec).Message)
	})

	t.Run("setting missing", func(t *testing.T) {
		ctrl := mocks.NewMockSyncController(t)
		ctrl.On("Stop", mock.Anything).Return(&service.ServiceError{Code: service.ErrCodeSettingsNotFound, Message: "missing"})
		handler := NewHandler(ctrl, nil, nil, nil, testLogger())

		rec := httptest.NewRecorder()
		handler.StopSync(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sync/stop", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTestAuthentication(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := mocks.NewMockSyncController(t)
		ctrl.On("TestAuthentication", mock.Anything).Return("Authentication successful", nil)
		handler := NewHandler(ctrl, nil, nil, nil, testLogger())

		rec := httptest.NewRecorder()
		handler.TestAuthentication(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/test", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[api.AuthTestResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, "Authentication successful", resp.Message)
	})

	t.Run("failure carries message", func(t *testing.T) {
		ctrl := mocks.NewMockSyncController(t)
		ctrl.On("TestAuthentication", mock.Anything).
			Return("Authentication failed: payments API returned 401", &service.ServiceError{Code: service.ErrCodeAuthFailed})
		handler := NewHandler(ctrl, nil, nil, nil, testLogger())

		rec := httptest.NewRecorder()
		handler.TestAuthentication(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/test", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decode[api.AuthTestResponse](t, rec)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "401")
	})
}
