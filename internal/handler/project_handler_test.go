package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/response"
)

func TestProjectHandler_CreateProject(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockService    func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "created",
			requestBody: dto.CreateProjectRequest{
				Name:          "Apollo",
				DurationType:  "weeks",
				DurationValue: 6,
			},
			mockService: func(m *MockProjectService) {
				m.CreateProjectFunc = func(ctx context.Context, actor domain.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
					return &dto.ProjectResponse{ID: 1, Name: req.Name, DurationDays: 42}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed body",
			requestBody:    "invalid json",
			mockService:    func(m *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "duplicate name",
			requestBody: dto.CreateProjectRequest{Name: "Apollo", DurationType: "days", DurationValue: 3},
			mockService: func(m *MockProjectService) {
				m.CreateProjectFunc = func(ctx context.Context, actor domain.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
					return nil, response.NewValidationErrors([]string{"A project with this name already exists"})
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.mockService(mockService)
			handler := NewProjectHandler(mockService)

			router := setupTestRouter(managerActor)
			router.POST("/api/projects", handler.CreateProject)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestProjectHandler_UpdateAndList(t *testing.T) {
	var gotStatus string
	handler := NewProjectHandler(&MockProjectService{
		UpdateProjectFunc: func(ctx context.Context, actor domain.Actor, projectID uint, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
			require.NotNil(t, req.Status)
			return &dto.ProjectResponse{ID: projectID, Status: *req.Status}, nil
		},
		ListProjectsFunc: func(ctx context.Context, status string) ([]*dto.ProjectResponse, error) {
			gotStatus = status
			return []*dto.ProjectResponse{{ID: 1}}, nil
		},
	})
	router := setupTestRouter(managerActor)
	router.PUT("/api/projects/:id", handler.UpdateProject)
	router.GET("/api/projects", handler.ListProjects)
	router.GET("/api/projects/:id", handler.GetProject)

	req := httptest.NewRequest(http.MethodPut, "/api/projects/2", bytes.NewBufferString(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects?status=active", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", gotStatus)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
