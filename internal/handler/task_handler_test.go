package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

// multipartBody encodes fields and files; files are sent under "attachments"
func multipartBody(t *testing.T, fields map[string][]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(name, v))
		}
	}
	for name, content := range files {
		part, err := w.CreateFormFile(attachmentsField, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, body []byte) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestTaskHandler_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		actor          *domain.Actor
		mockService    func(*MockTaskService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:  "multipart fields and files reach the service",
			actor: managerActor,
			mockService: func(m *MockTaskService) {
				m.CreateTaskFunc = func(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
					assert.Equal(t, managerActor.UserID, actor.UserID)
					assert.Equal(t, "Fix login", input.Name)
					assert.Equal(t, uint(3), input.ProjectID)
					assert.ElementsMatch(t, []uint{2, 5}, input.AssigneeIDs)
					require.Len(t, uploads, 1)
					assert.Equal(t, "trace.txt", uploads[0].FileName)
					return &dto.TaskResponse{ID: 10, Name: input.Name, Status: "pending"}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var resp struct {
					Success bool             `json:"success"`
					Data    dto.TaskResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, uint(10), resp.Data.ID)
			},
		},
		{
			name:  "validation errors are listed",
			actor: managerActor,
			mockService: func(m *MockTaskService) {
				m.CreateTaskFunc = func(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
					return nil, response.NewValidationErrors([]string{"Invalid priority", "Selected project does not exist"})
				}
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				resp := decodeError(t, body)
				assert.Equal(t, response.ErrCodeValidation, resp.Error.Code)
				assert.Equal(t, []string{"Invalid priority", "Selected project does not exist"}, resp.Error.Errors)
			},
		},
		{
			name:  "internal failures hide details",
			actor: managerActor,
			mockService: func(m *MockTaskService) {
				m.CreateTaskFunc = func(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
					return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", "disk full")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				assert.NotContains(t, string(body), "disk full")
			},
		},
		{
			name:           "anonymous caller",
			actor:          nil,
			mockService:    func(m *MockTaskService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			mockService := &MockTaskService{}
			tt.mockService(mockService)
			handler := NewTaskHandler(mockService)

			router := setupTestRouter(tt.actor)
			router.POST("/api/tasks", handler.CreateTask)

			body, contentType := multipartBody(t, map[string][]string{
				"name":      {"Fix login"},
				"projectId": {"3"},
				"priority":  {"high"},
				"assignees": {"2", "5"},
			}, map[string]string{"trace.txt": "stack trace"})
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			// When
			router.ServeHTTP(w, req)

			// Then
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestTaskHandler_CreateTask_JSONBody(t *testing.T) {
	var got *dto.TaskInput
	var gotUploads []*storage.Upload
	handler := NewTaskHandler(&MockTaskService{
		CreateTaskFunc: func(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
			got = input
			gotUploads = uploads
			return &dto.TaskResponse{ID: 1}, nil
		},
	})
	router := setupTestRouter(managerActor)
	router.POST("/api/tasks", handler.CreateTask)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks",
		strings.NewReader(`{"name":"Refactor","projectId":1,"priority":"low","assignees":[2]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Refactor", got.Name)
	assert.Equal(t, []uint{2}, got.AssigneeIDs)
	assert.Empty(t, gotUploads)
}

func TestTaskHandler_UpdateTaskStatus(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		mockService    func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:           "status changed",
			path:           "/api/tasks/4/status",
			body:           `{"status":"in_progress"}`,
			mockService:    func(m *MockTaskService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing status",
			path:           "/api/tasks/4/status",
			body:           `{}`,
			mockService:    func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid id",
			path:           "/api/tasks/abc/status",
			body:           `{"status":"completed"}`,
			mockService:    func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown task",
			path: "/api/tasks/99/status",
			body: `{"status":"completed"}`,
			mockService: func(m *MockTaskService) {
				m.UpdateTaskStatusFunc = func(ctx context.Context, actor domain.Actor, taskID uint, status string) (*dto.StatusChangeResponse, error) {
					return nil, response.NewNotFoundError("Task not found", "")
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "invalid status value",
			path: "/api/tasks/4/status",
			body: `{"status":"done"}`,
			mockService: func(m *MockTaskService) {
				m.UpdateTaskStatusFunc = func(ctx context.Context, actor domain.Actor, taskID uint, status string) (*dto.StatusChangeResponse, error) {
					return nil, response.NewValidationError("Invalid status", status)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockTaskService{}
			tt.mockService(mockService)
			handler := NewTaskHandler(mockService)

			router := setupTestRouter(devActor)
			router.PATCH("/api/tasks/:id/status", handler.UpdateTaskStatus)

			req := httptest.NewRequest(http.MethodPatch, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestTaskHandler_ReadRoutes(t *testing.T) {
	handler := NewTaskHandler(&MockTaskService{
		ListTasksFunc: func(ctx context.Context, projectID uint) ([]*dto.TaskResponse, error) {
			return []*dto.TaskResponse{{ID: 1, ProjectID: projectID}, {ID: 2, ProjectID: projectID}}, nil
		},
	})
	router := setupTestRouter(devActor)
	router.GET("/api/tasks/:id", handler.GetTask)
	router.GET("/api/projects/:id/tasks", handler.ListProjectTasks)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"taskId":7`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/3/tasks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []dto.TaskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, uint(3), resp.Data[0].ProjectID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
