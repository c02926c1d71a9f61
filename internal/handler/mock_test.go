package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/middleware"
	"project-tracker-api/internal/performance"
	"project-tracker-api/internal/storage"
)

// setupTestRouter returns an engine that authenticates every request as actor.
// A nil actor leaves requests anonymous.
func setupTestRouter(actor *domain.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if actor != nil {
		a := *actor
		r.Use(func(c *gin.Context) {
			middleware.SetActor(c, a)
			c.Next()
		})
	}
	return r
}

var (
	managerActor = &domain.Actor{UserID: 1, Role: domain.RoleManager, IPAddress: "127.0.0.1"}
	devActor     = &domain.Actor{UserID: 2, Role: domain.RoleDeveloper, IPAddress: "127.0.0.1"}
)

// MockTaskService is a mock implementation of TaskService
type MockTaskService struct {
	CreateTaskFunc       func(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error)
	UpdateTaskFunc       func(ctx context.Context, actor domain.Actor, taskID uint, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error)
	UpdateTaskStatusFunc func(ctx context.Context, actor domain.Actor, taskID uint, status string) (*dto.StatusChangeResponse, error)
	GetTaskFunc          func(ctx context.Context, taskID uint) (*dto.TaskResponse, error)
	ListTasksFunc        func(ctx context.Context, projectID uint) ([]*dto.TaskResponse, error)
}

func (m *MockTaskService) CreateTask(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, actor, input, uploads)
	}
	return &dto.TaskResponse{}, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, actor domain.Actor, taskID uint, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, actor, taskID, input, uploads)
	}
	return &dto.TaskResponse{ID: taskID}, nil
}

func (m *MockTaskService) UpdateTaskStatus(ctx context.Context, actor domain.Actor, taskID uint, status string) (*dto.StatusChangeResponse, error) {
	if m.UpdateTaskStatusFunc != nil {
		return m.UpdateTaskStatusFunc(ctx, actor, taskID, status)
	}
	return &dto.StatusChangeResponse{ID: taskID, NewStatus: status}, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID uint) (*dto.TaskResponse, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, taskID)
	}
	return &dto.TaskResponse{ID: taskID}, nil
}

func (m *MockTaskService) ListTasks(ctx context.Context, projectID uint) ([]*dto.TaskResponse, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, projectID)
	}
	return []*dto.TaskResponse{}, nil
}

// MockBugService is a mock implementation of BugService
type MockBugService struct {
	CreateBugFunc       func(ctx context.Context, actor domain.Actor, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error)
	UpdateBugFunc       func(ctx context.Context, actor domain.Actor, bugID uint, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error)
	UpdateBugStatusFunc func(ctx context.Context, actor domain.Actor, bugID uint, status string) (*dto.StatusChangeResponse, error)
	GetBugFunc          func(ctx context.Context, bugID uint) (*dto.BugResponse, error)
	ListBugsFunc        func(ctx context.Context, taskID uint) ([]*dto.BugResponse, error)
}

func (m *MockBugService) CreateBug(ctx context.Context, actor domain.Actor, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error) {
	if m.CreateBugFunc != nil {
		return m.CreateBugFunc(ctx, actor, input, uploads)
	}
	return &dto.BugResponse{}, nil
}

func (m *MockBugService) UpdateBug(ctx context.Context, actor domain.Actor, bugID uint, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error) {
	if m.UpdateBugFunc != nil {
		return m.UpdateBugFunc(ctx, actor, bugID, input, uploads)
	}
	return &dto.BugResponse{ID: bugID}, nil
}

func (m *MockBugService) UpdateBugStatus(ctx context.Context, actor domain.Actor, bugID uint, status string) (*dto.StatusChangeResponse, error) {
	if m.UpdateBugStatusFunc != nil {
		return m.UpdateBugStatusFunc(ctx, actor, bugID, status)
	}
	return &dto.StatusChangeResponse{ID: bugID, NewStatus: status}, nil
}

func (m *MockBugService) GetBug(ctx context.Context, bugID uint) (*dto.BugResponse, error) {
	if m.GetBugFunc != nil {
		return m.GetBugFunc(ctx, bugID)
	}
	return &dto.BugResponse{ID: bugID}, nil
}

func (m *MockBugService) ListBugs(ctx context.Context, taskID uint) ([]*dto.BugResponse, error) {
	if m.ListBugsFunc != nil {
		return m.ListBugsFunc(ctx, taskID)
	}
	return []*dto.BugResponse{}, nil
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	CreateProjectFunc func(ctx context.Context, actor domain.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	UpdateProjectFunc func(ctx context.Context, actor domain.Actor, projectID uint, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	GetProjectFunc    func(ctx context.Context, projectID uint) (*dto.ProjectResponse, error)
	ListProjectsFunc  func(ctx context.Context, status string) ([]*dto.ProjectResponse, error)
}

func (m *MockProjectService) CreateProject(ctx context.Context, actor domain.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, actor, req)
	}
	return &dto.ProjectResponse{Name: req.Name}, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, actor domain.Actor, projectID uint, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, actor, projectID, req)
	}
	return &dto.ProjectResponse{ID: projectID}, nil
}

func (m *MockProjectService) GetProject(ctx context.Context, projectID uint) (*dto.ProjectResponse, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, projectID)
	}
	return &dto.ProjectResponse{ID: projectID}, nil
}

func (m *MockProjectService) ListProjects(ctx context.Context, status string) ([]*dto.ProjectResponse, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, status)
	}
	return []*dto.ProjectResponse{}, nil
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	CreateCommentFunc func(ctx context.Context, actor domain.Actor, taskID uint, req *dto.CreateCommentRequest, uploads []*storage.Upload) (*dto.CommentResponse, error)
	ListCommentsFunc  func(ctx context.Context, taskID uint) ([]*dto.CommentResponse, error)
}

func (m *MockCommentService) CreateComment(ctx context.Context, actor domain.Actor, taskID uint, req *dto.CreateCommentRequest, uploads []*storage.Upload) (*dto.CommentResponse, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, actor, taskID, req, uploads)
	}
	return &dto.CommentResponse{TaskID: taskID, Comment: req.Comment}, nil
}

func (m *MockCommentService) ListComments(ctx context.Context, taskID uint) ([]*dto.CommentResponse, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, taskID)
	}
	return []*dto.CommentResponse{}, nil
}

// MockAttachmentService is a mock implementation of AttachmentService
type MockAttachmentService struct {
	DeleteAttachmentFunc func(ctx context.Context, actor domain.Actor, attachmentID uint, owner domain.EntityRef) error
	OpenAttachmentFunc   func(ctx context.Context, attachmentID uint) (*domain.Attachment, io.ReadCloser, error)
}

func (m *MockAttachmentService) DeleteAttachment(ctx context.Context, actor domain.Actor, attachmentID uint, owner domain.EntityRef) error {
	if m.DeleteAttachmentFunc != nil {
		return m.DeleteAttachmentFunc(ctx, actor, attachmentID, owner)
	}
	return nil
}

func (m *MockAttachmentService) OpenAttachment(ctx context.Context, attachmentID uint) (*domain.Attachment, io.ReadCloser, error) {
	if m.OpenAttachmentFunc != nil {
		return m.OpenAttachmentFunc(ctx, attachmentID)
	}
	return nil, nil, nil
}

// MockPerformanceService is a mock implementation of PerformanceService
type MockPerformanceService struct {
	GetTeamReportFunc      func(ctx context.Context, window string) (*dto.TeamPerformanceResponse, error)
	GetUserPerformanceFunc func(ctx context.Context, userID uint, window string) (*dto.UserPerformanceResponse, error)
}

func (m *MockPerformanceService) GetTeamReport(ctx context.Context, window string) (*dto.TeamPerformanceResponse, error) {
	if m.GetTeamReportFunc != nil {
		return m.GetTeamReportFunc(ctx, window)
	}
	return &dto.TeamPerformanceResponse{Window: window}, nil
}

func (m *MockPerformanceService) RefreshTeamReport(ctx context.Context, window performance.Window) (*dto.TeamPerformanceResponse, error) {
	return &dto.TeamPerformanceResponse{Window: string(window)}, nil
}

func (m *MockPerformanceService) GetUserPerformance(ctx context.Context, userID uint, window string) (*dto.UserPerformanceResponse, error) {
	if m.GetUserPerformanceFunc != nil {
		return m.GetUserPerformanceFunc(ctx, userID, window)
	}
	return &dto.UserPerformanceResponse{UserID: userID, Window: window}, nil
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	ListNotificationsFunc func(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*dto.PaginatedNotificationsResponse, error)
	MarkAsReadFunc        func(ctx context.Context, userID, notificationID uint) (*dto.NotificationResponse, error)
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*dto.PaginatedNotificationsResponse, error) {
	if m.ListNotificationsFunc != nil {
		return m.ListNotificationsFunc(ctx, userID, unreadOnly, page, limit)
	}
	return &dto.PaginatedNotificationsResponse{Page: page, Limit: limit}, nil
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID uint) (*dto.NotificationResponse, error) {
	if m.MarkAsReadFunc != nil {
		return m.MarkAsReadFunc(ctx, userID, notificationID)
	}
	return &dto.NotificationResponse{ID: notificationID, IsRead: true}, nil
}

// MockActivityService is a mock implementation of ActivityService
type MockActivityService struct {
	ListActivityLogsFunc func(ctx context.Context, query *dto.ActivityLogQuery) (*dto.PaginatedActivityLogsResponse, error)
}

func (m *MockActivityService) ListActivityLogs(ctx context.Context, query *dto.ActivityLogQuery) (*dto.PaginatedActivityLogsResponse, error) {
	if m.ListActivityLogsFunc != nil {
		return m.ListActivityLogsFunc(ctx, query)
	}
	return &dto.PaginatedActivityLogsResponse{}, nil
}

// fakeSubscriber hands out a fixed channel per subscription
type fakeSubscriber struct {
	messages chan []byte
	userID   chan uint
	err      error
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, userID uint) (<-chan []byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.userID != nil {
		f.userID <- userID
	}
	return f.messages, nil
}
