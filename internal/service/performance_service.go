package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/performance"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
)

// PerformanceService evaluates developers and QA users over a time window
type PerformanceService interface {
	GetTeamReport(ctx context.Context, window string) (*dto.TeamPerformanceResponse, error)
	RefreshTeamReport(ctx context.Context, window performance.Window) (*dto.TeamPerformanceResponse, error)
	GetUserPerformance(ctx context.Context, userID uint, window string) (*dto.UserPerformanceResponse, error)
}

type performanceServiceImpl struct {
	perfRepo repository.PerformanceRepository
	userRepo repository.UserRepository
	cache    ReportCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewPerformanceService creates a new instance of PerformanceService. cache may be nil.
func NewPerformanceService(perfRepo repository.PerformanceRepository, userRepo repository.UserRepository, cache ReportCache, logger *zap.Logger) PerformanceService {
	return &performanceServiceImpl{
		perfRepo: perfRepo,
		userRepo: userRepo,
		cache:    cache,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func parseWindow(raw string) (performance.Window, error) {
	window, err := performance.ParseWindow(raw)
	if err != nil {
		return "", response.NewValidationError("Invalid window", raw)
	}
	return window, nil
}

// GetTeamReport serves the cached report for window, computing it on a miss
func (s *performanceServiceImpl) GetTeamReport(ctx context.Context, raw string) (*dto.TeamPerformanceResponse, error) {
	window, err := parseWindow(raw)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		report, err := s.cache.Get(ctx, window)
		if err != nil {
			s.logger.Warn("Failed to read cached performance report", zap.String("window", string(window)), zap.Error(err))
		} else if report != nil {
			return report, nil
		}
	}
	return s.RefreshTeamReport(ctx, window)
}

// RefreshTeamReport recomputes the report for window and stores it in the cache
func (s *performanceServiceImpl) RefreshTeamReport(ctx context.Context, window performance.Window) (*dto.TeamPerformanceResponse, error) {
	users, err := s.userRepo.FindByRoles(ctx, domain.RoleDeveloper, domain.RoleQA)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load users", err.Error())
	}

	now := s.now()
	report := &dto.TeamPerformanceResponse{
		Window:      string(window),
		GeneratedAt: now,
		Developers:  []dto.UserPerformanceResponse{},
		QA:          []dto.UserPerformanceResponse{},
	}
	for _, u := range users {
		evaluation, err := s.evaluate(ctx, u, window, now)
		if err != nil {
			return nil, err
		}
		if u.Role == domain.RoleQA {
			report.QA = append(report.QA, *evaluation)
		} else {
			report.Developers = append(report.Developers, *evaluation)
		}
	}
	sortEvaluations(report.Developers)
	sortEvaluations(report.QA)

	if s.cache != nil {
		if err := s.cache.Set(ctx, report); err != nil {
			s.logger.Warn("Failed to cache performance report", zap.String("window", string(window)), zap.Error(err))
		}
	}
	return report, nil
}

// GetUserPerformance evaluates one developer or QA user. Managers have no rule set.
func (s *performanceServiceImpl) GetUserPerformance(ctx context.Context, userID uint, raw string) (*dto.UserPerformanceResponse, error) {
	window, err := parseWindow(raw)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User not found", "Failed to load user")
	}
	if user.Role != domain.RoleDeveloper && user.Role != domain.RoleQA {
		return nil, response.NewValidationError("Performance is only evaluated for developers and QA", string(user.Role))
	}
	return s.evaluate(ctx, user, window, s.now())
}

func (s *performanceServiceImpl) evaluate(ctx context.Context, u *domain.User, window performance.Window, now time.Time) (*dto.UserPerformanceResponse, error) {
	since := window.Since(now)

	var (
		counters performance.Counters
		err      error
	)
	if u.Role == domain.RoleQA {
		counters, err = s.perfRepo.QACounters(ctx, u.ID, since, now)
	} else {
		counters, err = s.perfRepo.DeveloperCounters(ctx, u.ID, since, now)
	}
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to aggregate performance", err.Error())
	}

	result, err := performance.Evaluate(counters)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to evaluate performance", err.Error())
	}

	return &dto.UserPerformanceResponse{
		UserID:               u.ID,
		Name:                 u.Name,
		Role:                 string(u.Role),
		Window:               string(window),
		TotalTasks:           counters.TotalTasks,
		CompletedTasks:       counters.CompletedTasks,
		CompletedLate:        counters.CompletedLate,
		PendingOverdue:       counters.PendingOverdue,
		OnTimeCompletionRate: counters.OnTimeCompletionRate,
		CompletionRate:       counters.CompletionRate,
		BugsReported:         counters.BugsReported,
		TasksReviewedClosed:  counters.TasksReviewedClosed,
		TasksInReview:        counters.TasksInReview,
		TotalOverdue:         result.TotalOverdue,
		QAEfficiency:         result.QAEfficiency,
		Score:                result.Score,
		Rating:               string(result.Rating),
	}, nil
}

// sortEvaluations orders by score, best first, then by name
func sortEvaluations(list []dto.UserPerformanceResponse) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].Name < list[j].Name
	})
}
