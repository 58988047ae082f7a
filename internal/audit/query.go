package audit

import (
	"context"
	"math"
	"time"

	"github.com/lexikon-app/lexikon/model"
	"github.com/lexikon-app/lexikon/params"
)

type LogPage struct {
	Logs    []*model.AuditLog `json:"logs"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
	HasMore bool              `json:"hasMore"`
}

type Stats struct {
	Total           int64         `json:"total"`
	Success         int64         `json:"success"`
	Failure         int64         `json:"failure"`
	SuccessRate     int           `json:"successRate"`
	LoginAttempts   int64         `json:"loginAttempts"`
	FailedLogins    int64         `json:"failedLogins"`
	FailedLoginRate int           `json:"failedLoginRate"`
	TopActions      []ActionCount `json:"topActions"`
}

// List returns one page of audit entries, newest first.
func (s *Service) List(ctx context.Context, filter Filter) (*LogPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = params.AuditDefaultLimit
	}
	if filter.Limit > params.AuditMaxLimit {
		filter.Limit = params.AuditMaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	logs, total, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &LogPage{
		Logs:    logs,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		HasMore: int64(filter.Offset+filter.Limit) < total,
	}, nil
}

// ratio returns the integer percent part/total, 0 when total is 0.
func ratio(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Stats aggregates audit activity over an optional date range.
func (s *Service) Stats(ctx context.Context, from, to *time.Time) (*Stats, error) {
	rangeFilter := Filter{From: from, To: to}

	total, err := s.repo.Count(ctx, rangeFilter)
	if err != nil {
		return nil, err
	}

	successTrue := true
	success, err := s.repo.Count(ctx, Filter{From: from, To: to, Success: &successTrue})
	if err != nil {
		return nil, err
	}

	loginSuccess, err := s.repo.Count(ctx, Filter{From: from, To: to, Action: ActionLoginSuccess})
	if err != nil {
		return nil, err
	}
	loginFailed, err := s.repo.Count(ctx, Filter{From: from, To: to, Action: ActionLoginFailed})
	if err != nil {
		return nil, err
	}

	topActions, err := s.repo.CountByAction(ctx, from, to, params.AuditTopActions)
	if err != nil {
		return nil, err
	}

	loginAttempts := loginSuccess + loginFailed
	return &Stats{
		Total:           total,
		Success:         success,
		Failure:         total - success,
		SuccessRate:     ratio(success, total),
		LoginAttempts:   loginAttempts,
		FailedLogins:    loginFailed,
		FailedLoginRate: ratio(loginFailed, loginAttempts),
		TopActions:      topActions,
	}, nil
}
