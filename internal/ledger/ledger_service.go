package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leaveflow/internal/fiscal"
	"leaveflow/internal/leavetype"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const BalanceKeyPrefix = "leave:balance:"

func GetBalanceKey(employeeID string, fiscalYearNumber int) string {
	return fmt.Sprintf("%s%s:%d", BalanceKeyPrefix, employeeID, fiscalYearNumber)
}

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// GetBalance reconciles the ledger for the active fiscal year.
	GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error)
	GetBalanceForYear(ctx context.Context, employeeID string, fiscalYearNumber int) (BalanceResponse, error)

	// Invalidate drops the employee's cached entry for the active
	// fiscal year. The request and adjustment workflows call it after
	// every committed write.
	Invalidate(ctx context.Context, employeeID string) error
}

type service struct {
	repo    Repository
	types   leavetype.Repository
	fiscals fiscal.Service
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	repo Repository,
	types leavetype.Repository,
	fiscals fiscal.Service,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{
		repo:    repo,
		types:   types,
		fiscals: fiscals,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error) {
	fy, err := s.fiscals.Active(ctx)
	if err != nil {
		return BalanceResponse{}, err
	}
	return s.GetBalanceForYear(ctx, employeeID, fy.Number)
}

func (s *service) GetBalanceForYear(ctx context.Context, employeeID string, fiscalYearNumber int) (BalanceResponse, error) {
	cacheKey := GetBalanceKey(employeeID, fiscalYearNumber)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp BalanceResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.reconcile(ctx, employeeID, fiscalYearNumber)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 15*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return BalanceResponse{}, err
	}

	return v.(BalanceResponse), nil
}

// reconcile builds one TypeBalance row per permitted type. Totals come
// from assignments (plus the accrued carry-over for earned leave),
// availed from leave_takens, and Balance is always Total minus Availed.
// A type with no assignment row falls back to the profile's legacy
// single balance, the pre-migration source of truth.
func (s *service) reconcile(ctx context.Context, employeeID string, fiscalYearNumber int) (BalanceResponse, error) {
	types, err := s.types.ListByShortCodes(ctx, leavetype.PermittedShortCodes)
	if err != nil {
		return BalanceResponse{}, err
	}

	fy, err := s.fiscals.ByNumber(ctx, fiscalYearNumber)
	if err != nil {
		return BalanceResponse{}, err
	}

	profile, err := s.repo.FindProfile(ctx, employeeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	assigned, err := s.repo.AssignmentTotals(ctx, employeeID, fiscalYearNumber)
	if err != nil {
		return BalanceResponse{}, err
	}
	availed, err := s.repo.AvailedTotals(ctx, employeeID, fiscalYearNumber)
	if err != nil {
		return BalanceResponse{}, err
	}
	adjusted, err := s.repo.AdjustedTotals(ctx, employeeID, fiscalYearNumber)
	if err != nil {
		return BalanceResponse{}, err
	}
	applied, err := s.repo.AppliedTotals(ctx, employeeID, fy.Start, fy.End)
	if err != nil {
		return BalanceResponse{}, err
	}

	resp := BalanceResponse{
		EmployeeID:       employeeID,
		FiscalYearNumber: fiscalYearNumber,
		Balances:         make([]TypeBalance, 0, len(types)),
	}

	for _, lt := range types {
		id := lt.ID.String()
		total, hasAssignment := assigned[id]
		switch {
		case lt.ShortCode == leavetype.CodeEarned:
			if profile != nil {
				total += profile.EarnedAccrued
			}
		case !hasAssignment && profile != nil:
			total = profile.LegacyBalance
		}
		balance := total - availed[id]
		resp.Balances = append(resp.Balances, TypeBalance{
			LeaveTypeID:    id,
			ShortCode:      lt.ShortCode,
			Name:           lt.Name,
			Total:          total,
			Availed:        availed[id],
			Adjusted:       adjusted[id],
			Applied:        applied[id],
			Balance:        balance,
			AppliedBalance: balance - applied[id],
		})
	}

	if len(assigned) == 0 && profile != nil {
		legacy := profile.LegacyBalance
		resp.LegacyBalance = &legacy
	}

	return resp, nil
}

func (s *service) Invalidate(ctx context.Context, employeeID string) error {
	if s.rdb == nil {
		return nil
	}

	fy, err := s.fiscals.Active(ctx)
	if err != nil {
		return err
	}

	cacheKey := GetBalanceKey(employeeID, fy.Number)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate balance cache failed",
			zap.String("cache_key", cacheKey),
			zap.Error(err),
		)
		return err
	}
	return nil
}
