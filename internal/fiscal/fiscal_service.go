package fiscal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=fiscal_service.go -destination=mock/fiscal_service_mock.go -package=mock
type Service interface {
	Active(ctx context.Context) (FiscalYear, error)

	// ByNumber returns the configured fiscal year with that number, so
	// callers use its real window rather than assuming April to March.
	ByNumber(ctx context.Context, number int) (FiscalYear, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("fiscal.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("fiscal.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

// NewServiceWithClock lets tests pin the synthesized fallback window.
func NewServiceWithClock(repo Repository, now func() time.Time, logger ...*zap.Logger) Service {
	s := NewService(repo, logger...).(*service)
	s.now = now
	return s
}

// Active returns the configured active fiscal year, or a synthesized
// April to March window around today when none is configured. Missing
// configuration is not an error.
func (s *service) Active(ctx context.Context) (FiscalYear, error) {
	fy, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fallback := s.synthesize()
			s.logger.Warn("no active fiscal year configured, using synthesized window",
				zap.Int("number", fallback.Number),
			)
			return fallback, nil
		}
		return FiscalYear{}, err
	}
	return *fy, nil
}

// ByNumber falls back to the synthesized window for that number when no
// row is configured, mirroring Active.
func (s *service) ByNumber(ctx context.Context, number int) (FiscalYear, error) {
	fy, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return synthesizeWindow(number), nil
		}
		return FiscalYear{}, err
	}
	return *fy, nil
}

func (s *service) synthesize() FiscalYear {
	today := s.now().UTC()
	startYear := today.Year()
	if today.Month() < time.April {
		startYear--
	}
	fy := synthesizeWindow(startYear)
	fy.Active = true
	return fy
}

func synthesizeWindow(number int) FiscalYear {
	return FiscalYear{
		ID:     uuid.Nil,
		Number: number,
		Start:  time.Date(number, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(number+1, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}
