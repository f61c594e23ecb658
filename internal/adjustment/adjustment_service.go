package adjustment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	adjustmenterrors "leaveflow/internal/adjustment/errors"
	"leaveflow/internal/authz"
	"leaveflow/internal/bootstrap"
	"leaveflow/internal/daycount"
	"leaveflow/internal/events"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/request"
	"leaveflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BalanceInvalidator is implemented by the ledger service; approved
// adjustments move balances, so the cache entry is dropped after every
// committed decision.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, employeeID string) error
}

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	// CreateResize and CreateCancellation return Applied=false with no
	// error when the underlying request is not in the Approved state or
	// already has an open adjustment.
	CreateResize(ctx context.Context, actorID string, req CreateResizeRequest) (CreateResult, error)
	CreateCancellation(ctx context.Context, actorID string, req CreateCancellationRequest) (CreateResult, error)

	GetByID(ctx context.Context, id string) (AdjustmentResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]AdjustmentResponse, error)

	Decide(ctx context.Context, actorID, id string, req DecideAdjustmentRequest) (DecideResult, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	requests   request.Repository
	counter    daycount.Service
	authorizer authz.Authorizer
	outbox     kafka.OutboxRepository
	audit      bootstrap.AuditLogger
	balances   BalanceInvalidator
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	requests request.Repository,
	counter daycount.Service,
	authorizer authz.Authorizer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("adjustment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("adjustment.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		requests:   requests,
		counter:    counter,
		authorizer: authorizer,
		logger:     l,
	}
}

func NewServiceWithIntegrations(
	db *sql.DB,
	repo Repository,
	requests request.Repository,
	counter daycount.Service,
	authorizer authz.Authorizer,
	outbox kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	balances BalanceInvalidator,
	logger ...*zap.Logger,
) Service {
	s := NewService(db, repo, requests, counter, authorizer, logger...).(*service)
	s.outbox = outbox
	s.audit = audit
	s.balances = balances
	return s
}

func (s *service) CreateResize(ctx context.Context, actorID string, req CreateResizeRequest) (CreateResult, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CreateResult{}, adjustmenterrors.ErrInvalidActorID
	}
	newStart, err := parseDate(req.NewStartDate)
	if err != nil {
		return CreateResult{}, err
	}
	newEnd, err := parseDate(req.NewEndDate)
	if err != nil {
		return CreateResult{}, err
	}

	l, taken, ok, err := s.loadAdjustableRequest(ctx, req.LeaveRequestID)
	if err != nil || !ok {
		return CreateResult{Applied: false}, err
	}

	locationID := ""
	if l.LocationID != nil {
		locationID = l.LocationID.String()
	}
	count, err := s.counter.Compute(ctx, daycount.Input{
		From:        newStart,
		To:          newEnd,
		LocationID:  locationID,
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		IsShort:     l.IsShort,
	})
	if err != nil {
		return CreateResult{}, err
	}
	if count.CountedDays == 0 {
		return CreateResult{}, adjustmenterrors.ErrNoCountableDays
	}

	a := &LeaveAdjustmentRequest{
		ID:                 uuid.New(),
		LeaveRequestID:     l.ID,
		EmployeeID:         l.EmployeeID,
		IsCancellation:     false,
		NewStartDate:       &newStart,
		NewEndDate:         &newEnd,
		OriginalDays:       taken.Days,
		NewDays:            float64(count.CountedDays),
		Reason:             req.Reason,
		Status:             StatusSubmitted,
		CreatedBy:          actorUUID,
		ReportingOfficerID: l.ReportingOfficerID,
	}
	return s.persistAdjustment(ctx, a)
}

func (s *service) CreateCancellation(ctx context.Context, actorID string, req CreateCancellationRequest) (CreateResult, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CreateResult{}, adjustmenterrors.ErrInvalidActorID
	}

	l, taken, ok, err := s.loadAdjustableRequest(ctx, req.LeaveRequestID)
	if err != nil || !ok {
		return CreateResult{Applied: false}, err
	}

	a := &LeaveAdjustmentRequest{
		ID:                 uuid.New(),
		LeaveRequestID:     l.ID,
		EmployeeID:         l.EmployeeID,
		IsCancellation:     true,
		OriginalDays:       taken.Days,
		NewDays:            0,
		Reason:             req.Reason,
		Status:             StatusSubmitted,
		CreatedBy:          actorUUID,
		ReportingOfficerID: l.ReportingOfficerID,
	}
	return s.persistAdjustment(ctx, a)
}

// loadAdjustableRequest enforces the shared preconditions: the request
// exists, is Approved, and has no other open adjustment. ok=false means
// the caller should return a silent no-op.
func (s *service) loadAdjustableRequest(ctx context.Context, leaveRequestID string) (*request.LeaveRequest, *request.LeaveTaken, bool, error) {
	l, err := s.requests.FindByID(ctx, leaveRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	if l.Status != request.StatusApproved {
		s.logger.Debug("adjustment precondition failed",
			zap.String("leave_request_id", leaveRequestID),
			zap.String("status", string(l.Status)),
		)
		return nil, nil, false, nil
	}

	open, err := s.repo.HasOpenForRequest(ctx, leaveRequestID)
	if err != nil {
		return nil, nil, false, err
	}
	if open {
		return nil, nil, false, nil
	}

	taken, err := s.requests.FindTakenByRequestID(ctx, leaveRequestID)
	if err != nil {
		return nil, nil, false, err
	}
	return l, taken, true, nil
}

// persistAdjustment writes the row in its own transaction. The
// adjustment is decided by the officer recorded on the originating
// request; the chain is never re-resolved here.
func (s *service) persistAdjustment(ctx context.Context, a *LeaveAdjustmentRequest) (CreateResult, error) {
	if a.ReportingOfficerID == uuid.Nil {
		return CreateResult{}, adjustmenterrors.ErrNoReportingOfficer
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CreateResult{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
		if isOpenConflict(err) {
			return CreateResult{Applied: false}, nil
		}
		s.logger.Error("create adjustment persist failed", zap.Error(err))
		return CreateResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return CreateResult{}, err
	}

	s.logger.Info("create adjustment success",
		zap.String("adjustment_id", a.ID.String()),
		zap.String("leave_request_id", a.LeaveRequestID.String()),
		zap.Bool("is_cancellation", a.IsCancellation),
	)

	resp := mapToResponse(*a)
	return CreateResult{Applied: true, Adjustment: &resp}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (AdjustmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, adjustmenterrors.ErrAdjustmentNotFound
		}
		return AdjustmentResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]AdjustmentResponse, error) {
	adjustments, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(adjustments), nil
}

// Decide applies the officer's decision. Approval of a cancellation
// flips the leave request to Cancelled and deletes its breakup and
// availed record; approval of a resize rewrites the request's range and
// overwrites the availed days. Everything happens in one transaction.
func (s *service) Decide(ctx context.Context, actorID, id string, req DecideAdjustmentRequest) (DecideResult, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecideResult{}, adjustmenterrors.ErrAdjustmentNotFound
		}
		return DecideResult{}, err
	}

	if !s.authorizer.Authorize(actorID, authz.Resource{
		Kind:               "leave_adjustment",
		ReportingOfficerID: a.ReportingOfficerID.String(),
	}, authz.ActionDecide) {
		s.logger.Warn("decide adjustment not authorized",
			zap.String("adjustment_id", id),
			zap.String("actor_id", actorID),
		)
		return DecideResult{Applied: false}, nil
	}

	target := StatusRejected
	if req.Decision == "APPROVE" {
		target = StatusApproved
	}
	if !CanTransition(a.Status, target) {
		return DecideResult{Applied: false}, nil
	}

	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return DecideResult{}, adjustmenterrors.ErrInvalidActorID
	}

	now := time.Now().UTC()
	a.Status = target
	a.RespondedBy = &approverUUID
	a.RespondedAt = &now
	if req.Comments != "" {
		a.ResponseComments = &req.Comments
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecideResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("decide adjustment persist failed", zap.String("adjustment_id", id), zap.Error(err))
		return DecideResult{}, err
	}

	if target == StatusApproved {
		if err := s.applyApproved(ctx, tx, a); err != nil {
			s.logger.Error("apply adjustment failed", zap.String("adjustment_id", id), zap.Error(err))
			return DecideResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return DecideResult{}, err
	}

	s.invalidateBalance(ctx, a.EmployeeID.String())
	s.auditDecision(ctx, a, actorID, req.Comments)
	s.logger.Info("decide adjustment success",
		zap.String("adjustment_id", id),
		zap.String("status", string(target)),
	)

	resp := mapToResponse(*a)
	return DecideResult{Applied: true, Adjustment: &resp}, nil
}

func (s *service) applyApproved(ctx context.Context, tx *sql.Tx, a *LeaveAdjustmentRequest) error {
	rqtx := s.requests.WithTx(tx)

	l, err := rqtx.FindByID(ctx, a.LeaveRequestID.String())
	if err != nil {
		return err
	}

	if a.IsCancellation {
		if !request.CanTransition(l.Status, request.StatusCancelled) {
			return nil
		}
		l.Status = request.StatusCancelled
		if err := rqtx.Update(ctx, l); err != nil {
			return err
		}
		if err := rqtx.DeleteBreakup(ctx, l.ID.String()); err != nil {
			return err
		}
		if err := rqtx.DeleteTakenByRequestID(ctx, l.ID.String()); err != nil {
			return err
		}
		return s.enqueueEvent(ctx, tx, a, l, events.EventTypeLeaveCancelled)
	}

	locationID := ""
	if l.LocationID != nil {
		locationID = l.LocationID.String()
	}
	count, err := s.counter.Compute(ctx, daycount.Input{
		From:        *a.NewStartDate,
		To:          *a.NewEndDate,
		LocationID:  locationID,
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		IsShort:     l.IsShort,
	})
	if err != nil {
		return err
	}

	l.StartDate = *a.NewStartDate
	l.EndDate = *a.NewEndDate
	l.CalendarDays = count.CalendarDays
	l.CountedDays = count.CountedDays
	if err := rqtx.Update(ctx, l); err != nil {
		return err
	}

	days := make([]request.LeaveRequestDay, len(count.Breakup))
	for i, d := range count.Breakup {
		days[i] = request.LeaveRequestDay{
			ID:             uuid.New(),
			LeaveRequestID: l.ID,
			Date:           d.Date,
			Weekday:        d.Weekday,
		}
	}
	if err := rqtx.ReplaceBreakup(ctx, l.ID.String(), days); err != nil {
		return err
	}

	taken, err := rqtx.FindTakenByRequestID(ctx, l.ID.String())
	if err != nil {
		return err
	}
	taken.StartDate = l.StartDate
	taken.EndDate = l.EndDate
	taken.Days = float64(count.CountedDays)
	if err := rqtx.UpdateTaken(ctx, taken); err != nil {
		return err
	}

	return s.enqueueEvent(ctx, tx, a, l, events.EventTypeLeaveResized)
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, a *LeaveAdjustmentRequest, l *request.LeaveRequest, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:   eventType,
		RequestID:   l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		Decision:    string(a.Status),
		Days:        a.NewDays,
		DecidedBy:   a.RespondedBy.String(),
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateBalance(ctx context.Context, employeeID string) {
	if s.balances == nil {
		return
	}
	if err := s.balances.Invalidate(ctx, employeeID); err != nil {
		s.logger.Warn("balance cache invalidation failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

func (s *service) auditDecision(ctx context.Context, a *LeaveAdjustmentRequest, responderID, comments string) {
	if s.audit == nil {
		return
	}
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:      "LEAVE_ADJUSTMENT_DECIDED",
		Message:     string(a.Status),
		ResponderID: responderID,
		Meta: map[string]any{
			"adjustment_id":    a.ID.String(),
			"leave_request_id": a.LeaveRequestID.String(),
			"is_cancellation":  a.IsCancellation,
			"comments":         comments,
		},
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, adjustmenterrors.ErrInvalidDateFormat
	}
	return t, nil
}
