package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"leaveflow/internal/authz"
	"leaveflow/internal/bootstrap"
	"leaveflow/internal/daycount"
	"leaveflow/internal/events"
	"leaveflow/internal/fiscal"
	"leaveflow/internal/leavetype"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/officer"
	requesterrors "leaveflow/internal/request/errors"
	"leaveflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BalanceInvalidator is implemented by the ledger cache. Every write
// that can move a balance (submit, edit, cancel, decide) drops the
// employee's cached entry.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, employeeID string) error
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Preview(ctx context.Context, req SubmitLeaveRequest) (daycount.Result, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	GetBreakup(ctx context.Context, id string) ([]BreakupDayResponse, error)

	// Edit and Cancel return ok=false, err=nil when the precondition
	// fails (wrong actor or the request is no longer open).
	Edit(ctx context.Context, actorID, id string, req EditLeaveRequest) (LeaveRequestResponse, bool, error)
	Cancel(ctx context.Context, actorID, id string) (bool, error)

	Decide(ctx context.Context, actorID, id string, req DecideLeaveRequest) (DecideResult, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	types      leavetype.Repository
	officers   officer.Service
	counter    daycount.Service
	fiscals    fiscal.Service
	authorizer authz.Authorizer
	outbox     kafka.OutboxRepository
	audit      bootstrap.AuditLogger
	balances   BalanceInvalidator
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	types leavetype.Repository,
	officers officer.Service,
	counter daycount.Service,
	fiscals fiscal.Service,
	authorizer authz.Authorizer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		types:      types,
		officers:   officers,
		counter:    counter,
		fiscals:    fiscals,
		authorizer: authorizer,
		logger:     l,
	}
}

// NewServiceWithIntegrations wires the optional collaborators: the
// transactional outbox, the audit sink, and the ledger cache.
func NewServiceWithIntegrations(
	db *sql.DB,
	repo Repository,
	types leavetype.Repository,
	officers officer.Service,
	counter daycount.Service,
	fiscals fiscal.Service,
	authorizer authz.Authorizer,
	outbox kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	balances BalanceInvalidator,
	logger ...*zap.Logger,
) Service {
	s := NewService(db, repo, types, officers, counter, fiscals, authorizer, logger...).(*service)
	s.outbox = outbox
	s.audit = audit
	s.balances = balances
	return s
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("submit leave request",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, requesterrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, requesterrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, requesterrors.ErrInvalidLeaveTypeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	lt, err := s.types.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, requesterrors.ErrInvalidLeaveTypeID
		}
		return LeaveRequestResponse{}, err
	}
	if err := s.checkGenderRestriction(ctx, lt, req.EmployeeID); err != nil {
		return LeaveRequestResponse{}, err
	}

	officerID, err := s.officers.GetReportingOfficer(ctx, req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if officerID == "" {
		return LeaveRequestResponse{}, requesterrors.ErrNoReportingOfficer
	}
	officerUUID, err := uuid.Parse(officerID)
	if err != nil {
		return LeaveRequestResponse{}, requesterrors.ErrNoReportingOfficer
	}

	count, err := s.counter.Compute(ctx, daycount.Input{
		From:        startDate,
		To:          endDate,
		LocationID:  req.LocationID,
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		IsShort:     req.IsShort,
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if count.CountedDays == 0 {
		return LeaveRequestResponse{}, requesterrors.ErrNoCountableDays
	}

	l := &LeaveRequest{
		ID:                 uuid.New(),
		EmployeeID:         employeeUUID,
		LeaveTypeID:        typeUUID,
		StartDate:          startDate,
		EndDate:            endDate,
		IsShort:            req.IsShort,
		CalendarDays:       count.CalendarDays,
		CountedDays:        count.CountedDays,
		Reason:             req.Reason,
		ContactAddress:     req.ContactAddress,
		Recommenders:       req.Recommenders,
		Status:             StatusSubmitted,
		CreatedBy:          actorUUID,
		ReportingOfficerID: officerUUID,
	}
	if req.LocationID != "" {
		if locUUID, err := uuid.Parse(req.LocationID); err == nil {
			l.LocationID = &locUUID
		}
	}
	if err := applyOptionalDates(l, req.TravelStartDate, req.TravelEndDate, nil, nil); err != nil {
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := qtx.ReplaceBreakup(ctx, l.ID.String(), breakupRows(l.ID, count.Breakup)); err != nil {
		s.logger.Error("submit leave breakup persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.invalidateBalance(ctx, req.EmployeeID)
	s.logger.Info("submit leave success",
		zap.String("request_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("counted_days", l.CountedDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) Preview(ctx context.Context, req SubmitLeaveRequest) (daycount.Result, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return daycount.Result{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return daycount.Result{}, err
	}
	return s.counter.Compute(ctx, daycount.Input{
		From:        startDate,
		To:          endDate,
		LocationID:  req.LocationID,
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		IsShort:     req.IsShort,
	})
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetBreakup(ctx context.Context, id string) ([]BreakupDayResponse, error) {
	days, err := s.repo.FindBreakup(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapBreakupToResponse(days), nil
}

// Edit re-runs the day counter and re-materializes the breakup. It is a
// silent no-op unless the request is still Submitted and the actor is
// its requester.
func (s *service) Edit(ctx context.Context, actorID, id string, req EditLeaveRequest) (LeaveRequestResponse, bool, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, false, nil
		}
		return LeaveRequestResponse{}, false, err
	}

	if l.Status != StatusSubmitted || l.CreatedBy.String() != actorID {
		s.logger.Debug("edit leave precondition failed",
			zap.String("request_id", id),
			zap.String("actor_id", actorID),
			zap.String("status", string(l.Status)),
		)
		return LeaveRequestResponse{}, false, nil
	}

	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, false, requesterrors.ErrInvalidLeaveTypeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, false, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, false, err
	}

	locationID := ""
	if l.LocationID != nil {
		locationID = l.LocationID.String()
	}
	count, err := s.counter.Compute(ctx, daycount.Input{
		From:        startDate,
		To:          endDate,
		LocationID:  locationID,
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: req.LeaveTypeID,
		IsShort:     req.IsShort,
	})
	if err != nil {
		return LeaveRequestResponse{}, false, err
	}
	if count.CountedDays == 0 {
		return LeaveRequestResponse{}, false, requesterrors.ErrNoCountableDays
	}

	l.LeaveTypeID = typeUUID
	l.StartDate = startDate
	l.EndDate = endDate
	l.IsShort = req.IsShort
	l.CalendarDays = count.CalendarDays
	l.CountedDays = count.CountedDays
	l.Reason = req.Reason
	l.ContactAddress = req.ContactAddress
	l.Recommenders = req.Recommenders
	if err := applyOptionalDates(l, req.TravelStartDate, req.TravelEndDate, req.DepartureDate, req.JoiningDate); err != nil {
		return LeaveRequestResponse{}, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, l); err != nil {
		return LeaveRequestResponse{}, false, err
	}
	if err := qtx.ReplaceBreakup(ctx, l.ID.String(), breakupRows(l.ID, count.Breakup)); err != nil {
		return LeaveRequestResponse{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, false, err
	}

	s.invalidateBalance(ctx, l.EmployeeID.String())
	s.logger.Info("edit leave success",
		zap.String("request_id", id),
		zap.Int("counted_days", l.CountedDays),
	)

	return mapToResponse(*l), true, nil
}

// Cancel is self-withdrawal of a still-open request by its requester;
// any other actor is a silent no-op. Approved requests can only become
// Cancelled through the adjustment workflow.
func (s *service) Cancel(ctx context.Context, actorID, id string) (bool, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if l.Status != StatusSubmitted || l.CreatedBy.String() != actorID || !CanTransition(l.Status, StatusCancelled) {
		s.logger.Debug("cancel leave precondition failed",
			zap.String("request_id", id),
			zap.String("actor_id", actorID),
			zap.String("status", string(l.Status)),
		)
		return false, nil
	}

	l.Status = StatusCancelled

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Update(ctx, l); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.invalidateBalance(ctx, l.EmployeeID.String())
	s.logger.Info("cancel leave success", zap.String("request_id", id))
	return true, nil
}

// Decide applies an approve/reject decision. Applied=false (no error)
// when the actor is not the stored reporting officer or the request has
// already been decided. Approval creates the LeaveTaken row in the same
// transaction, the single point that increases availed.
func (s *service) Decide(ctx context.Context, actorID, id string, req DecideLeaveRequest) (DecideResult, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecideResult{}, requesterrors.ErrRequestNotFound
		}
		return DecideResult{}, err
	}

	if !s.authorizer.Authorize(actorID, authz.Resource{
		Kind:               "leave_request",
		ReportingOfficerID: l.ReportingOfficerID.String(),
	}, authz.ActionDecide) {
		s.logger.Warn("decide leave not authorized",
			zap.String("request_id", id),
			zap.String("actor_id", actorID),
		)
		return DecideResult{Applied: false}, nil
	}

	target := StatusRejected
	eventType := events.EventTypeLeaveRejected
	if Decision(req.Decision) == DecisionApprove {
		target = StatusApproved
		eventType = events.EventTypeLeaveApproved
	}
	if !CanTransition(l.Status, target) {
		// Already decided or withdrawn; repeat decides are no-ops.
		return DecideResult{Applied: false}, nil
	}

	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return DecideResult{}, requesterrors.ErrInvalidActorID
	}

	now := time.Now().UTC()
	l.Status = target
	l.RespondedBy = &approverUUID
	l.RespondedAt = &now
	if req.Comments != "" {
		l.ResponseComments = &req.Comments
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return DecideResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed", zap.String("request_id", id), zap.Error(err))
		return DecideResult{}, err
	}

	if target == StatusApproved {
		fy, err := s.fiscals.Active(ctx)
		if err != nil {
			return DecideResult{}, err
		}
		taken := &LeaveTaken{
			ID:               uuid.New(),
			LeaveRequestID:   l.ID,
			EmployeeID:       l.EmployeeID,
			LeaveTypeID:      l.LeaveTypeID,
			StartDate:        l.StartDate,
			EndDate:          l.EndDate,
			Days:             float64(l.CountedDays),
			FiscalYearNumber: fy.Number,
		}
		if fy.ID != uuid.Nil {
			fyID := fy.ID
			taken.FiscalYearID = &fyID
		}
		if err := qtx.CreateTaken(ctx, taken); err != nil {
			s.logger.Error("decide leave taken persist failed", zap.String("request_id", id), zap.Error(err))
			return DecideResult{}, err
		}
	}

	if err := s.enqueueDecisionEvent(ctx, tx, l, eventType); err != nil {
		s.logger.Error("decide leave outbox enqueue failed", zap.String("request_id", id), zap.Error(err))
		return DecideResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("request_id", id), zap.Error(err))
		return DecideResult{}, err
	}

	s.invalidateBalance(ctx, l.EmployeeID.String())
	s.auditDecision(ctx, "LEAVE_REQUEST_DECIDED", l.ID.String(), actorID, string(target), req.Comments)
	s.logger.Info("decide leave success",
		zap.String("request_id", id),
		zap.String("status", string(target)),
	)

	resp := mapToResponse(*l)
	return DecideResult{Applied: true, Request: &resp}, nil
}

func (s *service) checkGenderRestriction(ctx context.Context, lt *leavetype.LeaveType, employeeID string) error {
	if lt.GenderRestriction == nil || *lt.GenderRestriction == "" {
		return nil
	}
	gender, err := s.repo.EmployeeGender(ctx, employeeID)
	if err != nil {
		return err
	}
	if gender != "" && gender != *lt.GenderRestriction {
		return requesterrors.ErrGenderRestricted
	}
	return nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:   eventType,
		RequestID:   l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		Decision:    string(l.Status),
		Days:        float64(l.CountedDays),
		DecidedBy:   l.RespondedBy.String(),
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

func (s *service) auditDecision(ctx context.Context, action, requestID, responderID, decision, comments string) {
	if s.audit == nil {
		return
	}
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:      action,
		Message:     decision,
		ResponderID: responderID,
		Meta: map[string]any{
			"request_id": requestID,
			"comments":   comments,
		},
	})
}

func breakupRows(requestID uuid.UUID, breakup []daycount.BreakupDay) []LeaveRequestDay {
	rows := make([]LeaveRequestDay, len(breakup))
	for i, d := range breakup {
		rows[i] = LeaveRequestDay{
			ID:             uuid.New(),
			LeaveRequestID: requestID,
			Date:           d.Date,
			Weekday:        d.Weekday,
		}
	}
	return rows
}

func applyOptionalDates(l *LeaveRequest, travelStart, travelEnd, departure, joining *string) error {
	set := func(dst **time.Time, v *string) error {
		if v == nil || *v == "" {
			return nil
		}
		d, err := parseDate(*v)
		if err != nil {
			return err
		}
		*dst = &d
		return nil
	}
	if err := set(&l.TravelStartDate, travelStart); err != nil {
		return err
	}
	if err := set(&l.TravelEndDate, travelEnd); err != nil {
		return err
	}
	if err := set(&l.DepartureDate, departure); err != nil {
		return err
	}
	return set(&l.JoiningDate, joining)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	return t, nil
}
