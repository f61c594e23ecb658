package ledger_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"leaveflow/internal/adjustment"
	"leaveflow/internal/authz"
	"leaveflow/internal/daycount"
	"leaveflow/internal/fiscal"
	"leaveflow/internal/leavetype"
	"leaveflow/internal/ledger"
	"leaveflow/internal/request"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// lifecycleStore backs the repositories of all three workflows with the
// same rows, so a decision in one is visible to the ledger of another.
type lifecycleStore struct {
	requests    map[string]*request.LeaveRequest
	breakups    map[string][]request.LeaveRequestDay
	takens      map[string]*request.LeaveTaken
	adjustments map[string]*adjustment.LeaveAdjustmentRequest
}

func newLifecycleStore() *lifecycleStore {
	return &lifecycleStore{
		requests:    map[string]*request.LeaveRequest{},
		breakups:    map[string][]request.LeaveRequestDay{},
		takens:      map[string]*request.LeaveTaken{},
		adjustments: map[string]*adjustment.LeaveAdjustmentRequest{},
	}
}

type storeRequestRepo struct{ store *lifecycleStore }

func (r *storeRequestRepo) WithTx(tx *sql.Tx) request.Repository { return r }

func (r *storeRequestRepo) Create(ctx context.Context, l *request.LeaveRequest) error {
	cp := *l
	r.store.requests[l.ID.String()] = &cp
	return nil
}

func (r *storeRequestRepo) Update(ctx context.Context, l *request.LeaveRequest) error {
	cp := *l
	r.store.requests[l.ID.String()] = &cp
	return nil
}

func (r *storeRequestRepo) FindByID(ctx context.Context, id string) (*request.LeaveRequest, error) {
	l, ok := r.store.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *storeRequestRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]request.LeaveRequest, error) {
	var out []request.LeaveRequest
	for _, l := range r.store.requests {
		if l.EmployeeID.String() == employeeID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *storeRequestRepo) ReplaceBreakup(ctx context.Context, requestID string, days []request.LeaveRequestDay) error {
	r.store.breakups[requestID] = days
	return nil
}

func (r *storeRequestRepo) DeleteBreakup(ctx context.Context, requestID string) error {
	delete(r.store.breakups, requestID)
	return nil
}

func (r *storeRequestRepo) FindBreakup(ctx context.Context, requestID string) ([]request.LeaveRequestDay, error) {
	return r.store.breakups[requestID], nil
}

func (r *storeRequestRepo) EmployeeGender(ctx context.Context, employeeID string) (string, error) {
	return "", nil
}

func (r *storeRequestRepo) CreateTaken(ctx context.Context, t *request.LeaveTaken) error {
	cp := *t
	r.store.takens[t.LeaveRequestID.String()] = &cp
	return nil
}

func (r *storeRequestRepo) UpdateTaken(ctx context.Context, t *request.LeaveTaken) error {
	cp := *t
	r.store.takens[t.LeaveRequestID.String()] = &cp
	return nil
}

func (r *storeRequestRepo) DeleteTaken(ctx context.Context, id string) error {
	for key, t := range r.store.takens {
		if t.ID.String() == id {
			delete(r.store.takens, key)
		}
	}
	return nil
}

func (r *storeRequestRepo) FindTakenByID(ctx context.Context, id string) (*request.LeaveTaken, error) {
	for _, t := range r.store.takens {
		if t.ID.String() == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *storeRequestRepo) FindTakenByRequestID(ctx context.Context, requestID string) (*request.LeaveTaken, error) {
	t, ok := r.store.takens[requestID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *storeRequestRepo) DeleteTakenByRequestID(ctx context.Context, requestID string) error {
	delete(r.store.takens, requestID)
	return nil
}

type storeAdjustmentRepo struct{ store *lifecycleStore }

func (r *storeAdjustmentRepo) WithTx(tx *sql.Tx) adjustment.Repository { return r }

func (r *storeAdjustmentRepo) Create(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error {
	cp := *a
	r.store.adjustments[a.ID.String()] = &cp
	return nil
}

func (r *storeAdjustmentRepo) Update(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error {
	cp := *a
	r.store.adjustments[a.ID.String()] = &cp
	return nil
}

func (r *storeAdjustmentRepo) FindByID(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error) {
	a, ok := r.store.adjustments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *storeAdjustmentRepo) FindAllByEmployee(ctx context.Context, employeeID string) ([]adjustment.LeaveAdjustmentRequest, error) {
	var out []adjustment.LeaveAdjustmentRequest
	for _, a := range r.store.adjustments {
		if a.EmployeeID.String() == employeeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *storeAdjustmentRepo) HasOpenForRequest(ctx context.Context, leaveRequestID string) (bool, error) {
	for _, a := range r.store.adjustments {
		if a.LeaveRequestID.String() == leaveRequestID && a.Status == adjustment.StatusSubmitted {
			return true, nil
		}
	}
	return false, nil
}

// storeLedgerRepo reconciles straight off the shared rows, the way the
// real repository aggregates over the tables.
type storeLedgerRepo struct {
	store    *lifecycleStore
	assigned map[string]float64
}

func (r *storeLedgerRepo) FindProfile(ctx context.Context, employeeID string) (*ledger.LeaveProfile, error) {
	return nil, nil
}

func (r *storeLedgerRepo) AssignmentTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error) {
	return r.assigned, nil
}

func (r *storeLedgerRepo) AvailedTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error) {
	totals := map[string]float64{}
	for _, t := range r.store.takens {
		if t.EmployeeID.String() == employeeID && t.FiscalYearNumber == fiscalYearNumber {
			totals[t.LeaveTypeID.String()] += t.Days
		}
	}
	return totals, nil
}

func (r *storeLedgerRepo) AdjustedTotals(ctx context.Context, employeeID string, fiscalYearNumber int) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func (r *storeLedgerRepo) AppliedTotals(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) (map[string]float64, error) {
	totals := map[string]float64{}
	for _, l := range r.store.requests {
		if l.EmployeeID.String() != employeeID || l.Status != request.StatusSubmitted {
			continue
		}
		if l.StartDate.Before(windowStart) || l.StartDate.After(windowEnd) {
			continue
		}
		totals[l.LeaveTypeID.String()] += float64(l.CountedDays)
	}
	return totals, nil
}

type lifecycleOfficerService struct{ officerID string }

func (f *lifecycleOfficerService) GetReportingOfficer(ctx context.Context, employeeID string) (string, error) {
	return f.officerID, nil
}

type lifecycleCounterService struct{}

func (f *lifecycleCounterService) Compute(ctx context.Context, in daycount.Input) (daycount.Result, error) {
	result := daycount.Result{}
	for d := in.From; !d.After(in.To); d = d.AddDate(0, 0, 1) {
		result.CalendarDays++
		result.CountedDays++
		result.Breakup = append(result.Breakup, daycount.BreakupDay{Date: d, Weekday: d.Weekday().String()})
	}
	return result, nil
}

// TestLeaveLifecycle_CancellationRestoresBalance walks a request through
// submit, approval, a cancellation adjustment and its approval, and
// checks the ledger lands back exactly where it started.
func TestLeaveLifecycle_CancellationRestoresBalance(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	officerID := uuid.New()
	casualID := uuid.New()

	store := newLifecycleStore()
	types := &fakeTypeRepository{types: []leavetype.LeaveType{
		{ID: casualID, Name: "Casual Leave", ShortCode: leavetype.CodeCasual},
	}}
	fiscals := &fakeFiscalService{year: fiscal.FiscalYear{
		Number: 2025,
		Start:  time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}}
	ledgerSvc := ledger.NewService(
		&storeLedgerRepo{store: store, assigned: map[string]float64{casualID.String(): 12}},
		types, fiscals, nil,
	)

	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	// Submit, approve, create cancellation, approve cancellation.
	for i := 0; i < 4; i++ {
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
	}

	requestRepo := &storeRequestRepo{store: store}
	authorizer := authz.NewReportingOfficerAuthorizer()
	requestSvc := request.NewService(
		db, requestRepo, types,
		&lifecycleOfficerService{officerID: officerID.String()},
		&lifecycleCounterService{}, fiscals, authorizer,
	)
	adjustmentSvc := adjustment.NewService(
		db, &storeAdjustmentRepo{store: store}, requestRepo,
		&lifecycleCounterService{}, authorizer,
	)

	before, err := ledgerSvc.GetBalance(ctx, employeeID.String())
	assert.NoError(t, err)
	assert.Equal(t, 12.0, before.Balances[0].Balance)

	submitted, err := requestSvc.Submit(ctx, employeeID.String(), request.SubmitLeaveRequest{
		EmployeeID:  employeeID.String(),
		LeaveTypeID: casualID.String(),
		StartDate:   "2025-06-02",
		EndDate:     "2025-06-04",
		Reason:      "Family function",
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, submitted.CountedDays)

	decided, err := requestSvc.Decide(ctx, officerID.String(), submitted.ID, request.DecideLeaveRequest{
		Decision: "APPROVE",
	})
	assert.NoError(t, err)
	assert.True(t, decided.Applied)

	afterApproval, err := ledgerSvc.GetBalance(ctx, employeeID.String())
	assert.NoError(t, err)
	assert.Equal(t, 9.0, afterApproval.Balances[0].Balance)
	assert.Equal(t, 3.0, afterApproval.Balances[0].Availed)

	created, err := adjustmentSvc.CreateCancellation(ctx, employeeID.String(), adjustment.CreateCancellationRequest{
		LeaveRequestID: submitted.ID,
		Reason:         "Trip called off",
	})
	assert.NoError(t, err)
	assert.True(t, created.Applied)

	adjDecided, err := adjustmentSvc.Decide(ctx, officerID.String(), created.Adjustment.ID, adjustment.DecideAdjustmentRequest{
		Decision: "APPROVE",
	})
	assert.NoError(t, err)
	assert.True(t, adjDecided.Applied)

	final, err := ledgerSvc.GetBalance(ctx, employeeID.String())
	assert.NoError(t, err)
	assert.Equal(t, before.Balances[0].Balance, final.Balances[0].Balance)
	assert.Equal(t, 0.0, final.Balances[0].Availed)
	assert.Equal(t, 0.0, final.Balances[0].Applied)

	l, err := requestRepo.FindByID(ctx, submitted.ID)
	assert.NoError(t, err)
	assert.Equal(t, request.StatusCancelled, l.Status)
	assert.Empty(t, store.breakups[submitted.ID])
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
