package adjustment_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"leaveflow/internal/adjustment"
	adjustmenterrors "leaveflow/internal/adjustment/errors"
	"leaveflow/internal/authz"
	"leaveflow/internal/daycount"
	"leaveflow/internal/request"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAdjustmentRepository struct {
	withTxFn            func(tx *sql.Tx) adjustment.Repository
	createFn            func(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error
	updateFn            func(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error
	findByIDFn          func(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error)
	findAllByEmployeeFn func(ctx context.Context, employeeID string) ([]adjustment.LeaveAdjustmentRequest, error)
	hasOpenForRequestFn func(ctx context.Context, leaveRequestID string) (bool, error)
}

func (f *fakeAdjustmentRepository) WithTx(tx *sql.Tx) adjustment.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAdjustmentRepository) Create(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAdjustmentRepository) Update(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAdjustmentRepository) FindByID(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdjustmentRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]adjustment.LeaveAdjustmentRequest, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeAdjustmentRepository) HasOpenForRequest(ctx context.Context, leaveRequestID string) (bool, error) {
	if f.hasOpenForRequestFn != nil {
		return f.hasOpenForRequestFn(ctx, leaveRequestID)
	}
	return false, nil
}

// fakeRequestRepository implements request.Repository for the request
// rows the adjustment workflow reads and rewrites.
type fakeRequestRepository struct {
	request.Repository

	findByIDFn               func(ctx context.Context, id string) (*request.LeaveRequest, error)
	updateFn                 func(ctx context.Context, l *request.LeaveRequest) error
	replaceBreakupFn         func(ctx context.Context, requestID string, days []request.LeaveRequestDay) error
	deleteBreakupFn          func(ctx context.Context, requestID string) error
	updateTakenFn            func(ctx context.Context, taken *request.LeaveTaken) error
	findTakenByRequestIDFn   func(ctx context.Context, requestID string) (*request.LeaveTaken, error)
	deleteTakenByRequestIDFn func(ctx context.Context, requestID string) error
}

func (f *fakeRequestRepository) WithTx(tx *sql.Tx) request.Repository { return f }

func (f *fakeRequestRepository) FindByID(ctx context.Context, id string) (*request.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) Update(ctx context.Context, l *request.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeRequestRepository) ReplaceBreakup(ctx context.Context, requestID string, days []request.LeaveRequestDay) error {
	if f.replaceBreakupFn != nil {
		return f.replaceBreakupFn(ctx, requestID, days)
	}
	return nil
}

func (f *fakeRequestRepository) DeleteBreakup(ctx context.Context, requestID string) error {
	if f.deleteBreakupFn != nil {
		return f.deleteBreakupFn(ctx, requestID)
	}
	return nil
}

func (f *fakeRequestRepository) UpdateTaken(ctx context.Context, taken *request.LeaveTaken) error {
	if f.updateTakenFn != nil {
		return f.updateTakenFn(ctx, taken)
	}
	return nil
}

func (f *fakeRequestRepository) FindTakenByRequestID(ctx context.Context, requestID string) (*request.LeaveTaken, error) {
	if f.findTakenByRequestIDFn != nil {
		return f.findTakenByRequestIDFn(ctx, requestID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) DeleteTakenByRequestID(ctx context.Context, requestID string) error {
	if f.deleteTakenByRequestIDFn != nil {
		return f.deleteTakenByRequestIDFn(ctx, requestID)
	}
	return nil
}

type fakeCounterService struct {
	computeFn func(ctx context.Context, in daycount.Input) (daycount.Result, error)
}

func (f *fakeCounterService) Compute(ctx context.Context, in daycount.Input) (daycount.Result, error) {
	if f.computeFn != nil {
		return f.computeFn(ctx, in)
	}
	return daycount.Result{}, nil
}

type adjustmentServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	repo     *fakeAdjustmentRepository
	requests *fakeRequestRepository
	counter  *fakeCounterService
	service  adjustment.Service
}

func setupAdjustmentServiceTest(t *testing.T) *adjustmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAdjustmentRepository{}
	requests := &fakeRequestRepository{}
	counter := &fakeCounterService{
		computeFn: func(ctx context.Context, in daycount.Input) (daycount.Result, error) {
			result := daycount.Result{}
			for d := in.From; !d.After(in.To); d = d.AddDate(0, 0, 1) {
				result.CalendarDays++
				result.CountedDays++
				result.Breakup = append(result.Breakup, daycount.BreakupDay{Date: d, Weekday: d.Weekday().String()})
			}
			return result, nil
		},
	}

	svc := adjustment.NewService(
		db, repo, requests, counter,
		authz.NewReportingOfficerAuthorizer(),
	)

	return &adjustmentServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		repo:     repo,
		requests: requests,
		counter:  counter,
		service:  svc,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func approvedRequest(id, employeeID, officerID uuid.UUID) *request.LeaveRequest {
	return &request.LeaveRequest{
		ID:                 id,
		EmployeeID:         employeeID,
		LeaveTypeID:        uuid.New(),
		StartDate:          time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
		CalendarDays:       5,
		CountedDays:        5,
		Status:             request.StatusApproved,
		ReportingOfficerID: officerID,
	}
}

func TestAdjustmentService_CreateResize(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	officerID := uuid.New().String()
	officerUUID := uuid.MustParse(officerID)
	requestID := uuid.New()
	employeeID := uuid.New()

	createReq := adjustment.CreateResizeRequest{
		LeaveRequestID: requestID.String(),
		NewStartDate:   "2025-06-02",
		NewEndDate:     "2025-06-04",
		Reason:         "Returned early",
	}

	t.Run("success records the day delta", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			return approvedRequest(requestID, employeeID, officerUUID), nil
		}
		deps.requests.findTakenByRequestIDFn = func(ctx context.Context, id string) (*request.LeaveTaken, error) {
			return &request.LeaveTaken{LeaveRequestID: requestID, Days: 5}, nil
		}
		deps.repo.createFn = func(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error {
			assert.False(t, a.IsCancellation)
			assert.Equal(t, 5.0, a.OriginalDays)
			assert.Equal(t, 3.0, a.NewDays)
			// The approver is the officer recorded on the originating
			// request, not a fresh chain resolution.
			assert.Equal(t, officerUUID, a.ReportingOfficerID)
			return nil
		}

		result, err := deps.service.CreateResize(ctx, actorID, createReq)

		assert.NoError(t, err)
		assert.True(t, result.Applied)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative request without an officer is rejected", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			return approvedRequest(requestID, employeeID, uuid.Nil), nil
		}
		deps.requests.findTakenByRequestIDFn = func(ctx context.Context, id string) (*request.LeaveTaken, error) {
			return &request.LeaveTaken{LeaveRequestID: requestID, Days: 5}, nil
		}

		_, err := deps.service.CreateResize(ctx, actorID, createReq)

		assert.ErrorIs(t, err, adjustmenterrors.ErrNoReportingOfficer)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("silent no-op on a non-approved request", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			l := approvedRequest(requestID, employeeID, officerUUID)
			l.Status = request.StatusSubmitted
			return l, nil
		}

		result, err := deps.service.CreateResize(ctx, actorID, createReq)

		assert.NoError(t, err)
		assert.False(t, result.Applied)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("losing the open-adjustment race is a silent no-op", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			return approvedRequest(requestID, employeeID, officerUUID), nil
		}
		deps.requests.findTakenByRequestIDFn = func(ctx context.Context, id string) (*request.LeaveTaken, error) {
			return &request.LeaveTaken{LeaveRequestID: requestID, Days: 5}, nil
		}
		deps.repo.createFn = func(ctx context.Context, a *adjustment.LeaveAdjustmentRequest) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_adjustments_open"}
		}

		result, err := deps.service.CreateResize(ctx, actorID, createReq)

		assert.NoError(t, err)
		assert.False(t, result.Applied)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("silent no-op when an adjustment is already open", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			return approvedRequest(requestID, employeeID, officerUUID), nil
		}
		deps.repo.hasOpenForRequestFn = func(ctx context.Context, id string) (bool, error) {
			return true, nil
		}

		result, err := deps.service.CreateResize(ctx, actorID, createReq)

		assert.NoError(t, err)
		assert.False(t, result.Applied)
	})
}

func TestAdjustmentService_Decide(t *testing.T) {
	ctx := context.Background()
	officerID := uuid.New().String()
	officerUUID := uuid.MustParse(officerID)
	adjustmentID := uuid.New()
	requestID := uuid.New()
	employeeID := uuid.New()

	openCancellation := func() *adjustment.LeaveAdjustmentRequest {
		return &adjustment.LeaveAdjustmentRequest{
			ID:                 adjustmentID,
			LeaveRequestID:     requestID,
			EmployeeID:         employeeID,
			IsCancellation:     true,
			OriginalDays:       5,
			NewDays:            0,
			Status:             adjustment.StatusSubmitted,
			ReportingOfficerID: uuid.MustParse(officerID),
		}
	}

	openResize := func() *adjustment.LeaveAdjustmentRequest {
		newStart := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
		newEnd := time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC)
		return &adjustment.LeaveAdjustmentRequest{
			ID:                 adjustmentID,
			LeaveRequestID:     requestID,
			EmployeeID:         employeeID,
			NewStartDate:       &newStart,
			NewEndDate:         &newEnd,
			OriginalDays:       5,
			NewDays:            3,
			Status:             adjustment.StatusSubmitted,
			ReportingOfficerID: uuid.MustParse(officerID),
		}
	}

	t.Run("approved cancellation undoes the leave", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error) {
			return openCancellation(), nil
		}
		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			return approvedRequest(requestID, employeeID, officerUUID), nil
		}

		var statusSet request.Status
		var breakupDeleted, takenDeleted bool
		deps.requests.updateFn = func(ctx context.Context, l *request.LeaveRequest) error {
			statusSet = l.Status
			return nil
		}
		deps.requests.deleteBreakupFn = func(ctx context.Context, id string) error {
			breakupDeleted = true
			return nil
		}
		deps.requests.deleteTakenByRequestIDFn = func(ctx context.Context, id string) error {
			takenDeleted = true
			return nil
		}

		result, err := deps.service.Decide(ctx, officerID, adjustmentID.String(), adjustment.DecideAdjustmentRequest{
			Decision: "APPROVE",
		})

		assert.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, request.StatusCancelled, statusSet)
		assert.True(t, breakupDeleted)
		assert.True(t, takenDeleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved resize overwrites the availed days", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error) {
			return openResize(), nil
		}
		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			return approvedRequest(requestID, employeeID, officerUUID), nil
		}
		deps.requests.findTakenByRequestIDFn = func(ctx context.Context, id string) (*request.LeaveTaken, error) {
			return &request.LeaveTaken{LeaveRequestID: requestID, Days: 5}, nil
		}

		var newDays float64
		var breakupRows int
		deps.requests.updateTakenFn = func(ctx context.Context, taken *request.LeaveTaken) error {
			newDays = taken.Days
			return nil
		}
		deps.requests.replaceBreakupFn = func(ctx context.Context, id string, days []request.LeaveRequestDay) error {
			breakupRows = len(days)
			return nil
		}

		result, err := deps.service.Decide(ctx, officerID, adjustmentID.String(), adjustment.DecideAdjustmentRequest{
			Decision: "APPROVE",
		})

		assert.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, 3.0, newDays)
		assert.Equal(t, 3, breakupRows)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject leaves the leave request untouched", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error) {
			return openCancellation(), nil
		}
		deps.requests.findByIDFn = func(ctx context.Context, id string) (*request.LeaveRequest, error) {
			t.Fatal("reject must not read the leave request")
			return nil, nil
		}

		result, err := deps.service.Decide(ctx, officerID, adjustmentID.String(), adjustment.DecideAdjustmentRequest{
			Decision: "REJECT",
		})

		assert.NoError(t, err)
		assert.True(t, result.Applied)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("wrong actor is a silent no-op", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error) {
			return openCancellation(), nil
		}

		result, err := deps.service.Decide(ctx, uuid.New().String(), adjustmentID.String(), adjustment.DecideAdjustmentRequest{
			Decision: "APPROVE",
		})

		assert.NoError(t, err)
		assert.False(t, result.Applied)
	})

	t.Run("repeat decide is a no-op", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*adjustment.LeaveAdjustmentRequest, error) {
			a := openCancellation()
			a.Status = adjustment.StatusApproved
			return a, nil
		}

		result, err := deps.service.Decide(ctx, officerID, adjustmentID.String(), adjustment.DecideAdjustmentRequest{
			Decision: "APPROVE",
		})

		assert.NoError(t, err)
		assert.False(t, result.Applied)
	})
}
