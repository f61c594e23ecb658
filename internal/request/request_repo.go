package request

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, l *LeaveRequest) error
	Update(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	// ReplaceBreakup deletes any existing day rows for the request and
	// inserts the given set.
	ReplaceBreakup(ctx context.Context, requestID string, days []LeaveRequestDay) error
	DeleteBreakup(ctx context.Context, requestID string) error
	FindBreakup(ctx context.Context, requestID string) ([]LeaveRequestDay, error)

	// EmployeeGender reads the gender column off the employees table,
	// used to enforce per-type gender restrictions. Returns "" when the
	// employee row is missing.
	EmployeeGender(ctx context.Context, employeeID string) (string, error)

	CreateTaken(ctx context.Context, t *LeaveTaken) error
	UpdateTaken(ctx context.Context, t *LeaveTaken) error
	DeleteTaken(ctx context.Context, id string) error
	FindTakenByID(ctx context.Context, id string) (*LeaveTaken, error)
	FindTakenByRequestID(ctx context.Context, requestID string) (*LeaveTaken, error)
	DeleteTakenByRequestID(ctx context.Context, requestID string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns the gorm handle every query runs on. When the repository
// was obtained through WithTx, the statement's connection is swapped for
// the transaction so the write commits or rolls back with it.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) ReplaceBreakup(ctx context.Context, requestID string, days []LeaveRequestDay) error {
	if err := r.DeleteBreakup(ctx, requestID); err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&days).Error
}

func (r *repository) DeleteBreakup(ctx context.Context, requestID string) error {
	return r.conn(ctx).
		Where("leave_request_id = ?", requestID).
		Delete(&LeaveRequestDay{}).Error
}

func (r *repository) FindBreakup(ctx context.Context, requestID string) ([]LeaveRequestDay, error) {
	var days []LeaveRequestDay
	err := r.conn(ctx).
		Where("leave_request_id = ?", requestID).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

func (r *repository) EmployeeGender(ctx context.Context, employeeID string) (string, error) {
	var gender string
	err := r.conn(ctx).
		Table("employees").
		Select("gender").
		Where("id = ?", employeeID).
		Scan(&gender).Error
	return gender, err
}

func (r *repository) CreateTaken(ctx context.Context, t *LeaveTaken) error {
	return r.conn(ctx).Create(t).Error
}

func (r *repository) UpdateTaken(ctx context.Context, t *LeaveTaken) error {
	return r.conn(ctx).Save(t).Error
}

func (r *repository) DeleteTaken(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&LeaveTaken{}, "id = ?", id).Error
}

func (r *repository) FindTakenByID(ctx context.Context, id string) (*LeaveTaken, error) {
	var t LeaveTaken
	err := r.conn(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindTakenByRequestID(ctx context.Context, requestID string) (*LeaveTaken, error) {
	var t LeaveTaken
	err := r.conn(ctx).First(&t, "leave_request_id = ?", requestID).Error
	return &t, err
}

func (r *repository) DeleteTakenByRequestID(ctx context.Context, requestID string) error {
	return r.conn(ctx).Delete(&LeaveTaken{}, "leave_request_id = ?", requestID).Error
}
