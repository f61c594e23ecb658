package adjustment

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, a *LeaveAdjustmentRequest) error
	Update(ctx context.Context, a *LeaveAdjustmentRequest) error
	FindByID(ctx context.Context, id string) (*LeaveAdjustmentRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveAdjustmentRequest, error)

	// HasOpenForRequest reports whether the leave request already has a
	// Submitted adjustment; at most one may be open at a time.
	HasOpenForRequest(ctx context.Context, leaveRequestID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, a *LeaveAdjustmentRequest) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *LeaveAdjustmentRequest) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveAdjustmentRequest, error) {
	var a LeaveAdjustmentRequest
	err := r.conn(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveAdjustmentRequest, error) {
	var adjustments []LeaveAdjustmentRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&adjustments).Error
	return adjustments, err
}

func (r *repository) HasOpenForRequest(ctx context.Context, leaveRequestID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveAdjustmentRequest{}).
		Where("leave_request_id = ? AND status = ?", leaveRequestID, StatusSubmitted).
		Count(&count).Error
	return count > 0, err
}
