package assignment

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=assignment_repo.go -destination=mock/assignment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// Upsert inserts or overwrites the (employee, type, year) grant.
	Upsert(ctx context.Context, a *LeaveAssignment) error
	FindAllByEmployee(ctx context.Context, employeeID string, fiscalYearNumber int) ([]LeaveAssignment, error)
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

func (r *repository) Upsert(ctx context.Context, a *LeaveAssignment) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"},
				{Name: "leave_type_id"},
				{Name: "fiscal_year_number"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"days", "assigned_by", "updated_at"}),
		}).
		Create(a).Error
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string, fiscalYearNumber int) ([]LeaveAssignment, error) {
	var assignments []LeaveAssignment
	err := r.conn(ctx).
		Where("employee_id = ? AND fiscal_year_number = ?", employeeID, fiscalYearNumber).
		Find(&assignments).Error
	return assignments, err
}
