package daycount

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=daycount_repo.go -destination=mock/daycount_repo_mock.go -package=mock
type Repository interface {
	// EmployeeNature reads the employment nature (teaching, non-teaching,
	// daily wage, ...) used by the off-cover lookup.
	EmployeeNature(ctx context.Context, employeeID string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) EmployeeNature(ctx context.Context, employeeID string) (string, error) {
	var nature string
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("nature").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Scan(&nature).Error
	return nature, err
}
