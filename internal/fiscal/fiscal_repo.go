package fiscal

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=fiscal_repo.go -destination=mock/fiscal_repo_mock.go -package=mock
type Repository interface {
	FindActive(ctx context.Context) (*FiscalYear, error)
	FindByNumber(ctx context.Context, number int) (*FiscalYear, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActive(ctx context.Context) (*FiscalYear, error) {
	var fy FiscalYear
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		First(&fy).Error
	return &fy, err
}

func (r *repository) FindByNumber(ctx context.Context, number int) (*FiscalYear, error) {
	var fy FiscalYear
	err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&fy).Error
	return &fy, err
}
