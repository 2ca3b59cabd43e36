package authz

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=role_repo.go -destination=mock/role_repo_mock.go -package=mock
type Repository interface {
	ListAll(ctx context.Context) ([]EmployeeRole, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]EmployeeRole, error) {
	var roles []EmployeeRole
	err := r.db.WithContext(ctx).Find(&roles).Error
	return roles, err
}
