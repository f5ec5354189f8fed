package companies

import (
	"context"
	"errors"

	"gorm.io/gorm"

	companiesdomain "hotlunchhub/internal/domain/companies"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]companiesdomain.Company, error) {
	var companies []companiesdomain.Company
	if err := r.db.WithContext(ctx).Order("name asc, id asc").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*companiesdomain.Company, error) {
	var company companiesdomain.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companiesdomain.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *PostgresRepository) Create(ctx context.Context, company *companiesdomain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&companiesdomain.Company{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return companiesdomain.ErrCompanyNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&companiesdomain.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return companiesdomain.ErrCompanyNotFound
	}
	return nil
}

func (r *PostgresRepository) CountEmployees(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&usersdomain.Employee{}).Where("company_id = ?", id).Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountOrders(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ordersdomain.Order{}).Where("company_id = ?", id).Count(&count).Error
	return count, err
}
