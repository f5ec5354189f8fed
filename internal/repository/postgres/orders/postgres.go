package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, filter ordersdomain.Filter) ([]ordersdomain.Order, error) {
	query := r.db.WithContext(ctx).Model(&ordersdomain.Order{})
	if filter.Status != nil {
		query = query.Where("orders.status = ?", *filter.Status)
	}
	if filter.EmployeeID != nil {
		query = query.Where("orders.employee_id = ?", *filter.EmployeeID)
	}
	if filter.CompanyID != nil {
		query = query.Where("orders.company_id = ?", *filter.CompanyID)
	}
	if filter.MealID != nil {
		query = query.Where("orders.meal_id = ?", *filter.MealID)
	}
	if filter.CookID != nil {
		query = query.
			Joins("JOIN meals ON meals.id = orders.meal_id").
			Where("meals.cook_id = ?", *filter.CookID)
	}

	var orders []ordersdomain.Order
	if err := query.Order("orders.created_at desc, orders.id desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	var order ordersdomain.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersdomain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) Create(ctx context.Context, order *ordersdomain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, from, to ordersdomain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&ordersdomain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ordersdomain.ErrStatusConflict
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&ordersdomain.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ordersdomain.ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) EmployeeCompany(ctx context.Context, employeeID int64) (*int64, error) {
	var employee usersdomain.Employee
	if err := r.db.WithContext(ctx).Select("id", "company_id").Where("id = ?", employeeID).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersdomain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.CompanyID, nil
}

func (r *PostgresRepository) MealCook(ctx context.Context, mealID int64) (*int64, error) {
	var meal mealsdomain.Meal
	if err := r.db.WithContext(ctx).Select("id", "cook_id").Where("id = ?", mealID).First(&meal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersdomain.ErrMealNotFound
		}
		return nil, err
	}
	return meal.CookID, nil
}
