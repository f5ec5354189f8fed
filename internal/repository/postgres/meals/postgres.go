package meals

import (
	"context"
	"errors"

	"gorm.io/gorm"

	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, filter mealsdomain.Filter) ([]mealsdomain.Meal, error) {
	query := r.db.WithContext(ctx).Model(&mealsdomain.Meal{})
	if filter.CookID != nil {
		query = query.Where("cook_id = ?", *filter.CookID)
	}
	if filter.SpecialOnly {
		query = query.Where("is_special = ?", true)
	}

	var meals []mealsdomain.Meal
	if err := query.Order("name asc, id asc").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*mealsdomain.Meal, error) {
	var meal mealsdomain.Meal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mealsdomain.ErrMealNotFound
		}
		return nil, err
	}
	return &meal, nil
}

func (r *PostgresRepository) Create(ctx context.Context, meal *mealsdomain.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&mealsdomain.Meal{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mealsdomain.ErrMealNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&mealsdomain.Meal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mealsdomain.ErrMealNotFound
	}
	return nil
}

func (r *PostgresRepository) CountOrders(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ordersdomain.Order{}).Where("meal_id = ?", id).Count(&count).Error
	return count, err
}
