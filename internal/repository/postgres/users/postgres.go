package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	companiesdomain "hotlunchhub/internal/domain/companies"
	mealsdomain "hotlunchhub/internal/domain/meals"
	domain "hotlunchhub/internal/domain/users"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresRepository) UpdateProfileStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteProfile(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Profile{}).Error
}

func (r *PostgresRepository) CreateRecord(ctx context.Context, record domain.RoleRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetRecord(ctx context.Context, role domain.Role, id int64) (domain.RoleRecord, error) {
	return r.firstRecord(ctx, role, "id = ?", id)
}

func (r *PostgresRepository) GetRecordByUser(ctx context.Context, role domain.Role, userID string) (domain.RoleRecord, error) {
	return r.firstRecord(ctx, role, "user_id = ?", userID)
}

func (r *PostgresRepository) firstRecord(ctx context.Context, role domain.Role, query string, arg any) (domain.RoleRecord, error) {
	dest, ok := domain.NewRecord(role)
	if !ok {
		return nil, domain.ErrUnknownRole
	}
	if err := r.db.WithContext(ctx).Where(query, arg).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return dest, nil
}

func (r *PostgresRepository) ListRecords(ctx context.Context, role domain.Role) ([]domain.RoleRecord, error) {
	db := r.db.WithContext(ctx).Order("id asc")
	switch role {
	case domain.RoleAdmin:
		return listRecords[domain.Admin](db)
	case domain.RoleCook:
		return listRecords[domain.Cook](db)
	case domain.RoleDriver:
		return listRecords[domain.Driver](db)
	case domain.RoleEmployee:
		return listRecords[domain.Employee](db)
	default:
		return nil, domain.ErrUnknownRole
	}
}

func listRecords[T any, P interface {
	*T
	domain.RoleRecord
}](db *gorm.DB) ([]domain.RoleRecord, error) {
	var rows []T
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.RoleRecord, 0, len(rows))
	for i := range rows {
		result = append(result, P(&rows[i]))
	}
	return result, nil
}

func (r *PostgresRepository) UpdateRecord(ctx context.Context, role domain.Role, id int64, updates map[string]any) error {
	model, ok := domain.NewRecord(role)
	if !ok {
		return domain.ErrUnknownRole
	}
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteRecord(ctx context.Context, role domain.Role, id int64) error {
	model, ok := domain.NewRecord(role)
	if !ok {
		return domain.ErrUnknownRole
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(model).Error
}

func (r *PostgresRepository) DeleteCompany(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&companiesdomain.Company{}).Error
}

func (r *PostgresRepository) DeleteMeal(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&mealsdomain.Meal{}).Error
}
