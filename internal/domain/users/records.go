package users

import (
	"context"
	"strings"
)

func (s *Service) ListRecords(ctx context.Context, role Role) ([]RoleRecord, error) {
	if _, ok := NewRecord(role); !ok {
		return nil, ErrUnknownRole
	}
	return s.repo.ListRecords(ctx, role)
}

func (s *Service) GetRecord(ctx context.Context, role Role, id int64) (RoleRecord, error) {
	if _, ok := NewRecord(role); !ok {
		return nil, ErrUnknownRole
	}
	return s.repo.GetRecord(ctx, role, id)
}

func (s *Service) GetRecordByUser(ctx context.Context, role Role, userID string) (RoleRecord, error) {
	if _, ok := NewRecord(role); !ok {
		return nil, ErrUnknownRole
	}
	return s.repo.GetRecordByUser(ctx, role, userID)
}

func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

func (s *Service) UpdateProfileStatus(ctx context.Context, id, status string) (*Profile, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != StatusActive && status != StatusInactive {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateProfileStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, id)
}

// UpdateRecord applies the fields of patch that exist for role. A field that
// the role does not carry is rejected.
func (s *Service) UpdateRecord(ctx context.Context, role Role, id int64, patch RecordPatch) (RoleRecord, error) {
	if _, ok := NewRecord(role); !ok {
		return nil, ErrUnknownRole
	}

	updates, err := patchColumns(role, patch)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.repo.UpdateRecord(ctx, role, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetRecord(ctx, role, id)
}

func patchColumns(role Role, patch RecordPatch) (map[string]any, error) {
	updates := make(map[string]any)
	set := func(column string, value *string, allowed bool) error {
		if value == nil {
			return nil
		}
		if !allowed {
			return invalid("%s is not a %s field", column, role)
		}
		updates[column] = strings.TrimSpace(*value)
		return nil
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name cannot be empty")
	}

	isCook := role == RoleCook
	steps := []struct {
		column  string
		value   *string
		allowed bool
	}{
		{"name", patch.Name, true},
		{"email", patch.Email, true},
		{"phone", patch.Phone, role != RoleAdmin},
		{"admin_code", patch.AdminCode, role == RoleAdmin},
		{"employee_code", patch.EmployeeCode, role == RoleEmployee},
		{"address_line1", patch.AddressLine1, isCook},
		{"address_line2", patch.AddressLine2, isCook},
		{"city", patch.City, isCook},
		{"postal_code", patch.PostalCode, isCook},
		{"picture_url", patch.PictureURL, isCook || role == RoleDriver},
	}
	for _, step := range steps {
		if err := set(step.column, step.value, step.allowed); err != nil {
			return nil, err
		}
	}

	if patch.CompanyID != nil || patch.ClearCompany {
		if role != RoleEmployee {
			return nil, invalid("company_id is not a %s field", role)
		}
		if patch.ClearCompany {
			updates["company_id"] = nil
		} else {
			updates["company_id"] = *patch.CompanyID
		}
	}

	return updates, nil
}
