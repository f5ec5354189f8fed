package companies

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const lunchTimeLayout = "15:04"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Company, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	lunchTime := strings.TrimSpace(input.LunchTime)
	if lunchTime == "" {
		lunchTime = "12:00"
	}
	lunchTime, err := normalizeLunchTime(lunchTime)
	if err != nil {
		return nil, err
	}

	company := Company{
		Name:      name,
		LogoURL:   strings.TrimSpace(input.LogoURL),
		LunchTime: lunchTime,
		Address:   strings.TrimSpace(input.Address),
	}
	if err := s.repo.Create(ctx, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Company, error) {
	updates := make(map[string]any)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if input.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*input.LogoURL)
	}
	if input.LunchTime != nil {
		lunchTime, err := normalizeLunchTime(*input.LunchTime)
		if err != nil {
			return nil, err
		}
		updates["lunch_time"] = lunchTime
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// References reports how many employees and orders point at the company.
func (s *Service) References(ctx context.Context, id int64) (References, error) {
	employees, err := s.repo.CountEmployees(ctx, id)
	if err != nil {
		return References{}, err
	}
	orders, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return References{}, err
	}
	return References{Employees: employees, Orders: orders}, nil
}

// Delete refuses while employees or orders still reference the company.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	refs, err := s.References(ctx, id)
	if err != nil {
		return err
	}
	if refs.Employees > 0 || refs.Orders > 0 {
		return fmt.Errorf("%w: %d employees, %d orders", ErrCompanyInUse, refs.Employees, refs.Orders)
	}
	return s.repo.Delete(ctx, id)
}

func normalizeLunchTime(value string) (string, error) {
	parsed, err := time.Parse(lunchTimeLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: lunch_time must be HH:MM", ErrInvalidInput)
	}
	return parsed.Format(lunchTimeLayout), nil
}
