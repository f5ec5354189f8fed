package orders

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Order, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// Create places a pending order. The company is taken from the employee row.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if input.EmployeeID <= 0 {
		return nil, fmt.Errorf("%w: employee_id is required", ErrInvalidInput)
	}
	if input.MealID <= 0 {
		return nil, fmt.Errorf("%w: meal_id is required", ErrInvalidInput)
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	plan := strings.ToLower(strings.TrimSpace(input.PlanType))
	switch plan {
	case "":
		plan = PlanSingle
	case PlanSingle, PlanWeekly, PlanMonthly:
	default:
		return nil, fmt.Errorf("%w: plan_type must be single, weekly or monthly", ErrInvalidInput)
	}

	if _, err := s.repo.MealCook(ctx, input.MealID); err != nil {
		return nil, err
	}
	companyID, err := s.repo.EmployeeCompany(ctx, input.EmployeeID)
	if err != nil {
		return nil, err
	}

	order := Order{
		EmployeeID:   input.EmployeeID,
		MealID:       input.MealID,
		CompanyID:    companyID,
		Status:       StatusPending,
		Quantity:     input.Quantity,
		PlanType:     plan,
		DeliveryDate: input.DeliveryDate,
		Notes:        strings.TrimSpace(input.Notes),
	}
	if err := s.repo.Create(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Transition changes the status on behalf of actor. Cooks may only touch
// orders for their meals and employees only their own orders.
func (s *Service) Transition(ctx context.Context, id int64, to Status, actor Actor) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, order, actor); err != nil {
		return nil, err
	}
	if err := CanTransition(order.Status, to, actor.Role); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status, to); err != nil {
		return nil, err
	}
	order.Status = to
	return order, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) authorize(ctx context.Context, order *Order, actor Actor) error {
	switch actor.Role {
	case ActorAdmin, ActorDriver:
		return nil
	case ActorEmployee:
		if order.EmployeeID != actor.RecordID {
			return ErrForbidden
		}
		return nil
	case ActorCook:
		cookID, err := s.repo.MealCook(ctx, order.MealID)
		if err != nil {
			return err
		}
		if cookID == nil || *cookID != actor.RecordID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
