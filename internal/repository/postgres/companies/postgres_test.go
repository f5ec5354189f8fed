package companies

import (
	"context"
	"errors"
	"testing"

	"hotlunchhub/internal/db/dbtest"
	companiesdomain "hotlunchhub/internal/domain/companies"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
)

func TestCompanyCRUD(t *testing.T) {
	repo := NewPostgres(dbtest.OpenSQLite(t))
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Acme"} {
		if err := repo.Create(ctx, &companiesdomain.Company{Name: name, LunchTime: "12:30"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Acme" {
		t.Fatalf("expected name order, got %+v", list)
	}

	id := list[0].ID
	if err := repo.Update(ctx, id, map[string]any{"address": "1 Main St"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	company, err := repo.Get(ctx, id)
	if err != nil || company.Address != "1 Main St" {
		t.Fatalf("unexpected company %+v %v", company, err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, companiesdomain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, companiesdomain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound on second delete, got %v", err)
	}
	if err := repo.Update(ctx, id, map[string]any{"name": "x"}); !errors.Is(err, companiesdomain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound on update, got %v", err)
	}
}

func TestCompanyReferenceCounts(t *testing.T) {
	db := dbtest.OpenSQLite(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	company := &companiesdomain.Company{Name: "Acme"}
	if err := repo.Create(ctx, company); err != nil {
		t.Fatalf("create: %v", err)
	}
	companyID := company.ID

	employees := []usersdomain.Employee{
		{UserID: "u-1", Name: "A", CompanyID: &companyID},
		{UserID: "u-2", Name: "B", CompanyID: &companyID},
		{UserID: "u-3", Name: "C"},
	}
	if err := db.Create(&employees).Error; err != nil {
		t.Fatalf("seed employees: %v", err)
	}
	if err := db.Create(&ordersdomain.Order{EmployeeID: employees[0].ID, MealID: 1, CompanyID: &companyID, Quantity: 1}).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	count, err := repo.CountEmployees(ctx, companyID)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 employees, got %d %v", count, err)
	}
	count, err = repo.CountOrders(ctx, companyID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 order, got %d %v", count, err)
	}
}
