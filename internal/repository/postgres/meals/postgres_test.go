package meals

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"hotlunchhub/internal/db/dbtest"
	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
)

func TestMealFilters(t *testing.T) {
	repo := NewPostgres(dbtest.OpenSQLite(t))
	ctx := context.Background()

	cookA, cookB := int64(1), int64(2)
	seed := []*mealsdomain.Meal{
		{Name: "Curry", Price: 9.5, CookID: &cookA},
		{Name: "Bento", Price: 12, CookID: &cookA, IsSpecial: true},
		{Name: "Soup", Price: 6.25, CookID: &cookB},
	}
	for _, meal := range seed {
		if err := repo.Create(ctx, meal); err != nil {
			t.Fatalf("create %s: %v", meal.Name, err)
		}
	}

	all, err := repo.List(ctx, mealsdomain.Filter{})
	if err != nil || len(all) != 3 || all[0].Name != "Bento" {
		t.Fatalf("unexpected meals %+v %v", all, err)
	}

	byCook, err := repo.List(ctx, mealsdomain.Filter{CookID: &cookA})
	if err != nil || len(byCook) != 2 {
		t.Fatalf("expected 2 meals for cook, got %d %v", len(byCook), err)
	}

	specials, err := repo.List(ctx, mealsdomain.Filter{SpecialOnly: true})
	if err != nil || len(specials) != 1 || specials[0].Name != "Bento" {
		t.Fatalf("unexpected specials %+v %v", specials, err)
	}
}

func TestMealImagesRoundTrip(t *testing.T) {
	repo := NewPostgres(dbtest.OpenSQLite(t))
	ctx := context.Background()

	meal := &mealsdomain.Meal{Name: "Curry", Price: 9.5}
	if err := repo.Create(ctx, meal); err != nil {
		t.Fatalf("create: %v", err)
	}

	urls := datatypes.JSONSlice[string]{"https://cdn/a.png", "https://cdn/b.png"}
	if err := repo.Update(ctx, meal.ID, map[string]any{"image_urls": urls}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Get(ctx, meal.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.ImageURLs) != 2 || got.ImageURLs[1] != "https://cdn/b.png" {
		t.Fatalf("unexpected image urls %v", got.ImageURLs)
	}
}

func TestMealDeleteAndCount(t *testing.T) {
	db := dbtest.OpenSQLite(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	meal := &mealsdomain.Meal{Name: "Curry", Price: 9.5}
	if err := repo.Create(ctx, meal); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Create(&ordersdomain.Order{EmployeeID: 1, MealID: meal.ID, Quantity: 2}).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	count, err := repo.CountOrders(ctx, meal.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 order, got %d %v", count, err)
	}

	if err := repo.Delete(ctx, meal.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, meal.ID); !errors.Is(err, mealsdomain.ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound, got %v", err)
	}
}
