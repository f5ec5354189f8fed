package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"hotlunchhub/internal/config"
	"hotlunchhub/internal/domain/meals"
	"hotlunchhub/internal/domain/orders"
	"hotlunchhub/internal/domain/users"
	"hotlunchhub/pkg/logger"
)

func setupPostgres(t *testing.T) config.DBConfig {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("hotlunchhub_test"),
		postgres.WithUsername("lunch"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	return config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "lunch",
		Password: "test-password",
		Name:     "hotlunchhub_test",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
}

func TestMigrate(t *testing.T) {
	cfg := setupPostgres(t)
	log := logger.Discard()

	if err := Migrate(cfg.MigrationURL(), log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Migrate(cfg.MigrationURL(), log); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	gormDB, err := NewPostgres(cfg, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	for _, table := range []string{"auth_identities", "profiles", "admins", "cooks", "drivers", "employees", "companies", "meals", "orders"} {
		if !gormDB.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}

	ctx := context.Background()
	profile := users.Profile{ID: "5b0f0d8e-0c57-4a43-9e41-8f1f6c7e0a01", Role: users.RoleEmployee, Name: "Bo"}
	if err := gormDB.WithContext(ctx).Create(&profile).Error; err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	meal := meals.Meal{Name: "Curry", Price: 9.5}
	if err := gormDB.WithContext(ctx).Create(&meal).Error; err != nil {
		t.Fatalf("insert meal: %v", err)
	}
	bad := orders.Order{EmployeeID: 1, MealID: meal.ID, Quantity: -1}
	if err := gormDB.WithContext(ctx).Create(&bad).Error; err == nil {
		t.Fatalf("expected quantity check to reject the order")
	}

	if err := NewPinger(gormDB).Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
