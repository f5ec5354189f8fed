// Package dbtest opens throwaway databases for repository tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hotlunchhub/internal/domain/companies"
	"hotlunchhub/internal/domain/meals"
	"hotlunchhub/internal/domain/orders"
	"hotlunchhub/internal/domain/users"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&users.Profile{},
		&users.Admin{},
		&users.Cook{},
		&users.Driver{},
		&users.Employee{},
		&companies.Company{},
		&meals.Meal{},
		&orders.Order{},
	}
}

// OpenSQLite returns an in-memory database with the schema applied. The
// connection is closed when the test ends.
func OpenSQLite(t testing.TB, extra ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(append(Models(), extra...)...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}
