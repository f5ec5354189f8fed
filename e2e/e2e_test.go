//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotlunchhub/internal/config"
	"hotlunchhub/internal/db"
	companiesdomain "hotlunchhub/internal/domain/companies"
	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/internal/identity"
	"hotlunchhub/internal/repository/inmemory"
	companiesrepo "hotlunchhub/internal/repository/postgres/companies"
	mealsrepo "hotlunchhub/internal/repository/postgres/meals"
	ordersrepo "hotlunchhub/internal/repository/postgres/orders"
	usersrepo "hotlunchhub/internal/repository/postgres/users"
	"hotlunchhub/internal/storage"
	"hotlunchhub/internal/transport/httpserver"
	"hotlunchhub/internal/transport/httpserver/handler"
	"hotlunchhub/internal/transport/httpserver/handler/admin"
	"hotlunchhub/internal/transport/httpserver/handler/common"
	"hotlunchhub/internal/transport/httpserver/handler/functions"
	"hotlunchhub/internal/transport/httpserver/handler/roles"
	authmw "hotlunchhub/internal/transport/httpserver/middleware"
	"hotlunchhub/pkg/client"
	"hotlunchhub/pkg/logger"
)

const jwtSecret = "e2e-secret"

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
	users      *usersdomain.Service
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.Discard()
	authServer := newAuthServer(t)

	cfg := config.Config{
		CORSOrigins: []string{"*"},
		DB:          config.DBConfig{DSN: dsn},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			AnonKey:        "anon-key",
			ServiceRoleKey: "service-key",
			JWTSecret:      jwtSecret,
			Timeout:        2 * time.Second,
		},
		Auth: config.AuthConfig{
			Provider:         config.AuthProviderSupabase,
			ProfileCacheSize: 64,
			ProfileCacheTTL:  time.Second,
		},
		Users: config.UsersConfig{
			UnknownRoleNoop:       true,
			Compensate:            true,
			IdempotencyTTL:        time.Hour,
			FunctionsRequireAdmin: true,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(cfg.DB.MigrationURL(), log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	identities := identity.NewSupabase(cfg.Supabase, identity.ChainVerifier{identity.NewHMACVerifier(jwtSecret)})
	usersService := usersdomain.NewService(usersrepo.NewPostgres(dbConn), identities, log, usersdomain.Options{
		UnknownRoleNoop: cfg.Users.UnknownRoleNoop,
		Compensate:      cfg.Users.Compensate,
		IdempotencyTTL:  cfg.Users.IdempotencyTTL,
	}, usersdomain.WithIdempotency(inmemory.NewIdempotencyStore()))
	companiesService := companiesdomain.NewService(companiesrepo.NewPostgres(dbConn))
	mealsService := mealsdomain.NewService(mealsrepo.NewPostgres(dbConn), storage.NewSupabase(cfg.Supabase))
	ordersService := ordersdomain.NewService(ordersrepo.NewPostgres(dbConn))

	auth := authmw.NewAuth(cfg.Auth, identities, usersService, log)
	handlers := handler.New(
		common.New(usersService, identities, db.NewPinger(dbConn), log),
		functions.New(usersService, auth, log),
		admin.New(companiesService, mealsService, ordersService, usersService, auth, log),
		roles.New(mealsService, ordersService, usersService, log),
	)
	server := httptest.NewServer(httpserver.NewRouter(cfg, handlers, auth))

	return &testEnv{server: server, authServer: authServer, db: dbConn, users: usersService}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

type gotrueUser struct {
	id       string
	email    string
	password string
}

// newAuthServer fakes the GoTrue admin and password-grant endpoints.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	var (
		mu    sync.Mutex
		users = map[string]gotrueUser{}
	)
	writeJSON := func(w http.ResponseWriter, status int, payload any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			var body struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			for _, u := range users {
				if u.email == body.Email {
					writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
						"msg": "A user with this email address has already been registered",
					})
					return
				}
			}
			u := gotrueUser{id: uuid.NewString(), email: body.Email, password: body.Password}
			users[u.id] = u
			writeJSON(w, http.StatusOK, map[string]string{"id": u.id, "email": u.email})

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/auth/v1/admin/users/"):
			id := strings.TrimPrefix(r.URL.Path, "/auth/v1/admin/users/")
			if _, ok := users[id]; !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"msg": "User not found"})
				return
			}
			delete(users, id)
			writeJSON(w, http.StatusOK, map[string]string{})

		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/token":
			var body struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			for _, u := range users {
				if u.email == body.Email && u.password == body.Password {
					token, err := issueToken(u)
					if err != nil {
						t.Errorf("issue token: %v", err)
					}
					writeJSON(w, http.StatusOK, map[string]any{
						"access_token": token,
						"token_type":   "bearer",
						"expires_in":   3600,
						"user":         map[string]string{"id": u.id, "email": u.email},
					})
					return
				}
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "invalid_grant", "error_description": "Invalid login credentials",
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func issueToken(u gotrueUser) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.id,
		"email": u.email,
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE orders, meals, employees, companies, cooks, drivers, admins, profiles, auth_identities RESTART IDENTITY CASCADE",
	).Error
}

func signIn(t *testing.T, env *testEnv, email, password string) *client.Client {
	t.Helper()
	base := client.New(env.server.URL, client.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	session, err := base.SignIn(context.Background(), email, password)
	if err != nil {
		t.Fatalf("sign in %s: %v", email, err)
	}
	return base.WithToken(session.AccessToken)
}

func bootstrapAdmin(t *testing.T, env *testEnv) *client.Client {
	t.Helper()
	if _, err := env.users.CreateUser(context.Background(), usersdomain.CreateUserInput{
		Email: "root@example.com", Password: "root-password", Name: "Root", Role: "admin",
	}); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	return signIn(t, env, "root@example.com", "root-password")
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	conn := client.NewConnectivity(client.New(env.server.URL), client.ConnectivityOptions{})
	if status := conn.Check(context.Background()); !status.Online {
		t.Fatalf("expected backend online, got %+v", status)
	}

	anonymous := client.New(env.server.URL).WithToken("not-a-jwt")
	if _, err := anonymous.Me(context.Background()); !client.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}

	if _, err := client.New(env.server.URL).SignIn(context.Background(), "nobody@example.com", "x"); !client.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected 400 for bad credentials, got %v", err)
	}

	adminClient := bootstrapAdmin(t, env)
	me, err := adminClient.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Profile == nil || me.Profile.Role != "admin" {
		t.Fatalf("expected admin profile, got %+v", me)
	}
}

func TestE2EUserLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	ctx := context.Background()
	adminClient := bootstrapAdmin(t, env)

	name := "Acme"
	company, err := adminClient.Companies().Create(ctx, client.CompanyInput{Name: &name})
	if err != nil {
		t.Fatalf("create company: %v", err)
	}

	employee, err := adminClient.CreateUser(ctx, client.CreateUserInput{
		Email: "emma@example.com", Password: "emma-password", Name: "Emma", Role: "employee",
		EmployeeCode: "E-1", CompanyID: &company.ID,
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if employee.Message != "employee user created successfully" {
		t.Fatalf("unexpected message %q", employee.Message)
	}

	_, err = adminClient.CreateUser(ctx, client.CreateUserInput{
		Email: "emma@example.com", Password: "emma-password", Name: "Emma", Role: "employee",
	})
	var fnErr *client.FunctionError
	if !errors.As(err, &fnErr) || !strings.Contains(fnErr.Message, "already been registered") {
		t.Fatalf("expected provider duplicate error, got %v", err)
	}

	if _, err := adminClient.DeleteCompanyChecked(ctx, company.ID); !errors.Is(err, client.ErrCompanyInUse) {
		t.Fatalf("expected company in use, got %v", err)
	}

	employees, err := adminClient.Records("employee").List(ctx)
	if err != nil || len(employees) != 1 {
		t.Fatalf("expected one employee, got %v %v", employees, err)
	}

	message, err := adminClient.DeleteRecord(ctx, client.DeleteRecordInput{
		RecordID: employees[0].ID, RecordType: "employee", AuthID: employee.UserID,
	})
	if err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	if message != "employee deleted successfully" {
		t.Fatalf("unexpected message %q", message)
	}

	if _, err := adminClient.Profiles().Get(ctx, employee.UserID); !client.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}

	if _, err := adminClient.DeleteCompanyChecked(ctx, company.ID); err != nil {
		t.Fatalf("delete free company: %v", err)
	}
}

func TestE2EOrderFlowAndSessionResolution(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	ctx := context.Background()
	adminClient := bootstrapAdmin(t, env)

	name := "Globex"
	company, err := adminClient.Companies().Create(ctx, client.CompanyInput{Name: &name})
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	for _, input := range []client.CreateUserInput{
		{Email: "chef.anna@example.com", Password: "cook-password", Name: "Anna", Role: "cook"},
		{Email: "dan@example.com", Password: "driver-password", Name: "Dan", Role: "driver"},
		{Email: "eve@example.com", Password: "emp-password", Name: "Eve", Role: "employee", CompanyID: &company.ID},
	} {
		if _, err := adminClient.CreateUser(ctx, input); err != nil {
			t.Fatalf("create %s: %v", input.Role, err)
		}
	}

	cookClient := signIn(t, env, "chef.anna@example.com", "cook-password")
	cookRecord, err := cookClient.MeRecord(ctx)
	if err != nil {
		t.Fatalf("cook record: %v", err)
	}

	mealName, price := "Ramen", 9.5
	meal, err := adminClient.Meals().Create(ctx, client.MealInput{Name: &mealName, Price: &price, CookID: &cookRecord.ID})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	employeeClient := signIn(t, env, "eve@example.com", "emp-password")
	employeeRecord, err := employeeClient.MeRecord(ctx)
	if err != nil {
		t.Fatalf("employee record: %v", err)
	}

	order, err := adminClient.Orders().Create(ctx, client.OrderInput{EmployeeID: employeeRecord.ID, MealID: meal.ID})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != "pending" || order.CompanyID == nil || *order.CompanyID != company.ID {
		t.Fatalf("unexpected order %+v", order)
	}

	for _, status := range []string{"confirmed", "preparing", "ready", "delivered"} {
		order, err = adminClient.Orders().UpdateStatus(ctx, order.ID, status)
		if err != nil {
			t.Fatalf("advance to %s: %v", status, err)
		}
	}
	if len(order.NextStatuses) != 0 {
		t.Fatalf("expected terminal order, got next %v", order.NextStatuses)
	}
	if _, err := adminClient.Orders().UpdateStatus(ctx, order.ID, "cancelled"); !client.IsStatus(err, http.StatusUnprocessableEntity) {
		t.Fatalf("expected 422 leaving delivered, got %v", err)
	}

	base := client.New(env.server.URL)
	session, err := base.SignIn(ctx, "chef.anna@example.com", "cook-password")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	resolver := client.NewSessionResolver(base.SourceFor, client.NewAuthState(), client.ResolverOptions{})
	user, err := resolver.Resolve(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.Role != "cook" || user.Degraded || user.RecordID != cookRecord.ID {
		t.Fatalf("unexpected resolved user %+v", user)
	}
	if got := resolver.State().Current().Status; got != client.StatusAuthenticated {
		t.Fatalf("expected authenticated, got %s", got)
	}
}
