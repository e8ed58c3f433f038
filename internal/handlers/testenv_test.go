package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vastra-wear/vastra/internal/hash"
	"github.com/vastra-wear/vastra/internal/models"
	"github.com/vastra-wear/vastra/internal/pricing"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

type testEnv struct {
	T   *testing.T
	E   *echo.Echo
	DB  *gorm.DB
	A   *AuthHandler
	P   *ProductHandler
	O   *OrderHandler
	Cat *CategoryHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	secret := []byte("test-jwt-secret")

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New(validator.WithRequiredStructEnabled())}

	return &testEnv{
		T:   t,
		E:   e,
		DB:  db,
		A:   &AuthHandler{DB: db, JWTSecret: secret},
		P:   &ProductHandler{DB: db},
		O:   &OrderHandler{DB: db, Policy: pricing.DefaultPolicy()},
		Cat: &CategoryHandler{DB: db},
	}
}

func (env *testEnv) doJSON(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func asUser(c echo.Context, id uint) {
	c.Set("userID", id)
	c.Set("isAdmin", false)
}

func asAdmin(c echo.Context, id uint) {
	c.Set("userID", id)
	c.Set("isAdmin", true)
}

func (env *testEnv) seedUser(name, email, password string, admin bool) models.User {
	env.T.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		IsAdmin:      admin,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}
