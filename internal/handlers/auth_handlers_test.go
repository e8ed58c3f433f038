package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastra-wear/vastra/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	}
	rec, c := env.doJSON(http.MethodPost, "/api/auth/register", body)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID      uint   `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Jane Doe", resp.Name)
	assert.False(t, resp.IsAdmin)
	assert.NotEmpty(t, resp.Token)

	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "jane@example.com").First(&stored).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("Jane", "jane@example.com", "password123", false)

	body := map[string]string{
		"name":     "Second Jane",
		"email":    "jane@example.com",
		"password": "password123",
	}
	_, c := env.doJSON(http.MethodPost, "/api/auth/register", body)
	requireHTTPError(t, env.A.Register(c), http.StatusBadRequest)
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.NoError(t, env.A.Register(c))

	rec, c2 := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.NoError(t, env.A.Login(c2))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("Jane", "jane@example.com", "password123", false)

	_, c := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "nope",
	})
	requireHTTPError(t, env.A.Login(c), http.StatusUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	requireHTTPError(t, env.A.Login(c), http.StatusUnauthorized)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("Jane", "jane@example.com", "password123", false)

	rec, c := env.doJSON(http.MethodGet, "/api/auth/profile", nil)
	asUser(c, user.ID)
	require.NoError(t, env.A.GetProfile(c))

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, user.Email, got.Email)
}

func TestUpdateProfile_ReplacesAddresses(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("Jane", "jane@example.com", "password123", false)
	require.NoError(t, env.DB.Create(&models.Address{
		UserID: user.ID, Street: "old", City: "old", PostalCode: "0", Country: "old",
	}).Error)

	body := map[string]any{
		"name": "Jane Updated",
		"addresses": []map[string]string{
			{"street": "12 Baker St", "city": "Chennai", "postalCode": "600001", "country": "India"},
			{"street": "1 Marine Dr", "city": "Mumbai", "postalCode": "400001", "country": "India"},
		},
	}
	rec, c := env.doJSON(http.MethodPut, "/api/auth/profile", body)
	asUser(c, user.ID)
	require.NoError(t, env.A.UpdateProfile(c))

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Jane Updated", got.Name)
	require.Len(t, got.Addresses, 2)
	assert.Equal(t, "12 Baker St", got.Addresses[0].Street)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("John", "john@example.com", "password123", false)
	user := env.seedUser("Jane", "jane@example.com", "password123", false)

	_, c := env.doJSON(http.MethodPut, "/api/auth/profile", map[string]any{"email": "john@example.com"})
	asUser(c, user.ID)
	requireHTTPError(t, env.A.UpdateProfile(c), http.StatusBadRequest)
}

func TestGetUsers(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("Jane", "jane@example.com", "password123", false)
	admin := env.seedUser("Root", "admin@example.com", "password123", true)

	rec, c := env.doJSON(http.MethodGet, "/api/auth/users", nil)
	asAdmin(c, admin.ID)
	require.NoError(t, env.A.GetUsers(c))

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
}
