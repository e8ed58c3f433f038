package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vastra-wear/vastra/internal/events"
	"github.com/vastra-wear/vastra/internal/hash"
	mwauth "github.com/vastra-wear/vastra/internal/middleware/auth"
	"github.com/vastra-wear/vastra/internal/models"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *events.Producer
}

type authResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	IsAdmin   bool             `json:"isAdmin"`
	Addresses []models.Address `json:"addresses"`
	Token     string           `json:"token"`
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"     validate:"required"`
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user data")
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user data")
	}

	token, err := mwauth.SignToken(user.ID, user.IsAdmin, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, events.TopicUserEvents, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, authResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		Addresses: []models.Address{},
		Token:     token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"    validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	var user models.User
	if err := h.DB.Preload("Addresses").Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := mwauth.SignToken(user.ID, user.IsAdmin, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, events.TopicUserEvents, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})

	return c.JSON(http.StatusOK, authResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		Addresses: user.Addresses,
		Token:     token,
	})
}

func (h *AuthHandler) GetProfile(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	var user models.User
	if err := h.DB.Preload("Addresses").First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Addresses []struct {
			Street     string `json:"street"     validate:"required"`
			City       string `json:"city"       validate:"required"`
			PostalCode string `json:"postalCode" validate:"required"`
			Country    string `json:"country"    validate:"required"`
		} `json:"addresses" validate:"omitempty,dive"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "incomplete address")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		var other models.User
		if err := h.DB.Where("email = ? AND id <> ?", req.Email, userID).First(&other).Error; err == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "email already in use")
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		user.PasswordHash = pwHash
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if req.Addresses == nil {
			return nil
		}
		// the submitted address book replaces the stored one wholesale
		if err := tx.Where("user_id = ?", userID).Delete(&models.Address{}).Error; err != nil {
			return err
		}
		for _, a := range req.Addresses {
			addr := models.Address{
				UserID:     userID,
				Street:     a.Street,
				City:       a.City,
				PostalCode: a.PostalCode,
				Country:    a.Country,
			}
			if err := tx.Create(&addr).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var fresh models.User
	if err := h.DB.Preload("Addresses").First(&fresh, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, fresh)
}

func (h *AuthHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Preload("Addresses").Order("id ASC").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, users)
}
