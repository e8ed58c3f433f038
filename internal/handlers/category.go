package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vastra-wear/vastra/internal/models"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Image string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category data")
	}

	var existing models.Category
	err := h.DB.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "category already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	category := models.Category{Name: req.Name, Image: req.Image}
	if err := h.DB.Create(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category data")
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	res := h.DB.Delete(&models.Category{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "category removed"})
}
