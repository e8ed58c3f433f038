package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vastra-wear/vastra/internal/events"
	mwauth "github.com/vastra-wear/vastra/internal/middleware/auth"
	"github.com/vastra-wear/vastra/internal/models"
	"github.com/vastra-wear/vastra/internal/search"
	"github.com/vastra-wear/vastra/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type productRequest struct {
	Name         string   `json:"name"  validate:"required"`
	Brand        string   `json:"brand"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Images       []string `json:"images"`
	Price        float64  `json:"price" validate:"gte=0"`
	OldPrice     *float64 `json:"oldPrice"`
	Category     string   `json:"category"`
	CountInStock uint     `json:"countInStock"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *ProductHandler) syncIndex(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.ESIndex, p); err != nil {
		c.Logger().Errorf("index sync error: %v", err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// GetProducts lists the catalog: substring keyword match on name, category
// equality, offset pagination. Response shape is {products, page, pages}.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("pageNumber"), 1)
	offset, limit := util.Calculate(page, parseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize))

	q := h.DB.Model(&models.Product{})
	if keyword := c.QueryParam("keyword"); keyword != "" {
		q = q.Where("name LIKE ?", "%"+keyword+"%")
	}
	if category := c.QueryParam("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var products []models.Product
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	if pages == 0 {
		pages = 1
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products": products,
		"page":     page,
		"pages":    pages,
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.Preload("Reviews").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product data")
	}

	product := models.Product{
		Name:         req.Name,
		Brand:        req.Brand,
		Description:  req.Description,
		Image:        req.Image,
		Images:       req.Images,
		Price:        req.Price,
		OldPrice:     req.OldPrice,
		Category:     req.Category,
		CountInStock: req.CountInStock,
		Sizes:        req.Sizes,
		Colors:       req.Colors,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product data")
	}

	h.syncIndex(c, &product)
	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product data")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	product.Name = req.Name
	product.Brand = req.Brand
	product.Description = req.Description
	product.Image = req.Image
	product.Images = req.Images
	product.Price = req.Price
	product.OldPrice = req.OldPrice
	product.Category = req.Category
	product.CountInStock = req.CountInStock
	product.Sizes = req.Sizes
	product.Colors = req.Colors

	if err := h.DB.Save(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product data")
	}

	h.syncIndex(c, &product)
	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteProduct(ctx, h.ES, h.ESIndex, uint(id)); err != nil {
			c.Logger().Errorf("index sync error: %v", err)
		}
	}
	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "product removed"})
}

// CreateReview appends a review and refreshes the rating aggregate.
// One review per user per product.
func (h *ProductHandler) CreateReview(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
		Comment string  `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	var product models.Product
	if err := h.DB.Preload("Reviews").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	for _, r := range product.Reviews {
		if r.UserID == userID {
			return echo.NewHTTPError(http.StatusBadRequest, "product already reviewed")
		}
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	review := models.Review{
		ProductID: product.ID,
		UserID:    userID,
		Name:      user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var sum float64
		for _, r := range product.Reviews {
			sum += r.Rating
		}
		sum += review.Rating

		product.NumReviews = len(product.Reviews) + 1
		product.Rating = sum / float64(product.NumReviews)
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]any{"num_reviews": product.NumReviews, "rating": product.Rating}).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "review added"})
}
