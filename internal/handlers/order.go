package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vastra-wear/vastra/internal/events"
	"github.com/vastra-wear/vastra/internal/logging"
	mwauth "github.com/vastra-wear/vastra/internal/middleware/auth"
	"github.com/vastra-wear/vastra/internal/models"
	"github.com/vastra-wear/vastra/internal/pricing"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	Policy   pricing.Policy
}

type createOrderRequest struct {
	Items []struct {
		ProductID uint    `json:"product" validate:"required"`
		Name      string  `json:"name"    validate:"required"`
		Image     string  `json:"image"`
		Price     float64 `json:"price"   validate:"gte=0"`
		Qty       uint    `json:"qty"     validate:"required,gt=0"`
		Size      string  `json:"size"`
		Color     string  `json:"color"`
	} `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress struct {
		Street     string `json:"street"     validate:"required"`
		City       string `json:"city"       validate:"required"`
		PostalCode string `json:"postalCode" validate:"required"`
		Country    string `json:"country"    validate:"required"`
	} `json:"shippingAddress"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(event["orderID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

// loadOwnedOrder fetches an order with its items and enforces ownership.
// Admins may read any order.
func (h *OrderHandler) loadOwnedOrder(c echo.Context, allowAdmin bool) (*models.Order, error) {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if order.UserID != userID && !(allowAdmin && mwauth.IsAdmin(c)) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "not authorized to access this order")
	}

	return &order, nil
}

// CreateOrder persists a new order from a cart snapshot. Items are copied
// structurally with the cancellation flag down, and the price breakdown is
// recomputed here from the pricing policy rather than trusted from the client.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "order.create")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no order items")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_order_rejected", "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order data")
	}

	address := models.ShippingAddress{
		Street:     req.ShippingAddress.Street,
		City:       req.ShippingAddress.City,
		PostalCode: req.ShippingAddress.PostalCode,
		Country:    req.ShippingAddress.Country,
	}
	if !address.Complete() {
		return echo.NewHTTPError(http.StatusBadRequest, "incomplete shipping address")
	}

	lines := make([]pricing.Line, 0, len(req.Items))
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, pricing.Line{Price: it.Price, Qty: it.Qty})
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Qty:       it.Qty,
			Size:      it.Size,
			Color:     it.Color,
			Cancelled: false,
		})
	}

	totals := h.Policy.Quote(lines)

	order := models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      totals.Subtotal,
		ShippingPrice:   totals.Shipping,
		TaxPrice:        totals.Tax,
		TotalPrice:      totals.Total,
	}

	if err := h.DB.Create(&order).Error; err != nil {
		l.Error("create_order_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	order.RefreshDerived()

	h.publish(c, map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"total":   order.TotalPrice,
	})
	l.Info("create_order_success", "order_id", order.ID, "total", order.TotalPrice)

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	for i := range orders {
		orders[i].RefreshDerived()
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.loadOwnedOrder(c, true)
	if err != nil {
		return err
	}

	order.RefreshDerived()
	return c.JSON(http.StatusOK, order)
}

// CancelItem flips one item's cancellation flag. Only the owner may cancel,
// and only before delivery. Sibling items and order-level fields stay as
// they are; "fully cancelled" falls out of the item flags on read.
func (h *OrderHandler) CancelItem(c echo.Context) error {
	order, err := h.loadOwnedOrder(c, false)
	if err != nil {
		return err
	}

	if order.IsDelivered {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot cancel items of a delivered order")
	}

	var req struct {
		ItemID uint `json:"itemId"`
	}
	if err := c.Bind(&req); err != nil || req.ItemID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "itemId is required")
	}

	var target *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == req.ItemID {
			target = &order.Items[i]
			break
		}
	}
	if target == nil {
		return echo.NewHTTPError(http.StatusNotFound, "order item not found")
	}

	target.Cancelled = true
	if err := h.DB.Model(&models.OrderItem{}).Where("id = ? AND order_id = ?", target.ID, order.ID).
		Update("cancelled", true).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	order.RefreshDerived()

	h.publish(c, map[string]any{
		"type":    "order_item_cancelled",
		"orderID": order.ID,
		"itemID":  target.ID,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) PayOrder(c echo.Context) error {
	order, err := h.loadOwnedOrder(c, false)
	if err != nil {
		return err
	}

	if order.IsPaid {
		return echo.NewHTTPError(http.StatusBadRequest, "order already paid")
	}

	// no gateway behind this: the payment result is whatever the simulated
	// checkout reports
	var req struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
		UpdateTime    string `json:"updateTime"`
		Email         string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = models.PaymentResult{
		TransactionID: req.TransactionID,
		Status:        req.Status,
		UpdateTime:    req.UpdateTime,
		Email:         req.Email,
	}

	if err := h.DB.Model(order).Updates(map[string]any{
		"is_paid":            true,
		"paid_at":            now,
		"pay_transaction_id": req.TransactionID,
		"pay_status":         req.Status,
		"pay_update_time":    req.UpdateTime,
		"pay_email":          req.Email,
	}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	order.RefreshDerived()

	h.publish(c, map[string]any{
		"type":    "order_paid",
		"orderID": order.ID,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	for i := range orders {
		orders[i].RefreshDerived()
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) DeliverOrder(c echo.Context) error {
	order, err := h.loadOwnedOrder(c, true)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := h.DB.Model(order).Updates(map[string]any{
		"is_delivered": true,
		"delivered_at": now,
	}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	order.IsDelivered = true
	order.DeliveredAt = &now

	order.RefreshDerived()

	h.publish(c, map[string]any{
		"type":    "order_delivered",
		"orderID": order.ID,
	})

	return c.JSON(http.StatusOK, order)
}
