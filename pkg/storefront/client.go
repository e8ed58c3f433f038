// Package storefront is a typed HTTP client for the Vastra API, used by the
// checkout flow and by anything else that talks to the storefront from Go.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vastra-wear/vastra/internal/models"
	"github.com/vastra-wear/vastra/pkg/cartstate"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SetToken installs the bearer token used on protected routes.
func (c *Client) SetToken(token string) { c.token = token }

type apiError struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %d: %s", method, path, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type AuthResult struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

type ProductPage struct {
	Products []models.Product `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

func (c *Client) ListProducts(ctx context.Context, keyword, category string, page int) (*ProductPage, error) {
	q := url.Values{}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	if category != "" {
		q.Set("category", category)
	}
	if page > 0 {
		q.Set("pageNumber", strconv.Itoa(page))
	}

	path := "/api/products"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var res ProductPage
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var res models.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type orderItemPayload struct {
	ProductID uint    `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Qty       uint    `json:"qty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

type createOrderPayload struct {
	Items           []orderItemPayload `json:"orderItems"`
	ShippingAddress cartstate.Address  `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
}

// Checkout copies the cart snapshot into a new order and, on success, clears
// the local cart. The cart is untouched when the server rejects the order.
func (c *Client) Checkout(ctx context.Context, state *cartstate.State) (*models.Order, error) {
	items := make([]orderItemPayload, 0, len(state.CartItems))
	for _, it := range state.CartItems {
		items = append(items, orderItemPayload{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Qty:       it.Qty,
			Size:      it.Size,
			Color:     it.Color,
		})
	}

	payload := createOrderPayload{
		Items:           items,
		ShippingAddress: state.ShippingAddress,
		PaymentMethod:   state.PaymentMethod,
	}

	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, &order); err != nil {
		return nil, err
	}

	if err := state.ClearCart(); err != nil {
		return &order, fmt.Errorf("order placed but cart not cleared: %w", err)
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/myorders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelItem cancels one line of an order.
func (c *Client) CancelItem(ctx context.Context, orderID, itemID uint) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", orderID),
		map[string]uint{"itemId": itemID}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) PayOrder(ctx context.Context, orderID uint, result models.PaymentResult) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%d/pay", orderID), result, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
