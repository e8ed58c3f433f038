package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	IsAdmin      bool      `gorm:"default:false"            json:"isAdmin"`
	Addresses    []Address `gorm:"foreignKey:UserID"        json:"addresses"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Address struct {
	ID         uint   `gorm:"primaryKey"     json:"id"`
	UserID     uint   `gorm:"index;not null" json:"-"`
	Street     string `gorm:"not null"       json:"street"`
	City       string `gorm:"not null"       json:"city"`
	PostalCode string `gorm:"not null"       json:"postalCode"`
	Country    string `gorm:"not null"       json:"country"`
}

type Category struct {
	ID    uint   `gorm:"primaryKey"      json:"id"`
	Name  string `gorm:"unique;not null" json:"name"`
	Image string `json:"image"`
}

type Product struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null;index"           json:"name"`
	Brand        string    `json:"brand"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Images       []string  `gorm:"serializer:json"          json:"images"`
	Price        float64   `gorm:"not null"                 json:"price"`
	OldPrice     *float64  `json:"oldPrice,omitempty"`
	Category     string    `gorm:"index"                    json:"category"`
	CountInStock uint      `json:"countInStock"`
	Sizes        []string  `gorm:"serializer:json"          json:"sizes"`
	Colors       []string  `gorm:"serializer:json"          json:"colors"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	Reviews      []Review  `gorm:"foreignKey:ProductID"     json:"reviews"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	ProductID uint      `gorm:"index;not null" json:"-"`
	UserID    uint      `gorm:"not null"       json:"user"`
	Name      string    `gorm:"not null"       json:"name"`
	Rating    float64   `gorm:"not null"       json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShippingAddress is the address snapshot frozen into an order at checkout.
// It is embedded, not a reference: later edits to the user's address book
// must not rewrite order history.
type ShippingAddress struct {
	Street     string `gorm:"not null" json:"street"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"not null" json:"postalCode"`
	Country    string `gorm:"not null" json:"country"`
}

func (a ShippingAddress) Complete() bool {
	return a.Street != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

type PaymentResult struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	UpdateTime    string `json:"updateTime"`
	Email         string `json:"email"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"-"`
	ProductID uint    `gorm:"not null"       json:"product"`
	Name      string  `gorm:"not null"       json:"name"`
	Image     string  `json:"image"`
	Price     float64 `gorm:"not null"       json:"price"`
	Qty       uint    `gorm:"not null"       json:"qty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Cancelled bool    `gorm:"default:false"  json:"isCancelled"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey"                    json:"id"`
	UserID          uint            `gorm:"index;not null"                json:"user"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"            json:"orderItems"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"not null"                      json:"paymentMethod"`
	PaymentResult   PaymentResult   `gorm:"embedded;embeddedPrefix:pay_"  json:"paymentResult"`
	ItemsPrice      float64         `gorm:"not null"      json:"itemsPrice"`
	ShippingPrice   float64         `gorm:"not null"      json:"shippingPrice"`
	TaxPrice        float64         `gorm:"not null"      json:"taxPrice"`
	TotalPrice      float64         `gorm:"not null"      json:"totalPrice"`
	IsPaid          bool            `gorm:"default:false" json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `gorm:"default:false" json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`

	// Derived on read from the item flags, never persisted.
	FullyCancelled bool `gorm:"-" json:"fullyCancelled"`
}

// RefreshDerived recomputes the derived order state. Call it after loading
// or mutating Items, before handing the order to a response.
func (o *Order) RefreshDerived() {
	o.FullyCancelled = len(o.Items) > 0
	for i := range o.Items {
		if !o.Items[i].Cancelled {
			o.FullyCancelled = false
			return
		}
	}
}

// All returns every entity for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Address{}, &Category{}, &Product{}, &Review{},
		&Order{}, &OrderItem{},
	}
}
