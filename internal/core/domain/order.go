package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentPending = "pending"

	DefaultShippingCost = 15000
	DefaultTaxRate      = 0.11

	orderCodePrefix = "LWK"
	deliveryWindow  = 7 * 24 * time.Hour
)

var orderStatuses = map[OrderStatus]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatuses[s]
	return ok
}

// CheckCancel returns nil when an order in status s may be cancelled.
func (s OrderStatus) CheckCancel() error {
	switch s {
	case StatusPending, StatusProcessing:
		return nil
	case StatusCancelled:
		return ErrOrderCancelled
	default:
		return ErrOrderNotCancelable
	}
}

// ShippingInfo is the checkout address block. JSON names follow the storefront form.
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Province  string `json:"province"`
	ZipCode   string `json:"zipCode"`
}

// FullName joins first and last name.
func (s ShippingInfo) FullName() string {
	return s.FirstName + " " + s.LastName
}

type PaymentInfo struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

// OrderItem is a cart line copied into the order at checkout.
type OrderItem struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Pricing struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

// CalculatePricing computes subtotal = Σ price×quantity, tax = subtotal×taxRate and
// total = subtotal + shippingCost + tax.
func CalculatePricing(items []OrderItem, shippingCost, taxRate float64) Pricing {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	shipping := decimal.NewFromFloat(shippingCost)
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate))
	total := subtotal.Add(shipping).Add(tax)

	return Pricing{
		Subtotal:     subtotal.InexactFloat64(),
		ShippingCost: shipping.InexactFloat64(),
		Tax:          tax.InexactFloat64(),
		Total:        total.InexactFloat64(),
	}
}

// OrderCode builds the human-readable order id. Two orders created within the same
// second share a code; the integer id stays unique.
func OrderCode(at time.Time) string {
	return fmt.Sprintf("%s%s", orderCodePrefix, at.Format("20060102150405"))
}

// EstimatedDelivery returns the promised delivery date for an order placed at t.
func EstimatedDelivery(t time.Time) time.Time {
	return t.Add(deliveryWindow)
}

// Order is the aggregate root for a checkout.
type Order struct {
	ID                int64        `json:"id"`
	OrderID           string       `json:"order_id"`
	CustomerID        int64        `json:"customer_id"`
	CustomerName      string       `json:"customer_name"`
	CustomerEmail     string       `json:"customer_email"`
	Status            OrderStatus  `json:"status"`
	ShippingInfo      ShippingInfo `json:"shipping_info"`
	PaymentInfo       PaymentInfo  `json:"payment_info"`
	Items             []OrderItem  `json:"items"`
	Pricing           Pricing      `json:"pricing"`
	TrackingNumber    *string      `json:"tracking_number"`
	EstimatedDelivery time.Time    `json:"estimated_delivery"`
	AdminNotes        string       `json:"admin_notes"`
	CustomerNotes     string       `json:"customer_notes"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// OwnedBy reports whether the order belongs to the given user.
func (o *Order) OwnedBy(userID int64) bool {
	return o.CustomerID == userID
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	if o.TrackingNumber != nil {
		tn := *o.TrackingNumber
		c.TrackingNumber = &tn
	}
	return &c
}

// OrderStats summarises the order store for the admin dashboard.
type OrderStats struct {
	TotalOrders  int                 `json:"total_orders"`
	TotalRevenue float64             `json:"total_revenue"`
	StatusCounts map[OrderStatus]int `json:"status_counts"`
	RecentOrders []*Order            `json:"recent_orders"`
}
