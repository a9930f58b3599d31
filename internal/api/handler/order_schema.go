package handler

import "github.com/lewkins/storefront-api/internal/core/domain"

type shippingInfoRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required"`
	Phone     string `json:"phone"     validate:"required"`
	Address   string `json:"address"   validate:"required"`
	City      string `json:"city"      validate:"required"`
	Province  string `json:"province"  validate:"required"`
	ZipCode   string `json:"zipCode"   validate:"required"`
}

type paymentInfoRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

type orderItemRequest struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Color    string  `json:"color"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// createOrderRequest mirrors the storefront checkout payload. Only presence is
// checked; an empty items array is accepted.
type createOrderRequest struct {
	ShippingInfo  *shippingInfoRequest `json:"shipping_info" validate:"required"`
	PaymentInfo   *paymentInfoRequest  `json:"payment_info"  validate:"required"`
	Items         []orderItemRequest   `json:"items"         validate:"required"`
	ShippingCost  *float64             `json:"shipping_cost"`
	TaxRate       *float64             `json:"tax_rate"`
	CustomerNotes string               `json:"customer_notes"`
}

type updateOrderStatusRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	AdminNotes     *string `json:"admin_notes"`
}

type createOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type cancelOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}
