package handler

import (
	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

// toCreateOrderInput maps the transport payload onto the service input. Absent
// blocks map to zero values, which the service rejects as well.
func toCreateOrderInput(req createOrderRequest, idempotencyKey string) ports.CreateOrderInput {
	in := ports.CreateOrderInput{
		ShippingCost:   req.ShippingCost,
		TaxRate:        req.TaxRate,
		CustomerNotes:  req.CustomerNotes,
		IdempotencyKey: idempotencyKey,
	}
	if s := req.ShippingInfo; s != nil {
		in.ShippingInfo = domain.ShippingInfo{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Email:     s.Email,
			Phone:     s.Phone,
			Address:   s.Address,
			City:      s.City,
			Province:  s.Province,
			ZipCode:   s.ZipCode,
		}
	}
	if req.PaymentInfo != nil {
		in.PaymentMethod = req.PaymentInfo.PaymentMethod
	}
	if req.Items != nil {
		in.Items = make([]domain.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			in.Items = append(in.Items, domain.OrderItem{
				ProductID: it.ID,
				Name:      it.Name,
				Image:     it.Image,
				Color:     it.Color,
				Size:      it.Size,
				Price:     it.Price,
				Quantity:  it.Quantity,
			})
		}
	}
	return in
}
