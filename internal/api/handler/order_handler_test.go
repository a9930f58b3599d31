package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/service"
	"github.com/lewkins/storefront-api/internal/infrastructure/db/memory"
)

const checkoutBody = `{
	"shipping_info": {"firstName":"Budi","lastName":"Santoso","email":"budi@example.com","phone":"0812",
		"address":"Jl. Merdeka 1","city":"Jakarta","province":"DKI","zipCode":"10110"},
	"payment_info": {"paymentMethod":"bank-transfer"},
	"items": [{"id":5,"name":"Black Sneakers","price":750000,"quantity":1,"size":"42"}]
}`

func newTestOrderHandler() *OrderHandler {
	svc := service.NewOrderService(
		memory.NewOrderRepository(),
		memory.NewOrderEventRepository(),
		nil,
		service.OrderOptions{
			ShippingCost: domain.DefaultShippingCost,
			TaxRate:      domain.DefaultTaxRate,
			Idempotency:  memory.NewIdempotencyStore(),
		},
		zerolog.Nop(),
	)
	return NewOrderHandler(svc)
}

func placeOrder(t *testing.T, h *OrderHandler, user *domain.User, key string) (int, map[string]any) {
	t.Helper()
	c, rec := newTestContext(http.MethodPost, "/api/orders", checkoutBody, user)
	if key != "" {
		c.Request().Header.Set("Idempotency-Key", key)
	}
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	return rec.Code, decodeBody(t, rec)
}

func TestOrderHandler_Create(t *testing.T) {
	h := newTestOrderHandler()

	code, resp := placeOrder(t, h, testBuyer, "")
	if code != http.StatusCreated || resp["message"] != "Order created successfully" {
		t.Fatalf("unexpected response: %d %+v", code, resp)
	}
	order := resp["order"].(map[string]any)
	pricing := order["pricing"].(map[string]any)
	if pricing["subtotal"] != float64(750000) || pricing["tax"] != float64(82500) || pricing["total"] != float64(847500) {
		t.Fatalf("unexpected pricing: %+v", pricing)
	}
	if order["status"] != "pending" || order["tracking_number"] != nil {
		t.Fatalf("unexpected order: %+v", order)
	}
	items := order["items"].([]any)
	if items[0].(map[string]any)["id"] != float64(5) {
		t.Fatalf("item product id lost: %+v", items)
	}
}

func TestOrderHandler_Create_IdempotentReplay(t *testing.T) {
	h := newTestOrderHandler()

	_, first := placeOrder(t, h, testBuyer, "k-1")
	code, second := placeOrder(t, h, testBuyer, "k-1")
	if code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", code)
	}
	if first["order"].(map[string]any)["id"] != second["order"].(map[string]any)["id"] {
		t.Fatalf("replay returned a different order")
	}
}

func TestOrderHandler_Create_MissingFields(t *testing.T) {
	h := newTestOrderHandler()

	cases := []struct {
		body string
		want string
	}{
		{`{"payment_info":{"paymentMethod":"cod"},"items":[]}`, "missing field: shipping_info"},
		{`{"shipping_info":{"firstName":"A","lastName":"B","email":"e","phone":"1","address":"a","city":"c","province":"p"},
			"payment_info":{"paymentMethod":"cod"},"items":[]}`, "missing shipping field: zipCode"},
		{`{"shipping_info":{"firstName":"A","lastName":"B","email":"e","phone":"1","address":"a","city":"c","province":"p","zipCode":"z"},
			"payment_info":{},"items":[]}`, "missing payment field: paymentMethod"},
		{`{"shipping_info":{"firstName":"A","lastName":"B","email":"e","phone":"1","address":"a","city":"c","province":"p","zipCode":"z"},
			"payment_info":{"paymentMethod":"cod"}}`, "missing field: items"},
	}
	for _, tc := range cases {
		c, _ := newTestContext(http.MethodPost, "/api/orders", tc.body, testBuyer)
		err := h.Create(c)
		if !errors.Is(err, domain.ErrValidation) || err.Error() != tc.want {
			t.Fatalf("expected %q, got %v", tc.want, err)
		}
	}
}

func TestOrderHandler_Create_EmptyItemsAccepted(t *testing.T) {
	h := newTestOrderHandler()

	c, rec := newTestContext(http.MethodPost, "/api/orders",
		`{"shipping_info":{"firstName":"A","lastName":"B","email":"e","phone":"1","address":"a","city":"c","province":"p","zipCode":"z"},
		"payment_info":{"paymentMethod":"cod"},"items":[]}`, testBuyer)
	if err := h.Create(c); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", rec.Code, err)
	}
}

func TestOrderHandler_VisibilityAndCancel(t *testing.T) {
	h := newTestOrderHandler()
	placeOrder(t, h, testBuyer, "")

	stranger := &domain.User{ID: 9, Role: domain.RoleBuyer}
	c, _ := newTestContext(http.MethodGet, "/api/orders/1", "", stranger)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	c, rec := newTestContext(http.MethodGet, "/api/orders", "", stranger)
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	var listed []any
	_ = json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Fatalf("stranger should see no orders, got %d", len(listed))
	}

	c, rec = newTestContext(http.MethodDelete, "/api/orders/1", "", testBuyer)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Cancel(c); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "Order cancelled successfully" || resp["order"].(map[string]any)["status"] != "cancelled" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestOrderHandler_UpdateStatusAndStats(t *testing.T) {
	h := newTestOrderHandler()
	placeOrder(t, h, testBuyer, "")

	c, rec := newTestContext(http.MethodPut, "/api/orders/1/status",
		`{"status":"shipped","tracking_number":"JNE123","admin_notes":"on the way"}`, testAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != "shipped" || resp["tracking_number"] != "JNE123" {
		t.Fatalf("unexpected order: %+v", resp)
	}

	c, _ = newTestContext(http.MethodPut, "/api/orders/1/status", `{"status":"teleported"}`, testAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrInvalidOrderStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}

	c, rec = newTestContext(http.MethodGet, "/api/orders/stats", "", testAdmin)
	if err := h.Stats(c); err != nil {
		t.Fatalf("stats: %v", err)
	}
	stats := decodeBody(t, rec)
	if stats["total_orders"] != float64(1) || stats["status_counts"].(map[string]any)["shipped"] != float64(1) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestOrderHandler_Events_Empty(t *testing.T) {
	h := newTestOrderHandler()
	placeOrder(t, h, testBuyer, "")

	c, rec := newTestContext(http.MethodGet, "/api/orders/1/events", "", testBuyer)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Events(c); err != nil {
		t.Fatalf("events: %v", err)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}
