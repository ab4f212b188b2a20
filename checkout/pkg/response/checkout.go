package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stylora/marketplace/internal/repository"
)

type Order struct {
	ID                    uuid.UUID       `json:"id"`
	Status                string          `json:"status"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	ShippingFee           decimal.Decimal `json:"shipping_fee"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	CouponCode            string          `json:"coupon_code,omitempty"`
	ShippingAddress       string          `json:"shipping_address"`
	PhoneNumber           string          `json:"phone_number"`
	PaymentMethod         string          `json:"payment_method"`
	PaymentStatus         string          `json:"payment_status"`
	EstimatedDeliveryDate *time.Time      `json:"estimated_delivery_date,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	Items                 []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductId uuid.UUID       `json:"product_id"`
	SellerId  uuid.UUID       `json:"seller_id"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

func NewOrder(order repository.Order, items []repository.OrderItem) Order {
	resp := Order{
		ID:              order.ID,
		Status:          order.Status,
		Subtotal:        repository.DecimalFromNumeric(order.Subtotal),
		ShippingFee:     repository.DecimalFromNumeric(order.ShippingFee),
		DiscountAmount:  repository.DecimalFromNumeric(order.DiscountAmount),
		TotalAmount:     repository.DecimalFromNumeric(order.TotalAmount),
		CouponCode:      order.CouponCode.String,
		ShippingAddress: order.ShippingAddress,
		PhoneNumber:     order.PhoneNumber,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		CreatedAt:       order.CreatedAt.Time,
	}
	if order.EstimatedDeliveryDate.Valid {
		delivery := order.EstimatedDeliveryDate.Time
		resp.EstimatedDeliveryDate = &delivery
	}
	for _, item := range items {
		resp.Items = append(resp.Items, OrderItem{
			ID:        item.ID,
			ProductId: item.ProductID,
			SellerId:  item.SellerID,
			Quantity:  item.Quantity,
			Price:     repository.DecimalFromNumeric(item.Price),
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	return resp
}
