package model

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// ValidOrderStatus はステータス更新で受け付ける値かを判定
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 確定済み注文。
// Total は作成時に一度だけ計算したスナップショット（小計＋送料＋税）。
// Status と UpdatedAt 以外は作成後に変更しない。
type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"order_number"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	ShippingAddress Address     `json:"shipping_address"`
	ShippingMethod  string      `json:"shipping_method"`
	PaymentMethod   string      `json:"payment_method"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
