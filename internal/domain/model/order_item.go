package model

// 注文の明細。カート明細のスナップショット
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
}
