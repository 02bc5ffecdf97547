package model

// カートの明細。
// (ProductID, VariantID) が一意キー。同じキーへの追加は数量加算。
// Price は追加時点の価格を必ず保存（後から商品価格が変わっても影響しない）。
type CartItem struct {
	ProductID int64   `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Variant   string  `json:"variant,omitempty"`
}

// Key はカート内の一意キー
func (i CartItem) Key() CartKey {
	return CartKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

type CartKey struct {
	ProductID int64
	VariantID string
}

// CartSubtotal は明細リストの小計（価格×数量の合計）
func CartSubtotal(items []CartItem) float64 {
	var subtotal float64 = 0
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	return subtotal
}

// CartItemCount は明細リストの数量合計
func CartItemCount(items []CartItem) int64 {
	var count int64 = 0
	for _, it := range items {
		count += it.Quantity
	}
	return count
}
