package model

// 商品カテゴリ。ParentIDがnilならメインカテゴリ
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	ParentID     *int64 `json:"parent_id,omitempty"`
	ProductCount int64  `json:"product_count"`
}
