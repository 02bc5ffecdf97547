package model

// カタログの商品。モックデータ由来の読み取り専用
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	CategoryID  int64     `json:"category_id"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Rating      float64   `json:"rating"`
	ReviewCount int64     `json:"review_count"`
	InStock     bool      `json:"in_stock"`
	Variants    []Variant `json:"variants,omitempty"`
}

// 商品バリエーション（サイズ・色など）。価格の上書きは任意
type Variant struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price,omitempty"`
}

// EffectivePrice はカート追加時点の実売価格。
// バリエーション価格 → セール価格 → 通常価格 の順で決まる。
func (p Product) EffectivePrice(variantID string) float64 {
	for _, v := range p.Variants {
		if v.ID == variantID && v.Price != nil {
			return *v.Price
		}
	}
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
