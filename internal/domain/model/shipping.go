package model

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

// 固定の送料テーブル
var shippingCosts = map[ShippingMethod]float64{
	ShippingStandard:  0,
	ShippingExpress:   9.99,
	ShippingOvernight: 19.99,
}

// ValidShippingMethod は選択可能な配送方法かを判定
func ValidShippingMethod(m ShippingMethod) bool {
	_, ok := shippingCosts[m]
	return ok
}

// ShippingCost は配送方法の送料。未知の値は0
func ShippingCost(m ShippingMethod) float64 {
	return shippingCosts[m]
}

// TaxRate は小計にかかる税率（8%）
const TaxRate = 0.08
