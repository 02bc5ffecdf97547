package model

// 支払い入力。カード番号などは保存せず、検証にだけ使う
type PaymentDetails struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"name_on_card"`
}

// 注文に残す支払い方法のラベル
const PaymentMethodCreditCard = "Credit Card"
