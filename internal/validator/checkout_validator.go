package validator

import (
	"regexp"
	"strings"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
)

// ValidationError はフィールド名→メッセージの回復可能なエラー。
// チェックアウトの状態は進めない
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateShippingAddress は必須チェック＋メール形式。
// 戻り値が空mapなら合格。Countryは未入力でも可（デフォルトを使う）
func ValidateShippingAddress(a model.Address) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(a.FirstName) == "" {
		errs["first_name"] = "First name is required"
	}
	if strings.TrimSpace(a.LastName) == "" {
		errs["last_name"] = "Last name is required"
	}
	if strings.TrimSpace(a.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailRe.MatchString(strings.TrimSpace(a.Email)) {
		errs["email"] = "Please enter a valid email address"
	}
	if strings.TrimSpace(a.Phone) == "" {
		errs["phone"] = "Phone is required"
	}
	if strings.TrimSpace(a.Address) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(a.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(a.State) == "" {
		errs["state"] = "State is required"
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		errs["zip_code"] = "ZIP code is required"
	}

	return errs
}

// ValidatePaymentDetails は必須チェック＋カード番号の簡易チェック。
// カード番号は空白を除いた数字のみ・13桁以上
func ValidatePaymentDetails(p model.PaymentDetails) map[string]string {
	errs := map[string]string{}

	card := stripSpaces(p.CardNumber)
	if strings.TrimSpace(p.CardNumber) == "" {
		errs["card_number"] = "Card number is required"
	} else if !digitsOnly(card) || len(card) < 13 {
		errs["card_number"] = "Please enter a valid card number"
	}
	if strings.TrimSpace(p.ExpiryDate) == "" {
		errs["expiry_date"] = "Expiry date is required"
	}
	if strings.TrimSpace(p.CVV) == "" {
		errs["cvv"] = "CVV is required"
	}
	if strings.TrimSpace(p.NameOnCard) == "" {
		errs["name_on_card"] = "Name on card is required"
	}

	return errs
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
