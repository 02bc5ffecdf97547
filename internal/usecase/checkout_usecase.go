package usecase

import (
	"context"
	"math"
	"net/http"
	"strings"
	"sync"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	repo "github.com/apper-apps/shophub-online-alarm/internal/repository"
	"github.com/apper-apps/shophub-online-alarm/internal/validator"
)

// チェックアウトの段階
type CheckoutStep string

const (
	StepShippingEntry CheckoutStep = "shipping_entry"
	StepPaymentEntry  CheckoutStep = "payment_entry"
	StepOrderPlaced   CheckoutStep = "order_placed"
)

// CheckoutUsecase は 配送先入力 → 支払い入力 → 注文確定 の状態機械。
// 前進は検証合格時のみ。後退は支払い→配送先の明示操作だけ。
// 注文確定後は完了状態のまま、次のSubmitShippingで新しいチェックアウトが始まる。
type CheckoutUsecase struct {
	cart   *CartUsecase
	orders *OrderUsecase
	store  repo.PersistentStore

	mu          sync.Mutex
	step        CheckoutStep
	address     model.Address
	method      model.ShippingMethod
	lastOrderID int64
}

func NewCheckoutUsecase(cart *CartUsecase, orders *OrderUsecase, store repo.PersistentStore) *CheckoutUsecase {
	return &CheckoutUsecase{
		cart:   cart,
		orders: orders,
		store:  store,
		step:   StepShippingEntry,
		method: model.ShippingStandard,
	}
}

// CheckoutStatus は現在の段階と金額プレビュー
type CheckoutStatus struct {
	Step           CheckoutStep         `json:"step"`
	SavedAddress   *model.Address       `json:"saved_address,omitempty"`
	ShippingMethod model.ShippingMethod `json:"shipping_method"`
	Subtotal       float64              `json:"subtotal"`
	ShippingCost   float64              `json:"shipping_cost"`
	Tax            float64              `json:"tax"`
	Total          float64              `json:"total"`
	LastOrderID    int64                `json:"last_order_id,omitempty"`
}

type SubmitShippingInput struct {
	Address        model.Address
	ShippingMethod model.ShippingMethod
}

// Status は現在の状態。保存済み住所はフォームの初期値に使う
func (u *CheckoutUsecase) Status(ctx context.Context) (CheckoutStatus, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cart, err := u.cart.GetItems(ctx)
	if err != nil {
		return CheckoutStatus{}, err
	}

	saved, _ := u.store.GetShippingAddress(ctx)
	return u.buildStatus(cart.Subtotal, saved), nil
}

// SubmitShipping は配送先の検証・保存と支払い段階への前進。
// カートが空ならチェックアウト自体に入れない
func (u *CheckoutUsecase) SubmitShipping(ctx context.Context, in SubmitShippingInput) (CheckoutStatus, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cart, err := u.cart.GetItems(ctx)
	if err != nil {
		return CheckoutStatus{}, err
	}
	if len(cart.Items) == 0 {
		return CheckoutStatus{}, NewHTTPError(http.StatusConflict, "cart empty")
	}

	// 完了状態からの再入は新しいチェックアウトの開始
	if u.step == StepOrderPlaced {
		u.step = StepShippingEntry
	}
	if u.step != StepShippingEntry {
		return CheckoutStatus{}, NewHTTPError(http.StatusConflict, "invalid checkout step")
	}

	if fields := validator.ValidateShippingAddress(in.Address); len(fields) > 0 {
		return CheckoutStatus{}, validator.NewValidationError(fields)
	}

	method := in.ShippingMethod
	if method == "" {
		method = model.ShippingStandard
	}
	if !model.ValidShippingMethod(method) {
		return CheckoutStatus{}, validator.NewValidationError(map[string]string{
			"shipping_method": "Please choose a valid shipping method",
		})
	}

	addr := trimAddress(in.Address)
	if addr.Country == "" {
		addr.Country = model.DefaultCountry
	}

	// 次回チェックアウトの初期値として保存（失敗してもフローは止めない）
	_ = u.store.SaveShippingAddress(ctx, addr)

	u.address = addr
	u.method = method
	u.step = StepPaymentEntry

	saved := addr
	return u.buildStatus(cart.Subtotal, &saved), nil
}

// Back は支払い段階から配送先入力への明示的な後退
func (u *CheckoutUsecase) Back(ctx context.Context) (CheckoutStatus, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.step != StepPaymentEntry {
		return CheckoutStatus{}, NewHTTPError(http.StatusConflict, "invalid checkout step")
	}
	u.step = StepShippingEntry

	cart, err := u.cart.GetItems(ctx)
	if err != nil {
		return CheckoutStatus{}, err
	}
	saved, _ := u.store.GetShippingAddress(ctx)
	return u.buildStatus(cart.Subtotal, saved), nil
}

// SubmitPayment は支払い入力を検証して注文を確定する。
// 成功時だけカートを空にして完了状態へ。失敗時は状態もカートも変えない
func (u *CheckoutUsecase) SubmitPayment(ctx context.Context, details model.PaymentDetails) (model.Order, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.step != StepPaymentEntry {
		return model.Order{}, NewHTTPError(http.StatusConflict, "invalid checkout step")
	}

	if fields := validator.ValidatePaymentDetails(details); len(fields) > 0 {
		return model.Order{}, validator.NewValidationError(fields)
	}

	cart, err := u.cart.GetItems(ctx)
	if err != nil {
		return model.Order{}, err
	}
	if len(cart.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusConflict, "cart empty")
	}

	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Name:      it.Name,
		})
	}

	order, err := u.orders.Create(ctx, CreateOrderInput{
		Items:           items,
		Total:           checkoutTotal(cart.Subtotal, u.method),
		ShippingAddress: u.address,
		ShippingMethod:  u.method,
		PaymentMethod:   model.PaymentMethodCreditCard,
	})
	if err != nil {
		// 支払い段階に留まる。カートもフォームもそのまま
		return model.Order{}, err
	}

	if _, err := u.cart.ClearCart(ctx); err != nil {
		return model.Order{}, err
	}

	u.step = StepOrderPlaced
	u.lastOrderID = order.ID
	return order, nil
}

func (u *CheckoutUsecase) buildStatus(subtotal float64, saved *model.Address) CheckoutStatus {
	shipping := model.ShippingCost(u.method)
	tax := roundCents(subtotal * model.TaxRate)

	return CheckoutStatus{
		Step:           u.step,
		SavedAddress:   saved,
		ShippingMethod: u.method,
		Subtotal:       roundCents(subtotal),
		ShippingCost:   shipping,
		Tax:            tax,
		Total:          roundCents(subtotal + shipping + tax),
		LastOrderID:    u.lastOrderID,
	}
}

// 合計 = 小計 + 送料 + 税（小計の8%）。セント単位へ丸める
func checkoutTotal(subtotal float64, method model.ShippingMethod) float64 {
	tax := roundCents(subtotal * model.TaxRate)
	return roundCents(subtotal + model.ShippingCost(method) + tax)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func trimAddress(a model.Address) model.Address {
	return model.Address{
		FirstName: strings.TrimSpace(a.FirstName),
		LastName:  strings.TrimSpace(a.LastName),
		Email:     strings.TrimSpace(a.Email),
		Phone:     strings.TrimSpace(a.Phone),
		Address:   strings.TrimSpace(a.Address),
		City:      strings.TrimSpace(a.City),
		State:     strings.TrimSpace(a.State),
		ZipCode:   strings.TrimSpace(a.ZipCode),
		Country:   strings.TrimSpace(a.Country),
	}
}
