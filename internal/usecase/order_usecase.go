package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	repo "github.com/apper-apps/shophub-online-alarm/internal/repository"
)

// OrderUsecase は注文の作成と参照。
// 合計金額は作成時のスナップショットで、以後再計算しない。
type OrderUsecase struct {
	orders repo.OrderRepository
}

func NewOrderUsecase(orders repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders}
}

type CreateOrderInput struct {
	Items           []model.OrderItem
	Total           float64
	ShippingAddress model.Address
	ShippingMethod  model.ShippingMethod
	PaymentMethod   string
}

func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (model.Order, error) {
	if len(in.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "order has no items")
	}
	if in.Total < 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid total")
	}
	if !model.ValidShippingMethod(in.ShippingMethod) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid shipping method")
	}

	now := time.Now()
	order := model.Order{
		OrderNumber:     generateOrderNumber(now),
		Items:           in.Items,
		Total:           in.Total,
		ShippingAddress: in.ShippingAddress,
		ShippingMethod:  string(in.ShippingMethod),
		PaymentMethod:   in.PaymentMethod,
		Status:          model.OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "order error")
	}
	return created, nil
}

func (u *OrderUsecase) GetAll(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "order error")
	}
	return orders, nil
}

func (u *OrderUsecase) GetByID(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "order error")
	}
	return o, nil
}

func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !model.ValidOrderStatus(status) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	o, err := u.orders.UpdateStatus(ctx, orderID, status)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "order error")
	}
	return o, nil
}

// 注文番号は ORD-<ミリ秒>-<ランダム9桁>。
// 同一ミリ秒内の連続作成でも衝突しないようランダム部はUUID由来
func generateOrderNumber(now time.Time) string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + entropy
}
