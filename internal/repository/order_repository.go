package repository

import (
	"context"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
)

// 注文コレクションの永続化だけを約束。
// IDは作成側で採番（既存最大+1）し、削除は提供しない。
type OrderRepository interface {
	List(ctx context.Context) ([]model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (model.Order, error)
}
