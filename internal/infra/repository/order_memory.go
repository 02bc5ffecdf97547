package repository

import (
	"context"
	"sync"
	"time"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	repo "github.com/apper-apps/shophub-online-alarm/internal/repository"
)

// OrderMemoryRepository はバックエンド相当のインメモリ注文コレクション。
// IDは既存最大+1で採番。削除は提供しないのでIDの再利用は起きない。
type OrderMemoryRepository struct {
	mu     sync.Mutex
	orders []model.Order
}

func NewOrderMemoryRepository() *OrderMemoryRepository {
	return &OrderMemoryRepository{orders: []model.Order{}}
}

func (r *OrderMemoryRepository) List(ctx context.Context) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = copyOrder(o)
	}
	return out, nil
}

func (r *OrderMemoryRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ID == orderID {
			return copyOrder(o), nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

// Create はIDを採番して追記し、作成した注文のコピーを返す
func (r *OrderMemoryRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64 = 0
	for _, o := range r.orders {
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	order.ID = maxID + 1

	r.orders = append(r.orders, copyOrder(order))
	return copyOrder(order), nil
}

func (r *OrderMemoryRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == orderID {
			r.orders[i].Status = status
			r.orders[i].UpdatedAt = time.Now()
			return copyOrder(r.orders[i]), nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func copyOrder(o model.Order) model.Order {
	items := make([]model.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
