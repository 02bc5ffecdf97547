package repository

import (
	"context"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
)

// PersistentStore はブラウザのlocalStorage相当のキー別ブロブ保存。
// Get系は欠損・破損時にデフォルト値（空リスト / nil）を返し、エラーにしない。
// Save系は呼び出しが返った時点で書き込み済みであることを約束する。
type PersistentStore interface {
	GetCart(ctx context.Context) ([]model.CartItem, error)
	SaveCart(ctx context.Context, items []model.CartItem) error

	GetShippingAddress(ctx context.Context) (*model.Address, error)
	SaveShippingAddress(ctx context.Context, addr model.Address) error

	GetRecentlyViewed(ctx context.Context) ([]int64, error)
	SaveRecentlyViewed(ctx context.Context, productIDs []int64) error

	// 全キーを削除
	Clear(ctx context.Context) error
}
