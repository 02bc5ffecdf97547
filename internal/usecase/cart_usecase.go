package usecase

import (
	"context"
	"net/http"
	"sync"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	repo "github.com/apper-apps/shophub-online-alarm/internal/repository"
)

// CartUsecase はカートの単一の正。
// 全ページはこのインスタンスを共有し、各自でストアを読み直さない。
// 変更系は必ずストアへ保存してから返す（クラッシュ直後でも最新が残る）。
type CartUsecase struct {
	store repo.PersistentStore

	// read-modify-write を直列化。同時のAddItemで更新が消えないように
	mu sync.Mutex
}

func NewCartUsecase(store repo.PersistentStore) *CartUsecase {
	return &CartUsecase{store: store}
}

// CartResponse は明細と派生値（数量合計・小計）
type CartResponse struct {
	Items      []model.CartItem `json:"items"`
	TotalItems int64            `json:"total_items"`
	Subtotal   float64          `json:"subtotal"`
}

type AddItemInput struct {
	ProductID int64
	VariantID string
	Quantity  int64
	Price     float64
	Name      string
	Image     string
	Variant   string
}

func (u *CartUsecase) GetItems(ctx context.Context) (CartResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	items, _ := u.store.GetCart(ctx)
	return buildCartResponse(items), nil
}

// AddItem は同一キー (product_id, variant_id) なら数量加算。
// 既存明細の価格・名前・画像は触らない（先勝ち）。無ければ末尾に追加
func (u *CartUsecase) AddItem(ctx context.Context, in AddItemInput) (CartResponse, error) {
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.VariantID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.Price < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	items, _ := u.store.GetCart(ctx)

	merged := false
	for i := range items {
		if items[i].ProductID == in.ProductID && items[i].VariantID == in.VariantID {
			items[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, model.CartItem{
			ProductID: in.ProductID,
			VariantID: in.VariantID,
			Quantity:  in.Quantity,
			Price:     in.Price,
			Name:      in.Name,
			Image:     in.Image,
			Variant:   in.Variant,
		})
	}

	u.persist(ctx, items)
	return buildCartResponse(items), nil
}

// UpdateItem は数量の置き換え。quantity < 1 は拒否（自動削除はしない）。
// 対象キーが無ければ何もせず現状を返す
func (u *CartUsecase) UpdateItem(ctx context.Context, productID int64, variantID string, quantity int64) (CartResponse, error) {
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	items, _ := u.store.GetCart(ctx)

	changed := false
	for i := range items {
		if items[i].ProductID == productID && items[i].VariantID == variantID {
			items[i].Quantity = quantity
			changed = true
			break
		}
	}

	if changed {
		u.persist(ctx, items)
	}
	return buildCartResponse(items), nil
}

// RemoveItem は対象キーの明細を削除。無ければ何もしない
func (u *CartUsecase) RemoveItem(ctx context.Context, productID int64, variantID string) (CartResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	items, _ := u.store.GetCart(ctx)

	out := items[:0]
	removed := false
	for _, it := range items {
		if it.ProductID == productID && it.VariantID == variantID {
			removed = true
			continue
		}
		out = append(out, it)
	}

	if removed {
		u.persist(ctx, out)
	}
	return buildCartResponse(out), nil
}

func (u *CartUsecase) ClearCart(ctx context.Context) (CartResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	empty := []model.CartItem{}
	u.persist(ctx, empty)
	return buildCartResponse(empty), nil
}

// GetItemCount は数量合計。空カートは0
func (u *CartUsecase) GetItemCount(ctx context.Context) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	items, _ := u.store.GetCart(ctx)
	return model.CartItemCount(items), nil
}

// 保存の失敗はストア側でログ済み。ページは落とさない
func (u *CartUsecase) persist(ctx context.Context, items []model.CartItem) {
	_ = u.store.SaveCart(ctx, items)
}

func buildCartResponse(items []model.CartItem) CartResponse {
	if items == nil {
		items = []model.CartItem{}
	}
	return CartResponse{
		Items:      items,
		TotalItems: model.CartItemCount(items),
		Subtotal:   model.CartSubtotal(items),
	}
}
