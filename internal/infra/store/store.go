package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
)

// 保存キー。localStorage時代のキー名をそのまま引き継ぐ
const (
	cartKey           = "shophub_cart"
	shippingKey       = "shophub_shipping_address"
	recentlyViewedKey = "shophub_recently_viewed"
)

// Row はキー別のJSONブロブ1件
type Row struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

func (Row) TableName() string {
	return "store_entries"
}

// Store はカート・配送先・閲覧履歴のキーバリュー永続化。
// 読めない・壊れている場合はデフォルト値に落としてログだけ残し、
// 呼び出し側へはエラーを伝播しない。
// 書き込みはキー別mutexで直列化する。
type Store struct {
	db  *gorm.DB
	log *slog.Logger

	mu map[string]*sync.Mutex
}

func New(db *gorm.DB, log *slog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, err
	}

	if log == nil {
		log = slog.Default()
	}

	return &Store{
		db:  db,
		log: log,
		mu: map[string]*sync.Mutex{
			cartKey:           {},
			shippingKey:       {},
			recentlyViewedKey: {},
		},
	}, nil
}

func (s *Store) GetCart(ctx context.Context) ([]model.CartItem, error) {
	var items []model.CartItem
	if !s.load(ctx, cartKey, &items) || items == nil {
		return []model.CartItem{}, nil
	}
	return items, nil
}

func (s *Store) SaveCart(ctx context.Context, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}
	return s.save(ctx, cartKey, items)
}

func (s *Store) GetShippingAddress(ctx context.Context) (*model.Address, error) {
	var addr model.Address
	if !s.load(ctx, shippingKey, &addr) {
		return nil, nil
	}
	return &addr, nil
}

func (s *Store) SaveShippingAddress(ctx context.Context, addr model.Address) error {
	return s.save(ctx, shippingKey, addr)
}

func (s *Store) GetRecentlyViewed(ctx context.Context) ([]int64, error) {
	var ids []int64
	if !s.load(ctx, recentlyViewedKey, &ids) || ids == nil {
		return []int64{}, nil
	}
	return ids, nil
}

func (s *Store) SaveRecentlyViewed(ctx context.Context, productIDs []int64) error {
	if productIDs == nil {
		productIDs = []int64{}
	}
	return s.save(ctx, recentlyViewedKey, productIDs)
}

func (s *Store) Clear(ctx context.Context) error {
	res := s.db.WithContext(ctx).
		Where("key IN ?", []string{cartKey, shippingKey, recentlyViewedKey}).
		Delete(&Row{})
	if res.Error != nil {
		s.log.Error("store clear failed", "error", res.Error)
		return res.Error
	}
	return nil
}

// load はキーを読んでoutへデコードする。見つかって正常に読めたらtrue。
// 欠損・破損はfalse（＝デフォルト扱い）。破損は警告ログを残す
func (s *Store) load(ctx context.Context, key string, out any) bool {
	var row Row
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		s.log.Warn("store read failed, using default", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal([]byte(row.Value), out); err != nil {
		s.log.Warn("store entry corrupt, using default", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, value any) error {
	m := s.mu[key]
	m.Lock()
	defer m.Unlock()

	b, err := json.Marshal(value)
	if err != nil {
		s.log.Error("store encode failed", "key", key, "error", err)
		return err
	}

	row := Row{Key: key, Value: string(b), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		s.log.Error("store write failed", "key", key, "error", err)
		return err
	}
	return nil
}
