// Package adapters implements the intraday repositories on PostgreSQL via
// gorm. The same models run against SQLite in tests.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_etl/internal/feature/intraday/domain/entity"
	"stock_etl/internal/feature/intraday/usecase"
)

type stockGorm struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockGorm)(nil)

func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

type StockModel struct {
	ID          uint   `gorm:"primaryKey"`
	Symbol      string `gorm:"size:16;not null;uniqueIndex"`
	CompanyName string `gorm:"size:255"`
	Exchange    string `gorm:"size:64"`
	Currency    string `gorm:"size:8;not null;default:USD"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (StockModel) TableName() string {
	return "stocks"
}

func toStockModel(e entity.Stock) StockModel {
	return StockModel{
		Symbol:      e.Symbol,
		CompanyName: e.CompanyName,
		Exchange:    e.Exchange,
		Currency:    e.Currency,
		IsActive:    e.IsActive,
	}
}

func toStockEntity(m StockModel) entity.Stock {
	return entity.Stock{
		Symbol:      m.Symbol,
		CompanyName: m.CompanyName,
		Exchange:    m.Exchange,
		Currency:    m.Currency,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// InsertIfAbsent relies on the unique symbol index: conflicting inserts are
// silently dropped so repeated pipeline runs stay idempotent.
func (r *stockGorm) InsertIfAbsent(ctx context.Context, stock entity.Stock) error {
	m := toStockModel(stock)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(&m).Error
}

func (r *stockGorm) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var m StockModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := toStockEntity(m)
	return &e, nil
}

func (r *stockGorm) FindAll(ctx context.Context, filter usecase.StockFilter) ([]entity.Stock, error) {
	var rows []StockModel
	q := r.db.WithContext(ctx).Order("symbol ASC").Limit(filter.Limit).Offset(filter.Offset)
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Symbol != "" {
		q = q.Where("symbol = ?", filter.Symbol)
	}
	if filter.Exchange != "" {
		q = q.Where("exchange = ?", filter.Exchange)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Stock, 0, len(rows))
	for _, m := range rows {
		out = append(out, toStockEntity(m))
	}
	return out, nil
}

func (r *stockGorm) Update(ctx context.Context, stock entity.Stock) error {
	return r.db.WithContext(ctx).Model(&StockModel{}).
		Where("symbol = ?", stock.Symbol).
		Updates(map[string]any{
			"company_name": stock.CompanyName,
			"exchange":     stock.Exchange,
			"currency":     stock.Currency,
		}).Error
}

func (r *stockGorm) Deactivate(ctx context.Context, symbol string) error {
	return r.db.WithContext(ctx).Model(&StockModel{}).
		Where("symbol = ?", symbol).
		Update("is_active", false).Error
}
