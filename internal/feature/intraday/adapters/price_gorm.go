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

type priceGorm struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceGorm)(nil)

func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

type PricePointModel struct {
	ID          uint      `gorm:"primaryKey"`
	StockSymbol string    `gorm:"size:16;not null;uniqueIndex:price_sym_time_int,priority:1"`
	Timestamp   time.Time `gorm:"not null;uniqueIndex:price_sym_time_int,priority:2"`
	Interval    string    `gorm:"size:8;not null;uniqueIndex:price_sym_time_int,priority:3"`

	OpenPrice  float64 `gorm:"not null"`
	HighPrice  float64 `gorm:"not null"`
	LowPrice   float64 `gorm:"not null"`
	ClosePrice float64 `gorm:"not null"`
	Volume     int64   `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PricePointModel) TableName() string {
	return "stock_prices"
}

func toPriceModel(e entity.PricePoint) PricePointModel {
	return PricePointModel{
		StockSymbol: e.Symbol,
		Timestamp:   e.Timestamp,
		Interval:    e.Interval,
		OpenPrice:   e.Open,
		HighPrice:   e.High,
		LowPrice:    e.Low,
		ClosePrice:  e.Close,
		Volume:      e.Volume,
	}
}

func toPriceEntity(m PricePointModel) entity.PricePoint {
	return entity.PricePoint{
		Symbol:    m.StockSymbol,
		Timestamp: m.Timestamp,
		Open:      m.OpenPrice,
		High:      m.HighPrice,
		Low:       m.LowPrice,
		Close:     m.ClosePrice,
		Volume:    m.Volume,
		Interval:  m.Interval,
	}
}

// UpsertOne inserts the point or overwrites the OHLCV values when the
// (stock_symbol, timestamp, interval) key already exists. Records are written
// one at a time so a bad record only costs itself.
func (r *priceGorm) UpsertOne(ctx context.Context, point entity.PricePoint) error {
	m := toPriceModel(point)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_symbol"}, {Name: "timestamp"}, {Name: "interval"}},
		DoUpdates: clause.AssignmentColumns([]string{"open_price", "high_price", "low_price", "close_price", "volume", "updated_at"}),
	}).Create(&m).Error
}

func (r *priceGorm) FindBySymbol(ctx context.Context, symbol, interval string, from, to *time.Time, limit int) ([]entity.PricePoint, error) {
	var rows []PricePointModel
	q := r.db.WithContext(ctx).
		Where("stock_symbol = ?", symbol).
		Order("timestamp DESC")
	if interval != "" {
		// "interval" is reserved in PostgreSQL.
		q = q.Where(`"interval" = ?`, interval)
	}
	if from != nil {
		q = q.Where("timestamp >= ?", *from)
	}
	if to != nil {
		q = q.Where("timestamp <= ?", *to)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PricePoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, toPriceEntity(m))
	}
	return out, nil
}

func (r *priceGorm) LatestBySymbol(ctx context.Context, symbol, interval string) (*entity.PricePoint, error) {
	var m PricePointModel
	q := r.db.WithContext(ctx).
		Where("stock_symbol = ?", symbol).
		Order("timestamp DESC")
	if interval != "" {
		q = q.Where(`"interval" = ?`, interval)
	}
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := toPriceEntity(m)
	return &e, nil
}
