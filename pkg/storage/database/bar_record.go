package database

import "time"

// BarRecord is one stored OHLCV bar. The mirror keeps exactly the rows of
// the latest merged series per symbol, so (symbol, time) is unique.
type BarRecord struct {
	ID uint `gorm:"primaryKey"`

	Symbol string    `gorm:"type:text;not null;index:idx_bar_symbol;index:idx_bar_symbol_time,unique"`
	Time   time.Time `gorm:"not null;index:idx_bar_symbol_time,unique"`

	Open   float64 `gorm:"type:numeric;not null"`
	High   float64 `gorm:"type:numeric;not null"`
	Low    float64 `gorm:"type:numeric;not null"`
	Close  float64 `gorm:"type:numeric;not null"`
	Volume float64 `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (BarRecord) TableName() string {
	return "price_bars"
}
