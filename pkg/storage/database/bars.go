package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nsefetch/internal/series"
)

const insertBatchSize = 500

// ReplaceBars swaps the mirrored rows for a symbol with the given series.
// Delete-then-insert inside one transaction keeps the table an exact copy
// of the latest merged series, the same replace semantics the CSV store
// has on Save.
func (c *Client) ReplaceBars(ctx context.Context, symbol string, s series.Series) error {
	records := make([]BarRecord, 0, len(s))
	for _, b := range s {
		records = append(records, BarRecord{
			Symbol: symbol,
			Time:   b.Time,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol = ?", symbol).Delete(&BarRecord{}).Error; err != nil {
			return fmt.Errorf("delete old bars: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert bars: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace bars for %s: %w", symbol, err)
	}
	return nil
}

// GetBars returns the mirrored series for a symbol in ascending time order.
func (c *Client) GetBars(ctx context.Context, symbol string) (series.Series, error) {
	var records []BarRecord
	err := c.DB.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("time ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make(series.Series, 0, len(records))
	for _, r := range records {
		out = append(out, series.Bar{
			Time:   r.Time,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return out, nil
}
