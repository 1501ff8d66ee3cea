package model

import (
	"fmt"
	"time"
)

// AnalysisConfig 单次分析的年月
type AnalysisConfig struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// Validate 校验年月
func (c AnalysisConfig) Validate() error {
	if c.Year <= 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, c.Year)
	}
	if c.Month < 1 || c.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, c.Month)
	}
	return nil
}

// TimeMonth 转为 time.Month
func (c AnalysisConfig) TimeMonth() time.Month {
	return time.Month(c.Month)
}
