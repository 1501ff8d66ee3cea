package model

import "errors"

var (
	// ErrLogSheetMissing 工作簿没有第二个工作表（考勤日志必须位于第二个工作表）
	ErrLogSheetMissing = errors.New("log sheet (second sheet) not found")
	// ErrInvalidPeriod 年月不合法
	ErrInvalidPeriod = errors.New("invalid analysis period")
)
