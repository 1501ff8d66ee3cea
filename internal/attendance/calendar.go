package attendance

import "time"

// DaysInMonth 使用"下个月第 0 天"求当月天数，自动处理跨年与闰年
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weekday 公历星期（0=周日）
func Weekday(year int, month time.Month, day int) time.Weekday {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
}
