package attendance

import (
	"time"

	"attendlog/internal/model"
)

// GraceMinutes 宽限分钟数：超过 limit+4 才算迟到
const GraceMinutes = 4

const (
	adminWeekdayLimit  = 8*60 + 30 // 08:30
	adminSaturdayLimit = 14 * 60   // 14:00

	clinicalShiftSplit     = 12 * 60 // 12:00 之前视为早班
	clinicalMorningLimit   = 8 * 60  // 08:00
	clinicalAfternoonLimit = 16 * 60 // 16:00
)

// 医生候选班次，按顺序比较，距离相同时先出现的胜出
var (
	doctorFridayShifts  = []int{9 * 60, 15 * 60}
	doctorDefaultShifts = []int{9 * 60, 14*60 + 30, 20 * 60}
)

// ComputeLimitMinutes 返回部门在某天对应的上班时间，无适用规则时 ok=false
//
// ADMIN 只覆盖周一至周四和周六；周五、周日没有规则，永远不会被标记迟到。
func ComputeLimitMinutes(dept model.Department, weekday time.Weekday, clockIn int) (limit int, ok bool) {
	switch dept {
	case model.DepartmentAdmin:
		switch {
		case weekday >= time.Monday && weekday <= time.Thursday:
			return adminWeekdayLimit, true
		case weekday == time.Saturday:
			return adminSaturdayLimit, true
		}
		return 0, false

	case model.DepartmentClinical:
		if clockIn < clinicalShiftSplit {
			return clinicalMorningLimit, true
		}
		return clinicalAfternoonLimit, true

	case model.DepartmentDoctor:
		shifts := doctorDefaultShifts
		if weekday == time.Friday {
			shifts = doctorFridayShifts
		}
		return nearestShift(shifts, clockIn), true
	}
	return 0, false
}

// nearestShift 严格小于比较，平局保留先出现的候选
func nearestShift(shifts []int, clockIn int) int {
	best := shifts[0]
	for _, s := range shifts[1:] {
		if abs(s-clockIn) < abs(best-clockIn) {
			best = s
		}
	}
	return best
}

// IsLate 超过 limit + GraceMinutes 才算迟到
func IsLate(clockIn, limit int) bool {
	return clockIn > limit+GraceMinutes
}

// Evaluate 对单元格原始文本做完整判定：解析 -> 规则 -> 迟到
func Evaluate(dept model.Department, weekday time.Weekday, raw string) model.LatenessResult {
	clockIn, ok := ParseClockInMinutes(raw)
	if !ok {
		return model.LatenessResult{}
	}
	limit, ok := ComputeLimitMinutes(dept, weekday, clockIn)
	if !ok {
		return model.LatenessResult{}
	}
	return model.LatenessResult{
		IsLate:       IsLate(clockIn, limit),
		LimitMinutes: limit,
		HasLimit:     true,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
