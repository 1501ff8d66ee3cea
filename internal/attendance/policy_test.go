package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"attendlog/internal/model"
)

func TestAdminGraceBoundary(t *testing.T) {
	t.Parallel()

	assert.False(t, Evaluate(model.DepartmentAdmin, time.Monday, "08:34").IsLate, "08:34 should not be late")
	assert.True(t, Evaluate(model.DepartmentAdmin, time.Monday, "08:35").IsLate, "08:35 should be late")
}

func TestAdminSaturdayLimit(t *testing.T) {
	t.Parallel()

	assert.False(t, Evaluate(model.DepartmentAdmin, time.Saturday, "14:04").IsLate)
	assert.True(t, Evaluate(model.DepartmentAdmin, time.Saturday, "14:05").IsLate)
}

func TestAdminNoRuleOnFridayAndSunday(t *testing.T) {
	t.Parallel()

	for _, wd := range []time.Weekday{time.Friday, time.Sunday} {
		_, ok := ComputeLimitMinutes(model.DepartmentAdmin, wd, 700)
		assert.False(t, ok, "ADMIN on %v should have no rule", wd)

		res := Evaluate(model.DepartmentAdmin, wd, "11:40")
		assert.False(t, res.IsLate, wd.String())
		assert.False(t, res.HasLimit, wd.String())
	}
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday} {
		limit, ok := ComputeLimitMinutes(model.DepartmentAdmin, wd, 500)
		assert.True(t, ok, wd.String())
		assert.Equal(t, 510, limit, wd.String())
	}
}

func TestClinicalShiftInference(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw       string
		wantLimit int
		wantLate  bool
	}{
		{"07:58", 480, false},
		{"08:04", 480, false},
		{"08:05", 480, true},
		{"11:59", 480, true},
		{"12:00", 960, false},
		{"15:50", 960, false},
		{"16:10", 960, true},
	}
	for _, tc := range cases {
		// 与星期无关
		for _, wd := range []time.Weekday{time.Sunday, time.Friday, time.Saturday} {
			res := Evaluate(model.DepartmentClinical, wd, tc.raw)
			want := model.LatenessResult{IsLate: tc.wantLate, LimitMinutes: tc.wantLimit, HasLimit: true}
			assert.Equal(t, want, res, "%s on %v", tc.raw, wd)
		}
	}
}

func TestDoctorNearestShift(t *testing.T) {
	t.Parallel()

	cases := []struct {
		weekday time.Weekday
		clockIn int
		want    int
	}{
		{time.Monday, 720, 870},  // 12:00 -> 14:30
		{time.Monday, 540, 540},  // 09:00
		{time.Monday, 1000, 870}, // 16:40 -> 14:30
		{time.Monday, 1100, 1200},
		{time.Friday, 720, 540}, // 12:00 等距 09:00/15:00 -> 先出现的 09:00
		{time.Friday, 721, 900},
		{time.Friday, 1200, 900}, // 周五没有 20:00
		{time.Sunday, 705, 540},  // 11:45 等距 09:00/14:30 -> 09:00
	}
	for _, tc := range cases {
		got, ok := ComputeLimitMinutes(model.DepartmentDoctor, tc.weekday, tc.clockIn)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got, "doctor %v %s", tc.weekday, FormatMinutes(tc.clockIn))
	}

	assert.False(t, Evaluate(model.DepartmentDoctor, time.Monday, "12:00").IsLate, "12:00 matched to 14:30")
	assert.True(t, Evaluate(model.DepartmentDoctor, time.Monday, "09:05").IsLate)
}

func TestEvaluate_Unparseable(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "MC", "--", "8h30"} {
		assert.Equal(t, model.LatenessResult{}, Evaluate(model.DepartmentClinical, time.Monday, raw), raw)
	}
}

func TestEvaluate_MultiLineUsesFirstPunch(t *testing.T) {
	t.Parallel()

	res := Evaluate(model.DepartmentAdmin, time.Tuesday, "08:40\n17:05")
	assert.True(t, res.IsLate, "08:40 first punch should be late")
	assert.Equal(t, 510, res.LimitMinutes)

	res = Evaluate(model.DepartmentAdmin, time.Tuesday, "08:20\n09:40")
	assert.False(t, res.IsLate, "second line must be ignored")
}

func TestEvaluate_UnknownDepartment(t *testing.T) {
	t.Parallel()

	_, ok := ComputeLimitMinutes(model.Department("NURSE"), time.Monday, 600)
	assert.False(t, ok, "unknown department should have no rule")
}
