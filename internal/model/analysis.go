package model

// LatenessResult 单个 (员工, 日期) 的迟到判定
type LatenessResult struct {
	IsLate bool
	// LimitMinutes 适用的上班时间（分钟），HasLimit 为 false 时无意义
	LimitMinutes int
	HasLimit     bool
}

// StaffSummary 员工月度汇总（对应 AF/AG 两列）
type StaffSummary struct {
	Row        int        `json:"row"`
	Name       string     `json:"name"`
	Department Department `json:"department"`
	LateCount  int        `json:"lateCount"`
	LateDays   []int      `json:"lateDays"`
	Label      string     `json:"label"`
}
