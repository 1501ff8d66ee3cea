package model

import "time"

// RunStatus 分析运行状态
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusSuccess    RunStatus = "success"
	RunStatusFailed     RunStatus = "failed"
)

// RunRecord 分析运行记录
type RunRecord struct {
	ID           string     `json:"id"`
	Filename     string     `json:"filename"`
	Year         int        `json:"year"`
	Month        int        `json:"month"`
	ArtifactName string     `json:"artifactName"`
	StaffCount   int        `json:"staffCount"`
	LateTotal    int        `json:"lateTotal"`
	Status       RunStatus  `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}
