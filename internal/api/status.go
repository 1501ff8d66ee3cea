package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attendlog/internal/model"
	"attendlog/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	StaffCount     int            `json:"staffCount"`     // 排班表人数
	Departments    map[string]int `json:"departments"`    // 各部门人数
	LabelFormat    string         `json:"labelFormat"`    // 标签列格式
	HeaderRow      int            `json:"headerRow"`      // 表头行 (0-based)
	HistoryEnabled bool           `json:"historyEnabled"` // 是否记录运行历史
	LastYear       int            `json:"lastYear,omitempty"`
	LastMonth      int            `json:"lastMonth,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	orch := h.service.Orchestrator()
	opts := orch.Options()

	resp := StatusResponse{
		StaffCount:     len(orch.Roster()),
		Departments:    map[string]int{},
		LabelFormat:    string(opts.LabelFormat),
		HeaderRow:      opts.HeaderRow,
		HistoryEnabled: h.store != nil,
	}
	for _, e := range orch.Roster() {
		resp.Departments[e.Department.String()]++
	}
	if h.store != nil {
		if year, month, err := h.store.GetLastPeriod(); err == nil {
			resp.LastYear, resp.LastMonth = year, month
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetRoster 当前排班表
// GET /api/roster
func (h *Handler) GetRoster(c *gin.Context) {
	r := h.service.Orchestrator().Roster()
	if r == nil {
		r = model.Roster{}
	}
	c.JSON(http.StatusOK, gin.H{"staff": r})
}

// ListRuns 运行历史
// GET /api/runs?limit=50
func (h *Handler) ListRuns(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []*model.RunRecord{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []*model.RunRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun 单次运行详情（含员工汇总）
// GET /api/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run history disabled"})
		return
	}
	id := c.Param("id")
	run, err := h.store.GetRun(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	staff, err := h.store.ListRunStaff(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if staff == nil {
		staff = []model.StaffSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "staff": staff})
}
