package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"attendlog/internal/model"
)

// RunStore 运行历史读写接口（SQLite 与内存实现）
type RunStore interface {
	CreateRun(run model.RunRecord) error
	CompleteRun(id, artifactName string, summaries []model.StaffSummary) error
	FailRun(id, message string) error
	GetRun(id string) (*model.RunRecord, error)
	ListRuns(limit int) ([]*model.RunRecord, error)
	ListRunStaff(runID string) ([]model.StaffSummary, error)
	GetLastPeriod() (year, month int, err error)
	Close() error
}

var (
	_ RunStore = (*Store)(nil)
	_ RunStore = (*MemoryStore)(nil)
)

// errNoPeriod 尚无成功的分析
var errNoPeriod = errors.New("no completed run yet")

// MemoryStore 内存运行历史（进程退出即丢失）
type MemoryStore struct {
	runs      map[string]*model.RunRecord
	staff     map[string][]model.StaffSummary
	lastYear  int
	lastMonth int
	mu        sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:  make(map[string]*model.RunRecord),
		staff: make(map[string][]model.StaffSummary),
	}
}

// CreateRun 创建运行记录
func (s *MemoryStore) CreateRun(run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("failed to create run: duplicate id %s", run.ID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = model.RunStatusProcessing
	}
	s.runs[run.ID] = &run
	return nil
}

// CompleteRun 写入员工汇总并标记成功
func (s *MemoryStore) CompleteRun(id, artifactName string, summaries []model.StaffSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	lateTotal := 0
	for _, sum := range summaries {
		lateTotal += sum.LateCount
	}
	now := time.Now()
	run.ArtifactName = artifactName
	run.StaffCount = len(summaries)
	run.LateTotal = lateTotal
	run.Status = model.RunStatusSuccess
	run.CompletedAt = &now

	s.staff[id] = append([]model.StaffSummary(nil), summaries...)
	s.lastYear, s.lastMonth = run.Year, run.Month
	return nil
}

// FailRun 标记失败
func (s *MemoryStore) FailRun(id, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	now := time.Now()
	run.Status = model.RunStatusFailed
	run.ErrorMessage = message
	run.CompletedAt = &now
	return nil
}

// GetRun 获取单次运行（返回副本）
func (s *MemoryStore) GetRun(id string) (*model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	cp := *run
	return &cp, nil
}

// ListRuns 按创建时间倒序
func (s *MemoryStore) ListRuns(limit int) ([]*model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		cp := *run
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListRunStaff 单次运行的员工汇总（按行号）
func (s *MemoryStore) ListRunStaff(runID string) ([]model.StaffSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]model.StaffSummary(nil), s.staff[runID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out, nil
}

// GetLastPeriod 最近一次成功分析的年月
func (s *MemoryStore) GetLastPeriod() (year, month int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastYear == 0 {
		return 0, 0, errNoPeriod
	}
	return s.lastYear, s.lastMonth, nil
}

// Count 运行记录数量
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Close 清空内存数据
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]*model.RunRecord)
	s.staff = make(map[string][]model.StaffSummary)
	return nil
}
