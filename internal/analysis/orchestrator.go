package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"attendlog/internal/annotator"
	"attendlog/internal/grid"
	"attendlog/internal/model"
	"attendlog/internal/roster"
)

// Source 提供考勤日志表（工作簿的第二个工作表）
type Source interface {
	LogGrid() (*grid.Grid, error)
}

// Result 一次分析的结果
type Result struct {
	Grid         *grid.Grid
	ArtifactName string
	Config       model.AnalysisConfig
	Summaries    []model.StaffSummary
	LateTotal    int
}

// ArtifactName 输出文件名 Analysis_<month>_<year>.xlsx
func ArtifactName(cfg model.AnalysisConfig) string {
	return fmt.Sprintf("Analysis_%d_%d.xlsx", cfg.Month, cfg.Year)
}

// Orchestrator 对整份排班表驱动标注器
type Orchestrator struct {
	roster model.Roster
	opts   annotator.Options
	logger *zap.Logger
}

// NewOrchestrator 创建编排器，logger 为 nil 时不输出日志
func NewOrchestrator(r model.Roster, opts annotator.Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{roster: r, opts: opts, logger: logger}
}

// Roster 当前使用的排班表
func (o *Orchestrator) Roster() model.Roster {
	return o.roster
}

// Options 当前输出格式选项
func (o *Orchestrator) Options() annotator.Options {
	return o.opts
}

// Run 执行一次完整分析
//
// 所有前置条件（年月、排班表、第二个工作表）在处理任何员工行之前检查；
// 开始处理后单元格级别的问题不会中断运行。
func (o *Orchestrator) Run(src Source, cfg model.AnalysisConfig, progress func(ProgressEvent)) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := o.opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid output options: %w", err)
	}
	if err := roster.Validate(o.roster); err != nil {
		return nil, err
	}
	g, err := src.LogGrid()
	if err != nil {
		return nil, err
	}
	reportProgress(progress, 10, "log sheet loaded")

	a := annotator.New(cfg, o.opts)
	a.Prepare(g, o.roster)

	res := &Result{
		Grid:         g,
		ArtifactName: ArtifactName(cfg),
		Config:       cfg,
		Summaries:    make([]model.StaffSummary, 0, len(o.roster)),
	}
	for i, entry := range o.roster {
		s := a.AnnotateStaff(g, entry)
		res.Summaries = append(res.Summaries, s)
		res.LateTotal += s.LateCount

		o.logger.Debug("staff annotated",
			zap.Int("row", entry.Row),
			zap.String("name", entry.Name),
			zap.String("department", entry.Department.String()),
			zap.Int("late", s.LateCount))
		reportProgress(progress, 10+80*(i+1)/max(len(o.roster), 1), "annotating "+entry.Name)
	}

	o.logger.Info("attendance analyzed",
		zap.Int("year", cfg.Year),
		zap.Int("month", cfg.Month),
		zap.Int("days", a.DaysInMonth()),
		zap.Int("staff", len(o.roster)),
		zap.Int("lateTotal", res.LateTotal))
	return res, nil
}
