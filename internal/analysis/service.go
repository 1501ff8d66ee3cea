package analysis

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"attendlog/internal/model"
	"attendlog/internal/service/excel"
)

// RunRecorder 记录运行历史（可选）
type RunRecorder interface {
	CreateRun(run model.RunRecord) error
	CompleteRun(id, artifactName string, summaries []model.StaffSummary) error
	FailRun(id, message string) error
}

// Service 文件级分析：读取工作簿 -> 标注 -> 写出新工作簿
type Service struct {
	orch   *Orchestrator
	runs   RunRecorder
	logger *zap.Logger
}

// NewService 创建分析服务，runs 可以为 nil
func NewService(orch *Orchestrator, runs RunRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orch: orch, runs: runs, logger: logger}
}

// Orchestrator 底层编排器
func (s *Service) Orchestrator() *Orchestrator {
	return s.orch
}

// FileResult 文件级分析结果
type FileResult struct {
	*Result
	RunID string
	// Output 输出工作簿内容
	Output []byte
}

// AnalyzeFile 分析上传的工作簿；失败时不产生任何输出
func (s *Service) AnalyzeFile(r io.Reader, filename string, cfg model.AnalysisConfig, progress func(ProgressEvent)) (*FileResult, error) {
	runID := uuid.New().String()
	s.record(func() error {
		return s.runs.CreateRun(model.RunRecord{
			ID:        runID,
			Filename:  filename,
			Year:      cfg.Year,
			Month:     cfg.Month,
			Status:    model.RunStatusProcessing,
			CreatedAt: time.Now(),
		})
	})

	out, res, err := s.analyze(r, filename, cfg, progress)
	if err != nil {
		s.logger.Warn("analysis failed", zap.String("run", runID), zap.String("file", filename), zap.Error(err))
		s.record(func() error { return s.runs.FailRun(runID, err.Error()) })
		return nil, err
	}

	s.record(func() error { return s.runs.CompleteRun(runID, res.ArtifactName, res.Summaries) })
	reportProgress(progress, 100, "done")
	return &FileResult{Result: res, RunID: runID, Output: out}, nil
}

func (s *Service) analyze(r io.Reader, filename string, cfg model.AnalysisConfig, progress func(ProgressEvent)) ([]byte, *Result, error) {
	wb, err := excel.Open(r, filename)
	if err != nil {
		return nil, nil, err
	}
	defer wb.Close()
	reportProgress(progress, 5, "workbook opened")

	res, err := s.orch.Run(wb, cfg, progress)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := wb.WriteAnalyzed(res.Grid, &buf); err != nil {
		return nil, nil, fmt.Errorf("failed to write %s: %w", res.ArtifactName, err)
	}
	reportProgress(progress, 95, "workbook written")
	return buf.Bytes(), res, nil
}

// record 运行历史写入失败只记日志，不影响分析结果
func (s *Service) record(fn func() error) {
	if s.runs == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.Warn("failed to record run", zap.Error(err))
	}
}
