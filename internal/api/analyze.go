package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendlog/internal/analysis"
	"attendlog/internal/attendance"
	"attendlog/internal/model"
	"attendlog/internal/roster"
	"attendlog/internal/service/excel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyzeResponse 分析结果摘要
type AnalyzeResponse struct {
	RunID        string               `json:"runId"`
	ArtifactName string               `json:"artifactName"`
	Year         int                  `json:"year"`
	Month        int                  `json:"month"`
	LateTotal    int                  `json:"lateTotal"`
	Staff        []model.StaffSummary `json:"staff"`
	DownloadURL  string               `json:"downloadUrl,omitempty"`
}

func newAnalyzeResponse(res *analysis.FileResult) AnalyzeResponse {
	return AnalyzeResponse{
		RunID:        res.RunID,
		ArtifactName: res.ArtifactName,
		Year:         res.Config.Year,
		Month:        res.Config.Month,
		LateTotal:    res.LateTotal,
		Staff:        res.Summaries,
	}
}

// parseAnalyzeForm 读取上传文件与年月
func parseAnalyzeForm(c *gin.Context) (*multipart.FileHeader, model.AnalysisConfig, error) {
	var cfg model.AnalysisConfig

	fh, err := c.FormFile("file")
	if err != nil {
		return nil, cfg, errors.New("missing upload field \"file\" (.xls / .xlsx)")
	}
	if _, err := excel.FormatFromName(fh.Filename); err != nil {
		return nil, cfg, err
	}

	// 未提交年月时先按文件名推断，再退回当前月份
	now := time.Now()
	defYear, defMonth := now.Year(), int(now.Month())
	if y, m, ok := attendance.PeriodFromName(fh.Filename); ok {
		defYear, defMonth = y, m
	}
	cfg.Year, err = strconv.Atoi(c.DefaultPostForm("year", strconv.Itoa(defYear)))
	if err != nil {
		return nil, cfg, fmt.Errorf("%w: year must be a number", model.ErrInvalidPeriod)
	}
	cfg.Month, err = strconv.Atoi(c.DefaultPostForm("month", strconv.Itoa(defMonth)))
	if err != nil {
		return nil, cfg, fmt.Errorf("%w: month must be a number", model.ErrInvalidPeriod)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, err
	}
	return fh, cfg, nil
}

func (h *Handler) runUpload(fh *multipart.FileHeader, cfg model.AnalysisConfig, progress func(analysis.ProgressEvent)) (*analysis.FileResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return h.service.AnalyzeFile(f, fh.Filename, cfg, progress)
}

// statusFor 前置条件错误返回 400，其余 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrLogSheetMissing),
		errors.Is(err, model.ErrInvalidPeriod),
		errors.Is(err, excel.ErrUnsupportedFormat),
		errors.Is(err, roster.ErrInvalidRoster):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Analyze 分析上传的考勤表并直接返回标注后的工作簿
// POST /api/analyze (multipart: file, year, month)
func (h *Handler) Analyze(c *gin.Context) {
	fh, cfg, err := parseAnalyzeForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.runUpload(fh, cfg, nil)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(res.ArtifactName))
	c.Header("X-Run-Id", res.RunID)
	c.Header("X-Late-Total", strconv.Itoa(res.LateTotal))
	c.Data(http.StatusOK, xlsxContentType, res.Output)
}

type progressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// AnalyzeStream 分析（SSE 进度 + 完成后提供下载地址）
// POST /api/analyze/stream
func (h *Handler) AnalyzeStream(c *gin.Context) {
	fh, cfg, err := parseAnalyzeForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event progressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(progressEvent{
		Type:      "start",
		Message:   "analysis started",
		Data:      map[string]any{"year": cfg.Year, "month": cfg.Month, "file": fh.Filename},
		Timestamp: time.Now(),
	})

	lastPercent := -1
	res, err := h.runUpload(fh, cfg, func(p analysis.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(progressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	})
	if err != nil {
		send(progressEvent{
			Type:      "error",
			Message:   err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}

	path := filepath.Join(h.exportDir, fmt.Sprintf("%s_%s", res.RunID, res.ArtifactName))
	if err := os.WriteFile(path, res.Output, 0644); err != nil {
		h.logger.Error("failed to save artifact", zap.String("path", path), zap.Error(err))
		send(progressEvent{
			Type:      "error",
			Message:   "failed to save output: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}

	token := h.downloads.put(path, res.ArtifactName, 10*time.Minute)
	resp := newAnalyzeResponse(res)
	resp.DownloadURL = "/api/download/" + token

	send(progressEvent{
		Type:      "done",
		Message:   "analysis finished",
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// Download 下载分析结果（一次性）
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "output file not found"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.artifactName))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}

func buildContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
