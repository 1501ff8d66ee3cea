package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendlog/internal/analysis"
	"attendlog/internal/store"
)

// Handler 考勤分析 API 处理器
type Handler struct {
	service   *analysis.Service
	store     store.RunStore
	exportDir string
	downloads *downloadStore
	logger    *zap.Logger
}

// NewHandler 创建 API 处理器；st 可以为 nil（不记录运行历史）
func NewHandler(service *analysis.Service, st store.RunStore, exportDir string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:   service,
		store:     st,
		exportDir: exportDir,
		downloads: newDownloadStore(),
		logger:    logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 排班表
	router.GET("/roster", h.GetRoster)

	// 考勤分析
	router.POST("/analyze", h.Analyze)
	router.POST("/analyze/stream", h.AnalyzeStream)
	router.GET("/download/:token", h.Download)

	// 运行历史
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id", h.GetRun)
}
