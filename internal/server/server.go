package server

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendlog/internal/analysis"
	"attendlog/internal/api"
	"attendlog/internal/config"
	"attendlog/internal/roster"
	"attendlog/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  store.RunStore
	api    *api.Handler
	logger *zap.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	r, err := roster.Load(cfg.Analysis.RosterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	opts := cfg.Analysis.AnnotatorOptions()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}

	runs, err := openRunStore(cfg, dataDir)
	if err != nil {
		return nil, err
	}

	orch := analysis.NewOrchestrator(r, opts, logger.Named("analysis"))
	svc := analysis.NewService(orch, runs, logger.Named("service"))

	s := &Server{
		router: gin.New(),
		store:  runs,
		api:    api.NewHandler(svc, runs, filepath.Join(dataDir, "exports"), logger.Named("api")),
		logger: logger,
	}

	s.setupRoutes()

	logger.Info("server initialized",
		zap.String("dataDir", dataDir),
		zap.String("history", cfg.Data.History),
		zap.Int("staff", len(r)),
		zap.String("labelFormat", string(opts.LabelFormat)))
	return s, nil
}

// openRunStore 按配置选择运行历史存储
func openRunStore(cfg *config.AppConfig, dataDir string) (store.RunStore, error) {
	switch cfg.Data.History {
	case config.HistoryMemory:
		return store.NewMemoryStore(), nil
	case config.HistorySQLite, "":
		return store.New(filepath.Join(dataDir, "attendlog.db"))
	default:
		return nil, fmt.Errorf("unknown data.history %q (sqlite | memory)", cfg.Data.History)
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger))

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}
}

// requestLogger 用 zap 记录每个请求
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", c.ClientIP()))
	}
}

// Handler 底层 http.Handler（用于测试）
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭存储
func (s *Server) Close() error {
	return s.store.Close()
}
