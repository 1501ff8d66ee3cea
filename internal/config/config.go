package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"attendlog/internal/annotator"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// 运行历史存储
const (
	HistorySQLite = "sqlite"
	HistoryMemory = "memory"
)

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	History string `toml:"history"` // sqlite | memory
}

// AnalysisConfig 考勤分析配置
type AnalysisConfig struct {
	RosterPath    string  `toml:"roster_path"` // 为空时使用内置排班表
	HeaderRow     int     `toml:"header_row"`
	LabelFormat   string  `toml:"label_format"` // name-dept | row-name
	MinRowExtent  int     `toml:"min_row_extent"`
	LateHeader    string  `toml:"late_header"`
	LabelHeader   string  `toml:"label_header"`
	LateColWidth  float64 `toml:"late_col_width"`
	LabelColWidth float64 `toml:"label_col_width"`
}

// AnnotatorOptions 转为标注器选项
func (c AnalysisConfig) AnnotatorOptions() annotator.Options {
	return annotator.Options{
		HeaderRow:     c.HeaderRow,
		LabelFormat:   annotator.LabelFormat(c.LabelFormat),
		LateHeader:    c.LateHeader,
		LabelHeader:   c.LabelHeader,
		MinRowExtent:  c.MinRowExtent,
		LateColWidth:  c.LateColWidth,
		LabelColWidth: c.LabelColWidth,
	}
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	opts := annotator.DefaultOptions()
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			History: HistorySQLite,
		},
		Analysis: AnalysisConfig{
			HeaderRow:     opts.HeaderRow,
			LabelFormat:   string(opts.LabelFormat),
			MinRowExtent:  opts.MinRowExtent,
			LateHeader:    opts.LateHeader,
			LabelHeader:   opts.LabelHeader,
			LateColWidth:  opts.LateColWidth,
			LabelColWidth: opts.LabelColWidth,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 加载配置并返回元信息；path 为空时使用默认路径
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config, &info)
	return config, info, nil
}

// applyEnv 环境变量覆盖（.env 可选）
func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	_ = godotenv.Load()

	if v := os.Getenv("ATTENDLOG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
	if v := os.Getenv("ATTENDLOG_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("ATTENDLOG_HISTORY"); v != "" {
		config.Data.History = v
	}
	if v := os.Getenv("ATTENDLOG_ROSTER_PATH"); v != "" {
		config.Analysis.RosterPath = v
	}
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录：绝对路径原样使用，相对路径位于可执行文件同目录下
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}
