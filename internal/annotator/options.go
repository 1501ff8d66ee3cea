package annotator

import "fmt"

// 汇总列位置（0-based）：AF = 迟到次数，AG = 员工标签
const (
	LateCountCol = 31
	LabelCol     = 32
)

// LabelFormat 标签列格式
type LabelFormat string

const (
	// LabelNameDept "HARIZAN (ADMIN)"
	LabelNameDept LabelFormat = "name-dept"
	// LabelRowName "9-harizan"
	LabelRowName LabelFormat = "row-name"
)

// Options 输出格式选项
type Options struct {
	HeaderRow     int         // 表头行（0-based）
	LabelFormat   LabelFormat // 标签列格式
	LateHeader    string      // AF 列表头
	LabelHeader   string      // AG 列表头
	MinRowExtent  int         // 声明范围的最小行上界（0-based）
	LateColWidth  float64
	LabelColWidth float64
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		HeaderRow:     0,
		LabelFormat:   LabelNameDept,
		LateHeader:    "JUMLAH LEWAT",
		LabelHeader:   "NAMA & JABATAN",
		MinRowExtent:  300,
		LateColWidth:  15,
		LabelColWidth: 30,
	}
}

// Validate 校验选项
func (o Options) Validate() error {
	if o.HeaderRow < 0 {
		return fmt.Errorf("header row must be >= 0, got %d", o.HeaderRow)
	}
	switch o.LabelFormat {
	case LabelNameDept, LabelRowName:
	default:
		return fmt.Errorf("unknown label format %q", o.LabelFormat)
	}
	if o.MinRowExtent < 0 {
		return fmt.Errorf("min row extent must be >= 0, got %d", o.MinRowExtent)
	}
	return nil
}
