package excel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"attendlog/internal/annotator"
	"attendlog/internal/grid"
	"attendlog/internal/model"
)

// LogSheetIndex 考勤日志固定位于第二个工作表（按位置，不按名称）
const LogSheetIndex = 1

// ErrUnsupportedFormat 不支持的文件扩展名
var ErrUnsupportedFormat = errors.New("unsupported workbook format (want .xls or .xlsx)")

// Format 源文件格式
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// FormatFromName 按扩展名判断格式
func FormatFromName(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// Workbook 已加载的考勤工作簿
type Workbook struct {
	filename string
	format   Format

	// xlsx 保留原文件，写出时只改动被标注的单元格
	xlsx *excelize.File
	// xls 只读取了第二个工作表的文本
	xlsSheet *sheetData

	sheetNames []string
	grid       *grid.Grid
}

// Open 读取上传的工作簿
func Open(r io.Reader, filename string) (*Workbook, error) {
	format, err := FormatFromName(filename)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	wb := &Workbook{filename: filename, format: format}
	switch format {
	case FormatXLS:
		names, sheet, err := readXLS(data, LogSheetIndex)
		if err != nil {
			return nil, err
		}
		wb.sheetNames = names
		wb.xlsSheet = sheet
	default:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open excel: %w", err)
		}
		wb.xlsx = f
		wb.sheetNames = f.GetSheetList()
	}
	return wb, nil
}

// OpenFile 从磁盘读取工作簿
func OpenFile(path string) (*Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Open(file, filepath.Base(path))
}

// Filename 源文件名
func (w *Workbook) Filename() string {
	return w.filename
}

// Format 源文件格式
func (w *Workbook) Format() Format {
	return w.format
}

// SheetNames 所有工作表名称
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.sheetNames...)
}

// LogSheetName 第二个工作表的名称
func (w *Workbook) LogSheetName() (string, error) {
	if len(w.sheetNames) <= LogSheetIndex {
		return "", model.ErrLogSheetMissing
	}
	return w.sheetNames[LogSheetIndex], nil
}

// LogGrid 把第二个工作表读成 Grid（只读取一次，之后返回同一个实例）
func (w *Workbook) LogGrid() (*grid.Grid, error) {
	if w.grid != nil {
		return w.grid, nil
	}
	name, err := w.LogSheetName()
	if err != nil {
		return nil, err
	}

	var g *grid.Grid
	if w.xlsx != nil {
		g, err = loadXLSXGrid(w.xlsx, name)
		if err != nil {
			return nil, err
		}
	} else {
		g = w.xlsSheet.toGrid()
	}
	w.grid = g
	return g, nil
}

// Close 释放底层文件
func (w *Workbook) Close() error {
	if w.xlsx != nil {
		return w.xlsx.Close()
	}
	return nil
}

// styleScanRows 数据区之外仍读取样式的行数上限（覆盖排班表与最小行范围）
const styleScanRows = 1024

// loadXLSXGrid 读取值与样式
//
// 声明范围取数据区与 <dimension> 的较大者；样式只在真实数据所在的单元格
// 以及前 styleScanRows 行、标签列以内读取，过大的 <dimension> 不会放大读取量。
func loadXLSXGrid(f *excelize.File, sheet string) (*grid.Grid, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	maxRow, maxCol := len(rows)-1, -1
	for _, row := range rows {
		if len(row)-1 > maxCol {
			maxCol = len(row) - 1
		}
	}
	if dim, err := f.GetSheetDimension(sheet); err == nil {
		if r, c, ok := dimensionBounds(dim); ok {
			maxRow, maxCol = max(maxRow, r), max(maxCol, c)
		}
	}
	maxRow, maxCol = max(maxRow, 0), max(maxCol, 0)

	g := grid.New(grid.Extent{MaxRow: maxRow, MaxCol: maxCol})
	scanRows := min(maxRow, max(len(rows)-1, styleScanRows-1))
	for r := 0; r <= scanRows; r++ {
		var values []string
		if r < len(rows) {
			values = rows[r]
		}
		last := min(maxCol, max(len(values)-1, annotator.LabelCol))
		for c := 0; c <= last; c++ {
			value := ""
			if c < len(values) {
				value = values[c]
			}
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			styleID, err := f.GetCellStyle(sheet, cellName)
			if err != nil {
				return nil, fmt.Errorf("failed to read style of %s: %w", cellName, err)
			}
			if value == "" && styleID == 0 {
				continue
			}
			var style *grid.Style
			if styleID != 0 {
				style = grid.Native(styleID)
			}
			g.Load(r, c, grid.String(value), style)
		}
	}
	return g, nil
}

// dimensionBounds 解析 "A1:AE300" 这样的范围，返回 0-based 行列上界
func dimensionBounds(dim string) (maxRow, maxCol int, ok bool) {
	parts := strings.Split(dim, ":")
	last := parts[len(parts)-1]
	col, row, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return 0, 0, false
	}
	return row - 1, col - 1, true
}
