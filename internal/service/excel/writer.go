package excel

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"attendlog/internal/grid"
)

// AnalyzedSheetName 输出工作簿中唯一的工作表名称
const AnalyzedSheetName = "Logs Analyzed"

// WriteAnalyzed 生成只包含标注后日志表的新工作簿并写出
//
// xlsx：在原文件上删除其他工作表，只改写被标注的单元格，保留原有布局、样式与单元格值。
// xls：新建 xlsx，按 Grid 全量写入（原样式无法读取）。
// 一个 Workbook 只能写出一次。
func (w *Workbook) WriteAnalyzed(g *grid.Grid, out io.Writer) error {
	f, err := w.analyzedFile(g)
	if err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *Workbook) analyzedFile(g *grid.Grid) (*excelize.File, error) {
	if w.xlsx == nil {
		return newAnalyzedFile(g)
	}

	source, err := w.LogSheetName()
	if err != nil {
		return nil, err
	}
	f := w.xlsx
	for _, name := range f.GetSheetList() {
		if name == source {
			continue
		}
		if err := f.DeleteSheet(name); err != nil {
			return nil, fmt.Errorf("failed to drop sheet %q: %w", name, err)
		}
	}
	if err := f.SetSheetName(source, AnalyzedSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename log sheet: %w", err)
	}
	f.SetActiveSheet(0)

	if err := writeGrid(f, AnalyzedSheetName, g, true); err != nil {
		return nil, err
	}
	return f, nil
}

func newAnalyzedFile(g *grid.Grid) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", AnalyzedSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeGrid(f, AnalyzedSheetName, g, false); err != nil {
		return nil, err
	}
	return f, nil
}

// writeGrid incremental 为 true 时只写改动过的单元格
func writeGrid(f *excelize.File, sheet string, g *grid.Grid, incremental bool) error {
	st := newStyler(f)

	var werr error
	g.Each(func(row, col int, c *grid.Cell) {
		if werr != nil {
			return
		}
		if incremental && !c.Dirty() {
			return
		}
		name, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			werr = err
			return
		}
		// 只改样式的单元格保留源值（数字、时间序列值、公式）
		if !incremental || c.ValueDirty() {
			if err := setValue(f, sheet, name, c.Value); err != nil {
				werr = fmt.Errorf("failed to set %s: %w", name, err)
				return
			}
		}
		id, ok, err := st.id(c.Style, incremental)
		if err != nil {
			werr = err
			return
		}
		if ok {
			if err := f.SetCellStyle(sheet, name, name, id); err != nil {
				werr = fmt.Errorf("failed to style %s: %w", name, err)
			}
		}
	})
	if werr != nil {
		return werr
	}

	for col, width := range g.ColWidths() {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of %s: %w", name, err)
		}
	}

	e := g.Extent()
	last, err := excelize.CoordinatesToCellName(e.MaxCol+1, e.MaxRow+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetDimension(sheet, "A1:"+last); err != nil {
		return fmt.Errorf("failed to set dimension: %w", err)
	}
	return nil
}

func setValue(f *excelize.File, sheet, cell string, v grid.Value) error {
	switch v.Kind {
	case grid.KindNumber:
		if v.Num == math.Trunc(v.Num) {
			return f.SetCellValue(sheet, cell, int(v.Num))
		}
		return f.SetCellValue(sheet, cell, v.Num)
	case grid.KindString:
		return f.SetCellValue(sheet, cell, v.Str)
	}
	return f.SetCellValue(sheet, cell, "")
}
