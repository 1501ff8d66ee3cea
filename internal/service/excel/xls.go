package excel

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"

	"attendlog/internal/grid"
	"attendlog/internal/model"
)

// sheetData 旧版 .xls 工作表的纯文本内容
type sheetData struct {
	name   string
	cells  map[grid.Coord]string
	maxRow int
	maxCol int
}

func (s *sheetData) toGrid() *grid.Grid {
	g := grid.New(grid.Extent{MaxRow: s.maxRow, MaxCol: s.maxCol})
	for at, v := range s.cells {
		g.Load(at.Row, at.Col, grid.String(v), nil)
	}
	return g
}

// readXLS 读取全部工作表名称，以及第 index 个工作表的内容
// 工作表不足时 sheet 为 nil，由调用方在 LogGrid 时报告
func readXLS(data []byte, index int) (names []string, sheet *sheetData, err error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xls: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		names = append(names, ws.Name)
		if i != index {
			continue
		}
		sheet = &sheetData{name: ws.Name, cells: make(map[grid.Coord]string)}
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				continue
			}
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				v := row.Col(c)
				if v == "" {
					continue
				}
				sheet.cells[grid.Coord{Row: r, Col: c}] = v
				sheet.maxRow = max(sheet.maxRow, r)
				sheet.maxCol = max(sheet.maxCol, c)
			}
		}
	}
	if sheet == nil && len(names) > index {
		return nil, nil, fmt.Errorf("%w: failed to parse xls sheet %d", model.ErrLogSheetMissing, index)
	}
	return names, sheet, nil
}
