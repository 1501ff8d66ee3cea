package excel_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendlog/internal/grid"
	"attendlog/internal/model"
	"attendlog/internal/service/excel"
)

// newAttendanceFile 第一个工作表为封面，第二个为考勤日志
func newAttendanceFile(t *testing.T, logs map[string]string) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetName("Sheet1", "Cover"))
	require.NoError(t, wb.SetCellValue("Cover", "A1", "Attendance June"))
	_, err := wb.NewSheet("Logs")
	require.NoError(t, err)
	for cell, v := range logs {
		require.NoError(t, wb.SetCellValue("Logs", cell, v), cell)
	}
	return wb
}

func fileBytes(t *testing.T, wb *excelize.File) []byte {
	t.Helper()
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func buildAttendanceWorkbook(t *testing.T, logs map[string]string) []byte {
	t.Helper()
	return fileBytes(t, newAttendanceFile(t, logs))
}

func TestOpen_LogGridFromSecondSheet(t *testing.T) {
	data := buildAttendanceWorkbook(t, map[string]string{
		"A9": "08:40\n17:05",
		"C9": "08:20",
	})

	wb, err := excel.Open(bytes.NewReader(data), "June.xlsx")
	require.NoError(t, err)
	defer wb.Close()

	name, err := wb.LogSheetName()
	require.NoError(t, err)
	assert.Equal(t, "Logs", name)

	g, err := wb.LogGrid()
	require.NoError(t, err)
	assert.Equal(t, "08:40\n17:05", g.Text(8, 0))
	assert.Equal(t, "08:20", g.Text(8, 2))
	assert.Equal(t, grid.Extent{MaxRow: 8, MaxCol: 2}, g.Extent())

	again, err := wb.LogGrid()
	require.NoError(t, err)
	assert.Same(t, g, again)
}

func TestOpen_SingleSheetHasNoLog(t *testing.T) {
	data := fileBytes(t, excelize.NewFile())

	book, err := excel.Open(bytes.NewReader(data), "only.xlsx")
	require.NoError(t, err)
	_, err = book.LogGrid()
	require.ErrorIs(t, err, model.ErrLogSheetMissing)
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	_, err := excel.Open(bytes.NewReader(nil), "logs.csv")
	require.ErrorIs(t, err, excel.ErrUnsupportedFormat)
}

func TestFormatFromName(t *testing.T) {
	cases := map[string]excel.Format{
		"a.xlsx": excel.FormatXLSX,
		"B.XLS":  excel.FormatXLS,
	}
	for name, want := range cases {
		got, err := excel.FormatFromName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestOpen_OversizedDimensionStaysBounded(t *testing.T) {
	wb := newAttendanceFile(t, map[string]string{"D9": "08:40"})
	styleID, err := wb.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1}})
	require.NoError(t, err)
	// 没有值、只有样式的单元格
	require.NoError(t, wb.SetCellStyle("Logs", "E9", "E9", styleID))
	require.NoError(t, wb.SetSheetDimension("Logs", "A1:XFD1048576"))

	book, err := excel.Open(bytes.NewReader(fileBytes(t, wb)), "June.xlsx")
	require.NoError(t, err)
	defer book.Close()

	g, err := book.LogGrid()
	require.NoError(t, err)
	assert.Equal(t, grid.Extent{MaxRow: 1048575, MaxCol: 16383}, g.Extent())
	assert.Equal(t, "08:40", g.Text(8, 3))

	styled := g.Get(8, 4)
	require.NotNil(t, styled)
	require.NotNil(t, styled.Style)
	assert.Equal(t, styleID, styled.Style.NativeID)
	assert.Less(t, g.Len(), 100)
}

func TestWriteAnalyzed_SingleSheetAndStyles(t *testing.T) {
	data := buildAttendanceWorkbook(t, map[string]string{
		"A1": "1",
		"B1": "2",
		"A9": "08:40",
		"B9": "08:10",
	})
	wb, err := excel.Open(bytes.NewReader(data), "June.xlsx")
	require.NoError(t, err)
	g, err := wb.LogGrid()
	require.NoError(t, err)

	g.Widen(300, 32)
	g.SetColWidth(32, 30)
	g.SetStyle(8, 0, &grid.Style{Category: grid.CategoryLate})
	g.SetStyle(8, 1, &grid.Style{Category: grid.CategoryDefault})
	g.Set(8, 31, grid.Number(1), &grid.Style{Category: grid.CategorySummary, Accent: true})
	g.Set(8, 32, grid.String("HARIZAN (ADMIN)"), &grid.Style{Category: grid.CategorySummary, AlignLeft: true})

	var out bytes.Buffer
	require.NoError(t, wb.WriteAnalyzed(g, &out))

	f, err := excelize.OpenReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{excel.AnalyzedSheetName}, f.GetSheetList())
	sheet := excel.AnalyzedSheetName
	for cell, want := range map[string]string{
		"A1":  "1",
		"A9":  "08:40",
		"AF9": "1",
		"AG9": "HARIZAN (ADMIN)",
	} {
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err, cell)
		assert.Equal(t, want, got, cell)
	}

	lateID, err := f.GetCellStyle(sheet, "A9")
	require.NoError(t, err)
	defaultID, err := f.GetCellStyle(sheet, "B9")
	require.NoError(t, err)
	assert.NotZero(t, lateID)
	assert.NotZero(t, defaultID)
	assert.NotEqual(t, lateID, defaultID)

	untouched, err := f.GetCellStyle(sheet, "A1")
	require.NoError(t, err)
	assert.Zero(t, untouched)

	width, err := f.GetColWidth(sheet, "AG")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)

	dim, err := f.GetSheetDimension(sheet)
	require.NoError(t, err)
	assert.Equal(t, "A1:AG301", dim)
}

func TestWriteAnalyzed_RestyleKeepsSourceValues(t *testing.T) {
	wb := newAttendanceFile(t, nil)
	timeStyle, err := wb.NewStyle(&excelize.Style{NumFmt: 20})
	require.NoError(t, err)
	require.NoError(t, wb.SetCellValue("Logs", "D9", 520.0/1440))
	require.NoError(t, wb.SetCellStyle("Logs", "D9", "D9", timeStyle))
	require.NoError(t, wb.SetCellValue("Logs", "E9", 42))
	require.NoError(t, wb.SetCellFormula("Logs", "F9", "1+1"))

	rawD9, err := wb.GetCellValue("Logs", "D9", excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	book, err := excel.Open(bytes.NewReader(fileBytes(t, wb)), "June.xlsx")
	require.NoError(t, err)
	g, err := book.LogGrid()
	require.NoError(t, err)
	require.NotNil(t, g.Get(8, 3).Style)
	assert.Equal(t, timeStyle, g.Get(8, 3).Style.NativeID)

	g.SetStyle(8, 3, &grid.Style{Category: grid.CategoryLate})
	g.SetStyle(8, 4, &grid.Style{Category: grid.CategoryWeekend})
	// F9 只有公式没有缓存值，读不到文本，由 SetStyle 新建
	require.Nil(t, g.Get(8, 5))
	g.SetStyle(8, 5, &grid.Style{Category: grid.CategoryDefault})
	for col := 3; col <= 5; col++ {
		assert.True(t, g.Get(8, col).Dirty())
		assert.False(t, g.Get(8, col).ValueDirty())
	}

	var out bytes.Buffer
	require.NoError(t, book.WriteAnalyzed(g, &out))

	f, err := excelize.OpenReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	sheet := excel.AnalyzedSheetName

	// 时间序列值仍是数字，且沿用源数字格式
	got, err := f.GetCellValue(sheet, "D9", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, rawD9, got)
	typ, err := f.GetCellType(sheet, "D9")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	lateID, err := f.GetCellStyle(sheet, "D9")
	require.NoError(t, err)
	lateStyle, err := f.GetStyle(lateID)
	require.NoError(t, err)
	assert.NotEqual(t, timeStyle, lateID)
	assert.Equal(t, 20, lateStyle.NumFmt)

	got, err = f.GetCellValue(sheet, "E9", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "42", got)
	typ, err = f.GetCellType(sheet, "E9")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	formula, err := f.GetCellFormula(sheet, "F9")
	require.NoError(t, err)
	assert.Equal(t, "1+1", formula)
}
