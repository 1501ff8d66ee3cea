package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"attendlog/internal/grid"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

// styleDef 标注类别对应的 excelize 样式；numFmt 沿用被替换的源样式数字格式
func styleDef(s grid.Style, numFmt nativeFormat) *excelize.Style {
	def := categoryStyle(s)
	def.NumFmt = numFmt.id
	if numFmt.custom != "" {
		custom := numFmt.custom
		def.CustomNumFmt = &custom
	}
	return def
}

func categoryStyle(s grid.Style) *excelize.Style {
	wrapCenter := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	switch s.Category {
	case grid.CategoryLate:
		return &excelize.Style{
			Fill:      solidFill("FF0000"),
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Alignment: wrapCenter,
			Border:    thinBorder,
		}
	case grid.CategoryWeekend:
		return &excelize.Style{
			Fill:      solidFill("CCEAFF"),
			Alignment: wrapCenter,
			Border:    thinBorder,
		}
	case grid.CategoryHeader:
		return &excelize.Style{
			Fill:      solidFill("333333"),
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Alignment: center,
			Border:    thinBorder,
		}
	case grid.CategorySummary:
		font := &excelize.Font{Bold: true, Color: "000000"}
		if s.Accent {
			font.Color = "FF0000"
		}
		align := center
		if s.AlignLeft {
			align = &excelize.Alignment{Horizontal: "left", Vertical: "center"}
		}
		return &excelize.Style{
			Fill:      solidFill("FFF2CC"),
			Font:      font,
			Alignment: align,
			Border:    thinBorder,
		}
	default:
		return &excelize.Style{
			Alignment: wrapCenter,
			Border:    thinBorder,
		}
	}
}

// nativeFormat 源样式的数字格式
type nativeFormat struct {
	id     int
	custom string
}

type styleKey struct {
	style  grid.Style
	numFmt nativeFormat
}

// styler 为同一个工作簿缓存样式 ID
type styler struct {
	f       *excelize.File
	cache   map[styleKey]int
	formats map[int]nativeFormat
}

func newStyler(f *excelize.File) *styler {
	return &styler{
		f:       f,
		cache:   make(map[styleKey]int),
		formats: make(map[int]nativeFormat),
	}
}

// id 标注样式返回新建的样式 ID；源文件样式返回原 ID（keepNative 为 false 时丢弃）
//
// keepNative 为 true 时，替换源样式的标注样式继承源样式的数字格式，时间单元格仍显示为时间。
func (s *styler) id(style *grid.Style, keepNative bool) (int, bool, error) {
	if style == nil {
		return 0, false, nil
	}
	if !style.Annotated() {
		if keepNative && style.NativeID != 0 {
			return style.NativeID, true, nil
		}
		return 0, false, nil
	}

	key := styleKey{style: *style}
	key.style.NativeID = 0
	if keepNative && style.NativeID != 0 {
		numFmt, err := s.nativeFormat(style.NativeID)
		if err != nil {
			return 0, false, err
		}
		key.numFmt = numFmt
	}
	if id, ok := s.cache[key]; ok {
		return id, true, nil
	}
	id, err := s.f.NewStyle(styleDef(key.style, key.numFmt))
	if err != nil {
		return 0, false, fmt.Errorf("failed to create %s style: %w", key.style.Category, err)
	}
	s.cache[key] = id
	return id, true, nil
}

func (s *styler) nativeFormat(id int) (nativeFormat, error) {
	if nf, ok := s.formats[id]; ok {
		return nf, nil
	}
	st, err := s.f.GetStyle(id)
	if err != nil {
		return nativeFormat{}, fmt.Errorf("failed to read source style %d: %w", id, err)
	}
	nf := nativeFormat{id: st.NumFmt}
	if st.CustomNumFmt != nil {
		nf.custom = *st.CustomNumFmt
	}
	s.formats[id] = nf
	return nf, nil
}
