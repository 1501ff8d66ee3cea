package grid

// Category 标注样式类别，按优先级从低到高排列
type Category int

const (
	CategoryNone Category = iota
	CategoryDefault
	CategoryWeekend
	CategoryLate
	CategorySummary
	CategoryHeader
)

func (c Category) String() string {
	switch c {
	case CategoryDefault:
		return "default"
	case CategoryWeekend:
		return "weekend"
	case CategoryLate:
		return "late"
	case CategorySummary:
		return "summary"
	case CategoryHeader:
		return "header"
	}
	return "none"
}

// Outranks 是否比 other 优先级更高
func (c Category) Outranks(other Category) bool {
	return c > other
}

// Style 单元格样式
//
// 标注产生的样式只有一个 Category；从源文件读入、未被标注改动的样式
// 只记录 NativeID，写回时原样保留。标注样式替换源样式时 NativeID 记录被替换的样式，
// 写回时沿用其数字格式。
type Style struct {
	Category Category
	// Accent 汇总列迟到数 > 0 时使用红色字体
	Accent bool
	// AlignLeft 标签列左对齐
	AlignLeft bool
	// NativeID 源工作簿中的样式 ID
	NativeID int
}

// Native 源文件中已有的样式
func Native(id int) *Style {
	return &Style{NativeID: id}
}

// Annotated 是否为标注产生的样式
func (s *Style) Annotated() bool {
	return s != nil && s.Category != CategoryNone
}
