package grid

import (
	"strconv"
	"strings"
)

// ValueKind 单元格值类型
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindString
	KindNumber
)

// Value 单元格值：string | number | empty
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// String 字符串值
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number 数值
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Text 值的文本形式，空值返回 ""
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return ""
}

// Cell 单元格
type Cell struct {
	Value      Value
	Style      *Style
	dirty      bool
	valueDirty bool
}

// Text 去掉首尾空白的文本
func (c *Cell) Text() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Value.Text())
}

// Dirty 是否在本次运行中被改写（值或样式）
func (c *Cell) Dirty() bool {
	return c != nil && c.dirty
}

// ValueDirty 值是否被改写；只改样式的单元格为 false
func (c *Cell) ValueDirty() bool {
	return c != nil && c.valueDirty
}

// Coord 0-based 坐标
type Coord struct {
	Row int
	Col int
}

// Extent 声明范围，行列上界均为 0-based 且包含
type Extent struct {
	MaxRow int
	MaxCol int
}

// Contains 坐标是否在范围内
func (e Extent) Contains(row, col int) bool {
	return row >= 0 && col >= 0 && row <= e.MaxRow && col <= e.MaxCol
}

// Grid 稀疏二维表
type Grid struct {
	cells     map[Coord]*Cell
	extent    Extent
	colWidths map[int]float64
}

// New 创建空表，extent 为初始声明范围
func New(extent Extent) *Grid {
	return &Grid{
		cells:     make(map[Coord]*Cell),
		extent:    extent,
		colWidths: make(map[int]float64),
	}
}

// Extent 当前声明范围
func (g *Grid) Extent() Extent {
	return g.extent
}

// Widen 把声明范围扩展到至少 (maxRow, maxCol)，从不缩小
func (g *Grid) Widen(maxRow, maxCol int) {
	if maxRow > g.extent.MaxRow {
		g.extent.MaxRow = maxRow
	}
	if maxCol > g.extent.MaxCol {
		g.extent.MaxCol = maxCol
	}
}

// Get 读取单元格，不存在返回 nil
func (g *Grid) Get(row, col int) *Cell {
	return g.cells[Coord{row, col}]
}

// Text 读取单元格文本，缺失单元格视为空串
func (g *Grid) Text(row, col int) string {
	return g.Get(row, col).Text()
}

// Load 载入源数据，不标记为改动
func (g *Grid) Load(row, col int, v Value, style *Style) {
	g.cells[Coord{row, col}] = &Cell{Value: v, Style: style}
	g.Widen(row, col)
}

// Ensure 取得单元格，缺失时创建空串单元格（标记为改动，但值不算改写）
//
// 源文件中读不到文本的单元格（例如没有缓存值的公式）同样走这里，写回时只带样式。
func (g *Grid) Ensure(row, col int) *Cell {
	c, ok := g.cells[Coord{row, col}]
	if !ok {
		c = &Cell{Value: String(""), dirty: true}
		g.cells[Coord{row, col}] = c
		g.Widen(row, col)
	}
	return c
}

// Set 写入值与样式
func (g *Grid) Set(row, col int, v Value, style *Style) {
	c := g.Ensure(row, col)
	c.Value = v
	c.Style = style
	c.dirty = true
	c.valueDirty = true
}

// SetStyle 只改样式，不触碰值；被替换的源样式 ID 记在新样式的 NativeID 上
func (g *Grid) SetStyle(row, col int, style *Style) {
	c := g.Ensure(row, col)
	if style != nil && style.NativeID == 0 && c.Style != nil && c.Style.NativeID != 0 {
		cp := *style
		cp.NativeID = c.Style.NativeID
		style = &cp
	}
	c.Style = style
	c.dirty = true
}

// SetColWidth 设置列宽提示
func (g *Grid) SetColWidth(col int, width float64) {
	g.colWidths[col] = width
}

// ColWidth 列宽提示
func (g *Grid) ColWidth(col int) (float64, bool) {
	w, ok := g.colWidths[col]
	return w, ok
}

// ColWidths 所有列宽提示
func (g *Grid) ColWidths() map[int]float64 {
	out := make(map[int]float64, len(g.colWidths))
	for k, v := range g.colWidths {
		out[k] = v
	}
	return out
}

// Each 遍历所有单元格（顺序不保证）
func (g *Grid) Each(fn func(row, col int, c *Cell)) {
	for k, c := range g.cells {
		fn(k.Row, k.Col, c)
	}
}

// Len 已存储的单元格数量
func (g *Grid) Len() int {
	return len(g.cells)
}
