package annotator

import (
	"fmt"
	"strings"
	"time"

	"attendlog/internal/attendance"
	"attendlog/internal/grid"
	"attendlog/internal/model"
)

// Annotator 考勤表标注器：按员工行逐日判定迟到，写入样式与汇总列
type Annotator struct {
	cfg  model.AnalysisConfig
	opts Options
	days int
}

// New 创建标注器
func New(cfg model.AnalysisConfig, opts Options) *Annotator {
	return &Annotator{
		cfg:  cfg,
		opts: opts,
		days: attendance.DaysInMonth(cfg.Year, cfg.TimeMonth()),
	}
}

// DaysInMonth 当月天数
func (a *Annotator) DaysInMonth() int {
	return a.days
}

// Prepare 每次运行调用一次：扩展声明范围、设置汇总列宽、写入表头
func (a *Annotator) Prepare(g *grid.Grid, roster model.Roster) {
	maxRow := g.Extent().MaxRow
	if a.opts.MinRowExtent > maxRow {
		maxRow = a.opts.MinRowExtent
	}
	if r := roster.MaxRowIndex(); r > maxRow {
		maxRow = r
	}
	if a.opts.HeaderRow > maxRow {
		maxRow = a.opts.HeaderRow
	}
	g.Widen(maxRow, LabelCol)

	g.SetColWidth(LateCountCol, a.opts.LateColWidth)
	g.SetColWidth(LabelCol, a.opts.LabelColWidth)

	header := &grid.Style{Category: grid.CategoryHeader}
	g.Set(a.opts.HeaderRow, LateCountCol, grid.String(a.opts.LateHeader), header)
	g.Set(a.opts.HeaderRow, LabelCol, grid.String(a.opts.LabelHeader), header)
}

// AnnotateStaff 标注单个员工行，返回该员工的月度汇总
func (a *Annotator) AnnotateStaff(g *grid.Grid, e model.RosterEntry) model.StaffSummary {
	row := e.RowIndex()
	summary := model.StaffSummary{
		Row:        e.Row,
		Name:       e.Name,
		Department: e.Department,
		LateDays:   []int{},
	}

	for day := 1; day <= a.days; day++ {
		col := day - 1
		cell := g.Ensure(row, col)
		weekday := attendance.Weekday(a.cfg.Year, a.cfg.TimeMonth(), day)

		late := false
		if text := cell.Text(); text != "" {
			late = attendance.Evaluate(e.Department, weekday, text).IsLate
		}
		if late {
			summary.LateCount++
			summary.LateDays = append(summary.LateDays, day)
		}

		cat := dayCategory(weekday == time.Saturday, late)
		// DEFAULT 不覆盖已有样式
		if cat == grid.CategoryDefault && cell.Style != nil {
			continue
		}
		g.SetStyle(row, col, &grid.Style{Category: cat})
	}

	summary.Label = a.Label(e)
	g.Set(row, LateCountCol, grid.Number(float64(summary.LateCount)), &grid.Style{
		Category: grid.CategorySummary,
		Accent:   summary.LateCount > 0,
	})
	g.Set(row, LabelCol, grid.String(summary.Label), &grid.Style{
		Category:  grid.CategorySummary,
		AlignLeft: true,
	})
	return summary
}

// Label 按配置格式生成员工标签
func (a *Annotator) Label(e model.RosterEntry) string {
	if a.opts.LabelFormat == LabelRowName {
		return fmt.Sprintf("%d-%s", e.Row, e.Name)
	}
	return fmt.Sprintf("%s (%s)", strings.ToUpper(e.Name), e.Department)
}

// dayCategory 按 DEFAULT < WEEKEND < LATE 取最高优先级
func dayCategory(saturday, late bool) grid.Category {
	cat := grid.CategoryDefault
	if saturday && grid.CategoryWeekend.Outranks(cat) {
		cat = grid.CategoryWeekend
	}
	if late && grid.CategoryLate.Outranks(cat) {
		cat = grid.CategoryLate
	}
	return cat
}
