package model

// RosterEntry 排班表条目：物理行号 -> 员工身份
type RosterEntry struct {
	Row        int        `json:"row" toml:"row" yaml:"row"` // 1-based 物理行号
	Name       string     `json:"name" toml:"name" yaml:"name"`
	Department Department `json:"department" toml:"department" yaml:"department"`
}

// RowIndex 0-based 行索引
func (e RosterEntry) RowIndex() int {
	return e.Row - 1
}

// Roster 员工排班表，一次运行内只读
type Roster []RosterEntry

// MaxRowIndex 排班表中最大的 0-based 行索引，空表返回 -1
func (r Roster) MaxRowIndex() int {
	max := -1
	for _, e := range r {
		if e.RowIndex() > max {
			max = e.RowIndex()
		}
	}
	return max
}
