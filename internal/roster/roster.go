package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"attendlog/internal/model"
)

//go:embed default_roster.toml
var defaultRosterTOML []byte

// ErrInvalidRoster 排班表内容不合法
var ErrInvalidRoster = errors.New("invalid roster")

type rosterFile struct {
	Staff []staffRecord `toml:"staff" yaml:"staff"`
}

type staffRecord struct {
	Row        int    `toml:"row" yaml:"row"`
	Name       string `toml:"name" yaml:"name"`
	Department string `toml:"department" yaml:"department"`
}

// Default 内置排班表
func Default() model.Roster {
	r, err := Parse(defaultRosterTOML, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded roster is broken: %v", err))
	}
	return r
}

// Format 排班表文件格式
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath 按扩展名判断格式
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported roster file %q (want .toml/.yaml)", path)
}

// Load 从文件加载排班表；path 为空时返回内置排班表
func Load(path string) (model.Roster, error) {
	if path == "" {
		return Default(), nil
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return Parse(data, format)
}

// Parse 解析并校验排班表
func Parse(data []byte, format Format) (model.Roster, error) {
	var f rosterFile
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported roster format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	out := make(model.Roster, 0, len(f.Staff))
	for i, rec := range f.Staff {
		dept, err := model.ParseDepartment(rec.Department)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidRoster, i+1, err)
		}
		out = append(out, model.RosterEntry{
			Row:        rec.Row,
			Name:       strings.TrimSpace(rec.Name),
			Department: dept,
		})
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate 行号必须 >= 1 且不重复，姓名不能为空
func Validate(r model.Roster) error {
	seen := make(map[int]string, len(r))
	for _, e := range r {
		if e.Row < 1 {
			return fmt.Errorf("%w: %q has row %d", ErrInvalidRoster, e.Name, e.Row)
		}
		if e.Name == "" {
			return fmt.Errorf("%w: row %d has no name", ErrInvalidRoster, e.Row)
		}
		if !e.Department.Valid() {
			return fmt.Errorf("%w: %q has unknown department %q", ErrInvalidRoster, e.Name, e.Department)
		}
		if prev, ok := seen[e.Row]; ok {
			return fmt.Errorf("%w: row %d used by both %q and %q", ErrInvalidRoster, e.Row, prev, e.Name)
		}
		seen[e.Row] = e.Name
	}
	return nil
}

// SortedByRow 按行号排序的副本
func SortedByRow(r model.Roster) model.Roster {
	out := append(model.Roster(nil), r...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}
