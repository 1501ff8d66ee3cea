package model

import (
	"fmt"
	"strings"
)

// Department 部门（决定适用的班次规则）
type Department string

const (
	DepartmentAdmin    Department = "ADMIN"
	DepartmentClinical Department = "CLINICAL"
	DepartmentDoctor   Department = "DOCTOR"
)

// 旧排班表中使用的马来语部门代码
var departmentAliases = map[string]Department{
	"ADMIN":    DepartmentAdmin,
	"CLINICAL": DepartmentClinical,
	"KLINIKAL": DepartmentClinical,
	"DOCTOR":   DepartmentDoctor,
	"DOKTOR":   DepartmentDoctor,
}

// ParseDepartment 解析部门代码（大小写不敏感，兼容 KLINIKAL / DOKTOR）
func ParseDepartment(s string) (Department, error) {
	d, ok := departmentAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown department %q", s)
	}
	return d, nil
}

// Valid 是否为已知部门
func (d Department) Valid() bool {
	switch d {
	case DepartmentAdmin, DepartmentClinical, DepartmentDoctor:
		return true
	}
	return false
}

func (d Department) String() string {
	return string(d)
}
