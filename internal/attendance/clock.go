package attendance

import (
	"regexp"
	"strconv"
	"strings"
)

// 1-2 位小时 + 分隔符(: . -) + 2 位分钟，例如 08:30 / 8.05 / 08-12
var clockPattern = regexp.MustCompile(`(\d{1,2})[:.\-](\d{2})`)

// FirstLine 取单元格文本的第一行（同一天可能有多次打卡，只评估第一次）
func FirstLine(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "\r\n"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// ParseClockInMinutes 从单元格原始文本中提取打卡时间（距午夜分钟数）
// 只看第一行；匹配不到返回 ok=false。小时不做上限校验。
func ParseClockInMinutes(raw string) (minutes int, ok bool) {
	m := clockPattern.FindStringSubmatch(FirstLine(raw))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min, true
}

// FormatMinutes 分钟数格式化为 HH:MM
func FormatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
