package attendance

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearMonthRe = regexp.MustCompile(`(\d{4})\s*[-_.年/ ]\s*0?(\d{1,2})(?:\D|$)`)
	monthYearRe = regexp.MustCompile(`(?:^|\D)0?(\d{1,2})\s*[-_./ ]\s*(\d{4})`)
	yearRe      = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)
	wordRe      = regexp.MustCompile(`[A-Za-z]+`)
)

// monthWords 英文与马来文月份名（含缩写）
var monthWords = map[string]int{
	"jan": 1, "january": 1, "januari": 1,
	"feb": 2, "february": 2, "februari": 2,
	"mar": 3, "march": 3, "mac": 3,
	"apr": 4, "april": 4,
	"may": 5, "mei": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7, "julai": 7,
	"aug": 8, "august": 8, "ogos": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10, "oktober": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12, "disember": 12,
}

// PeriodFromName 从文件名推断年月
// 支持: "2024-06" / "2024年6月" / "06_2024" / "June 2024" / "Log Ogos 2024"
func PeriodFromName(name string) (year, month int, found bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	if m := yearMonthRe.FindStringSubmatch(base); m != nil {
		if y, mo, ok := checkPeriod(m[1], m[2]); ok {
			return y, mo, true
		}
	}
	if m := monthYearRe.FindStringSubmatch(base); m != nil {
		if y, mo, ok := checkPeriod(m[2], m[1]); ok {
			return y, mo, true
		}
	}

	y := yearRe.FindStringSubmatch(base)
	if y == nil {
		return 0, 0, false
	}
	for _, w := range wordRe.FindAllString(base, -1) {
		if mo, ok := monthWords[strings.ToLower(w)]; ok {
			year, _ = strconv.Atoi(y[1])
			return year, mo, true
		}
	}
	return 0, 0, false
}

func checkPeriod(ys, ms string) (int, int, bool) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	if y < 1900 || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, m, true
}
