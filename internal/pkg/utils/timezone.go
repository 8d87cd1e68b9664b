/*
 * @Description: 时区与统计周期工具
 * @Date: 2026-10-09 13:10:00
 * @LastEditTime: 2026-10-12 08:51:36
 */
package utils

import (
	"log"
	"time"
)

// 统计文档中使用的时间格式
const (
	MonthLayout     = "2006-01"
	DayLayout       = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

// LoadLocation 解析配置的时区名称，空值或 "Local" 使用服务器本地时区，无效名称降级为本地时区
func LoadLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️  无效的时区 '%s': %v，将使用服务器本地时区", name, err)
		return time.Local
	}
	return loc
}

// MonthKey 月份键，如 2026-10
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// DayKey 日期键，如 2026-10-14
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// PreviousMonthKey 上个月的月份键：本月 1 号的前一天所在月份
func PreviousMonthKey(t time.Time) string {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthKey(firstOfMonth.AddDate(0, 0, -1))
}

// FormatTimestamp 不带时区后缀的本地时间戳，精确到微秒
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
