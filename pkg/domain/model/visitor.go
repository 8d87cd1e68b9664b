/*
 * @Description: 访客统计文档模型
 * @Date: 2026-10-08 10:12:40
 * @LastEditTime: 2026-10-13 21:40:05
 */
package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// UnknownValue 无法识别时的占位值
const UnknownValue = "Unknown"

// UserAgentFacts 从 User-Agent 中解析出的结构化信息
type UserAgentFacts struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	OSVersion      string `json:"os_version"`
	Device         string `json:"device"`
	DeviceBrand    string `json:"device_brand"`
	DeviceModel    string `json:"device_model"`
	IsMobile       bool   `json:"is_mobile"`
	IsTablet       bool   `json:"is_tablet"`
	IsPC           bool   `json:"is_pc"`
	IsBot          bool   `json:"is_bot"`

	// raw 非对象或字段类型不符的历史条目，原样回写
	raw json.RawMessage
}

type userAgentFactsAlias UserAgentFacts

// UnmarshalJSON 解析失败的条目不报错，保留原始内容
func (f *UserAgentFacts) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var alias userAgentFactsAlias
		if err := json.Unmarshal(trimmed, &alias); err == nil {
			*f = UserAgentFacts(alias)
			f.raw = nil
			return nil
		}
	}
	*f = UserAgentFacts{raw: append(json.RawMessage(nil), trimmed...)}
	return nil
}

// MarshalJSON 畸形条目按原样输出
func (f UserAgentFacts) MarshalJSON() ([]byte, error) {
	if f.raw != nil {
		return f.raw, nil
	}
	return json.Marshal(userAgentFactsAlias(f))
}

// Malformed 是否为无法解析的历史条目
func (f UserAgentFacts) Malformed() bool {
	return f.raw != nil
}

// Signature 去重签名：browser_os_device，缺失字段记为 Unknown
func (f UserAgentFacts) Signature() string {
	return OrUnknown(f.Browser) + "_" + OrUnknown(f.OS) + "_" + OrUnknown(f.Device)
}

// OrUnknown 空字符串替换为 Unknown
func OrUnknown(s string) string {
	if s == "" {
		return UnknownValue
	}
	return s
}

// IPRecord 单个 IP 的访问记录
type IPRecord struct {
	FirstVisit string           `json:"first_visit"`
	VisitCount int64            `json:"visit_count"`
	LastVisit  string           `json:"last_visit"`
	UserAgent  UserAgentFacts   `json:"user_agent"`
	UserAgents []UserAgentFacts `json:"user_agents"`
}

// IPTable 按首次出现顺序保存的 IP 记录表
type IPTable struct {
	keys    []string
	records map[string]*IPRecord
}

// NewIPTable 创建空的 IP 表
func NewIPTable() *IPTable {
	return &IPTable{records: make(map[string]*IPRecord)}
}

// Len 记录条数
func (t *IPTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Get 查询记录
func (t *IPTable) Get(ip string) (*IPRecord, bool) {
	if t == nil {
		return nil, false
	}
	rec, ok := t.records[ip]
	return rec, ok
}

// Put 写入记录，新 IP 追加到末尾
func (t *IPTable) Put(ip string, rec *IPRecord) {
	if t.records == nil {
		t.records = make(map[string]*IPRecord)
	}
	if _, ok := t.records[ip]; !ok {
		t.keys = append(t.keys, ip)
	}
	t.records[ip] = rec
}

// Keys 按插入顺序返回 IP 列表的副本
func (t *IPTable) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Each 按插入顺序遍历
func (t *IPTable) Each(fn func(ip string, rec *IPRecord)) {
	if t == nil {
		return
	}
	for _, ip := range t.keys {
		fn(ip, t.records[ip])
	}
}

// MarshalJSON 按插入顺序输出对象
func (t *IPTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if t != nil {
		for i, ip := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(ip)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(t.records[ip])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 保持文档中的键顺序
func (t *IPTable) UnmarshalJSON(data []byte) error {
	parsed := gjson.ParseBytes(data)
	t.keys = nil
	t.records = make(map[string]*IPRecord)
	if parsed.Type == gjson.Null {
		return nil
	}
	if !parsed.IsObject() {
		return fmt.Errorf("ips 字段不是对象")
	}

	var decodeErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		rec := &IPRecord{}
		if err := json.Unmarshal([]byte(value.Raw), rec); err != nil {
			decodeErr = fmt.Errorf("解析 IP %s 的记录失败: %w", key.String(), err)
			return false
		}
		if rec.UserAgents == nil {
			rec.UserAgents = []UserAgentFacts{}
		}
		t.Put(key.String(), rec)
		return true
	})
	return decodeErr
}

// PeriodBucket 单个月份或单日的统计桶
type PeriodBucket struct {
	UniqueVisitors int64            `json:"unique_visitors"`
	Pageviews      int64            `json:"pageviews"`
	IPs            map[string]bool  `json:"ips"`
	Browsers       map[string]int64 `json:"browsers"`
	OS             map[string]int64 `json:"os"`
	Devices        map[string]int64 `json:"devices"`
}

// NewPeriodBucket 创建空统计桶
func NewPeriodBucket() *PeriodBucket {
	return &PeriodBucket{
		IPs:      make(map[string]bool),
		Browsers: make(map[string]int64),
		OS:       make(map[string]int64),
		Devices:  make(map[string]int64),
	}
}

// Normalize 补齐缺失的子表
func (b *PeriodBucket) Normalize() {
	if b.IPs == nil {
		b.IPs = make(map[string]bool)
	}
	if b.Browsers == nil {
		b.Browsers = make(map[string]int64)
	}
	if b.OS == nil {
		b.OS = make(map[string]int64)
	}
	if b.Devices == nil {
		b.Devices = make(map[string]int64)
	}
}

// VisitorDocument 持久化的访客统计文档
type VisitorDocument struct {
	UniqueVisitors int64                    `json:"unique_visitors"`
	TotalPageviews int64                    `json:"total_pageviews"`
	Monthly        map[string]*PeriodBucket `json:"monthly"`
	Daily          map[string]*PeriodBucket `json:"daily"`
	IPs            *IPTable                 `json:"ips"`
}

// NewVisitorDocument 创建空文档
func NewVisitorDocument() *VisitorDocument {
	return &VisitorDocument{
		Monthly: make(map[string]*PeriodBucket),
		Daily:   make(map[string]*PeriodBucket),
		IPs:     NewIPTable(),
	}
}

// Normalize 补齐缺失字段，保证后续读写无需判空
func (d *VisitorDocument) Normalize() {
	if d.Monthly == nil {
		d.Monthly = make(map[string]*PeriodBucket)
	}
	if d.Daily == nil {
		d.Daily = make(map[string]*PeriodBucket)
	}
	if d.IPs == nil {
		d.IPs = NewIPTable()
	}
	for key, bucket := range d.Monthly {
		if bucket == nil {
			d.Monthly[key] = NewPeriodBucket()
			continue
		}
		bucket.Normalize()
	}
	for key, bucket := range d.Daily {
		if bucket == nil {
			d.Daily[key] = NewPeriodBucket()
			continue
		}
		bucket.Normalize()
	}
}

// PeriodSummary 周期汇总
type PeriodSummary struct {
	Period         string `json:"period"`
	UniqueVisitors int64  `json:"unique_visitors"`
	Pageviews      int64  `json:"pageviews"`
}

// APIStats /api/stats 响应
type APIStats struct {
	UniqueVisitors   int64                    `json:"unique_visitors"`
	TotalPageviews   int64                    `json:"total_pageviews"`
	CurrentMonth     PeriodSummary            `json:"current_month"`
	LastMonth        PeriodSummary            `json:"last_month"`
	RecentDaily      map[string]*PeriodBucket `json:"recent_daily"`
	MonthlyBreakdown map[string]*PeriodBucket `json:"monthly_breakdown"`
	TopIPs           *IPTable                 `json:"top_ips"`
	TotalIPsTracked  int                      `json:"total_ips_tracked"`
	Storage          string                   `json:"storage"`
	Status           string                   `json:"status"`
}

// DailySummary 仪表盘每日汇总
type DailySummary struct {
	Date           string `json:"date"`
	UniqueVisitors int64  `json:"unique_visitors"`
	Pageviews      int64  `json:"pageviews"`
}

// TopIPSummary 仪表盘 IP 排行条目
type TopIPSummary struct {
	IP         string           `json:"ip"`
	VisitCount int64            `json:"visit_count"`
	FirstVisit string           `json:"first_visit"`
	LastVisit  string           `json:"last_visit"`
	Browser    string           `json:"browser"`
	OS         string           `json:"os"`
	Device     string           `json:"device"`
	UserAgents []UserAgentFacts `json:"user_agents"`
}

// DashboardStats 仪表盘模板数据
type DashboardStats struct {
	VisitorData        *VisitorDocument `json:"visitor_data"`
	CurrentMonth       *PeriodBucket    `json:"current_month"`
	LastMonth          *PeriodBucket    `json:"last_month"`
	RecentDaily        []DailySummary   `json:"recent_daily"`
	TopIPs             []TopIPSummary   `json:"top_ips"`
	CurrentMonthPeriod string           `json:"current_month_period"`
	LastMonthPeriod    string           `json:"last_month_period"`
	Browsers           map[string]int64 `json:"browsers"`
	OSStats            map[string]int64 `json:"os_stats"`
	Devices            map[string]int64 `json:"devices"`
}
