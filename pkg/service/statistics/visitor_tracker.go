/*
 * @Description: 访客统计聚合服务
 * @Date: 2026-10-09 15:36:41
 * @LastEditTime: 2026-10-13 22:08:14
 */
package statistics

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/dustinreed/portfolio/internal/pkg/utils"
	"github.com/dustinreed/portfolio/pkg/domain/model"
	"github.com/dustinreed/portfolio/pkg/domain/repository"
)

// 统计配置常量
const (
	DefaultTopIPLimit = 10 // IP 排行条数
	RecentDays        = 7  // 最近 N 天的每日统计
)

// VisitorTracker 访客统计服务接口
type VisitorTracker interface {
	// Track 记录一次访问。clientIP 为空时不做任何事，存储异常只记录日志。
	Track(ctx context.Context, clientIP, userAgent string)

	// StatsForAPI 获取 /api/stats 的统计数据
	StatsForAPI(ctx context.Context) *model.APIStats

	// StatsForTemplate 获取仪表盘页面的统计数据
	StatsForTemplate(ctx context.Context) *model.DashboardStats
}

type visitorTracker struct {
	store      repository.VisitorStore
	classifier UserAgentClassifier
	now        func() time.Time
	location   *time.Location
	topIPLimit int
}

// Option 访客统计服务选项
type Option func(*visitorTracker)

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(t *visitorTracker) {
		t.now = now
	}
}

// WithLocation 设置统计周期使用的时区
func WithLocation(loc *time.Location) Option {
	return func(t *visitorTracker) {
		if loc != nil {
			t.location = loc
		}
	}
}

// WithTopIPLimit 设置 IP 排行条数
func WithTopIPLimit(n int) Option {
	return func(t *visitorTracker) {
		if n > 0 {
			t.topIPLimit = n
		}
	}
}

// NewVisitorTracker 创建访客统计服务实例
func NewVisitorTracker(store repository.VisitorStore, classifier UserAgentClassifier, opts ...Option) VisitorTracker {
	t := &visitorTracker{
		store:      store,
		classifier: classifier,
		now:        time.Now,
		location:   time.Local,
		topIPLimit: DefaultTopIPLimit,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *visitorTracker) currentTime() time.Time {
	return t.now().In(t.location)
}

// loadForRead 读取文档，不可用时记录警告并返回空文档
func (t *visitorTracker) loadForRead(ctx context.Context) *model.VisitorDocument {
	doc, err := t.store.Load(ctx)
	if err != nil {
		log.Printf("[访客统计] 警告: 无法从 %s 读取访客数据: %v", t.store.Describe(), err)
		if doc == nil {
			doc = model.NewVisitorDocument()
		}
	}
	return doc
}

func (t *visitorTracker) Track(ctx context.Context, clientIP, userAgent string) {
	if clientIP == "" {
		return
	}

	facts := t.classifier.Classify(userAgent)
	now := t.currentTime()
	timestamp := utils.FormatTimestamp(now)

	doc, err := t.store.Load(ctx)
	if err != nil {
		// 读不到时不写回，避免用空文档覆盖已有数据
		if errors.Is(err, repository.ErrStoreUnavailable) {
			log.Printf("[访客统计] 警告: 无法从 %s 读取访客数据，本次访问不计入: %v", t.store.Describe(), err)
		} else {
			log.Printf("[访客统计] 警告: 读取访客数据失败，本次访问不计入: %v", err)
		}
		return
	}

	applyVisit(doc, clientIP, facts, timestamp, utils.MonthKey(now), utils.DayKey(now))

	if err := t.store.Save(ctx, doc); err != nil {
		log.Printf("[访客统计] 警告: 无法保存访客数据到 %s: %v", t.store.Describe(), err)
	}
}

// applyVisit 把一次访问合并进文档
func applyVisit(doc *model.VisitorDocument, clientIP string, facts model.UserAgentFacts, timestamp, monthKey, dayKey string) {
	record, ok := doc.IPs.Get(clientIP)
	if !ok {
		record = &model.IPRecord{
			FirstVisit: timestamp,
			LastVisit:  timestamp,
			UserAgent:  facts,
			UserAgents: []model.UserAgentFacts{facts},
		}
		doc.IPs.Put(clientIP, record)
		doc.UniqueVisitors++
	} else {
		record.UserAgent = facts
		if !hasSignature(record.UserAgents, facts.Signature()) {
			record.UserAgents = append(record.UserAgents, facts)
		}
	}

	record.VisitCount++
	record.LastVisit = timestamp
	doc.TotalPageviews++

	addToBucket(bucketFor(doc.Monthly, monthKey), clientIP, facts)
	addToBucket(bucketFor(doc.Daily, dayKey), clientIP, facts)
}

// hasSignature 历史 UA 中是否已有相同组合，无法解析的条目按 Unknown_Unknown_Unknown 比较
func hasSignature(history []model.UserAgentFacts, signature string) bool {
	for _, existing := range history {
		if existing.Signature() == signature {
			return true
		}
	}
	return false
}

func bucketFor(buckets map[string]*model.PeriodBucket, key string) *model.PeriodBucket {
	bucket, ok := buckets[key]
	if !ok || bucket == nil {
		bucket = model.NewPeriodBucket()
		buckets[key] = bucket
	}
	bucket.Normalize()
	return bucket
}

func addToBucket(bucket *model.PeriodBucket, clientIP string, facts model.UserAgentFacts) {
	if !bucket.IPs[clientIP] {
		bucket.IPs[clientIP] = true
		bucket.UniqueVisitors++
	}
	bucket.Pageviews++
	bucket.Browsers[facts.Browser]++
	bucket.OS[facts.OS]++
	bucket.Devices[facts.Device]++
}

func (t *visitorTracker) StatsForAPI(ctx context.Context) *model.APIStats {
	doc := t.loadForRead(ctx)
	now := t.currentTime()
	currentMonth := utils.MonthKey(now)
	lastMonth := utils.PreviousMonthKey(now)

	recentDaily := make(map[string]*model.PeriodBucket, RecentDays)
	for i := 0; i < RecentDays; i++ {
		day := utils.DayKey(now.AddDate(0, 0, -i))
		recentDaily[day] = bucketOrEmpty(doc.Daily, day)
	}

	topIPs := model.NewIPTable()
	for _, ip := range t.rankIPs(doc) {
		record, _ := doc.IPs.Get(ip)
		topIPs.Put(ip, record)
	}

	return &model.APIStats{
		UniqueVisitors:   doc.UniqueVisitors,
		TotalPageviews:   doc.TotalPageviews,
		CurrentMonth:     summarize(currentMonth, bucketOrEmpty(doc.Monthly, currentMonth)),
		LastMonth:        summarize(lastMonth, bucketOrEmpty(doc.Monthly, lastMonth)),
		RecentDaily:      recentDaily,
		MonthlyBreakdown: doc.Monthly,
		TopIPs:           topIPs,
		TotalIPsTracked:  doc.IPs.Len(),
		Storage:          t.store.Describe(),
		Status:           "success",
	}
}

func (t *visitorTracker) StatsForTemplate(ctx context.Context) *model.DashboardStats {
	doc := t.loadForRead(ctx)
	now := t.currentTime()
	currentMonth := utils.MonthKey(now)
	lastMonth := utils.PreviousMonthKey(now)

	currentBucket := bucketOrEmpty(doc.Monthly, currentMonth)
	lastBucket := bucketOrEmpty(doc.Monthly, lastMonth)

	// 从旧到新
	recentDaily := make([]model.DailySummary, 0, RecentDays)
	for i := RecentDays - 1; i >= 0; i-- {
		day := utils.DayKey(now.AddDate(0, 0, -i))
		bucket := bucketOrEmpty(doc.Daily, day)
		recentDaily = append(recentDaily, model.DailySummary{
			Date:           day,
			UniqueVisitors: bucket.UniqueVisitors,
			Pageviews:      bucket.Pageviews,
		})
	}

	ranked := t.rankIPs(doc)
	topIPs := make([]model.TopIPSummary, 0, len(ranked))
	for _, ip := range ranked {
		record, _ := doc.IPs.Get(ip)
		history := record.UserAgents
		if history == nil {
			history = []model.UserAgentFacts{}
		}
		topIPs = append(topIPs, model.TopIPSummary{
			IP:         ip,
			VisitCount: record.VisitCount,
			FirstVisit: datePart(record.FirstVisit),
			LastVisit:  datePart(record.LastVisit),
			Browser:    model.OrUnknown(record.UserAgent.Browser),
			OS:         model.OrUnknown(record.UserAgent.OS),
			Device:     model.OrUnknown(record.UserAgent.Device),
			UserAgents: history,
		})
	}

	return &model.DashboardStats{
		VisitorData:        doc,
		CurrentMonth:       currentBucket,
		LastMonth:          lastBucket,
		RecentDaily:        recentDaily,
		TopIPs:             topIPs,
		CurrentMonthPeriod: currentMonth,
		LastMonthPeriod:    lastMonth,
		Browsers:           currentBucket.Browsers,
		OSStats:            currentBucket.OS,
		Devices:            currentBucket.Devices,
	}
}

// rankIPs 按访问次数降序取前 N 个 IP，次数相同时保持插入顺序。不修改文档。
func (t *visitorTracker) rankIPs(doc *model.VisitorDocument) []string {
	keys := doc.IPs.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		a, _ := doc.IPs.Get(keys[i])
		b, _ := doc.IPs.Get(keys[j])
		return a.VisitCount > b.VisitCount
	})
	if len(keys) > t.topIPLimit {
		keys = keys[:t.topIPLimit]
	}
	return keys
}

func bucketOrEmpty(buckets map[string]*model.PeriodBucket, key string) *model.PeriodBucket {
	if bucket, ok := buckets[key]; ok && bucket != nil {
		return bucket
	}
	return model.NewPeriodBucket()
}

func summarize(period string, bucket *model.PeriodBucket) model.PeriodSummary {
	return model.PeriodSummary{
		Period:         period,
		UniqueVisitors: bucket.UniqueVisitors,
		Pageviews:      bucket.Pageviews,
	}
}

// datePart 取时间戳的日期部分
func datePart(timestamp string) string {
	if len(timestamp) > 10 {
		return timestamp[:10]
	}
	return timestamp
}
