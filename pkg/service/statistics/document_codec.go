package statistics

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dustinreed/portfolio/pkg/domain/model"
)

// ErrMalformedDocument 存储内容不是合法 JSON，或结构无法识别
var ErrMalformedDocument = errors.New("malformed visitor document")

// DecodeVisitorDocument 解析存储中的统计文档，兼容历史格式：
//
//	5                          -> 纯数字计数
//	{"count": 5}               -> 早期计数对象
//	{"monthly": {"2024-01": 5}} -> 周期桶为数字
//
// 返回的文档已补齐所有子表。
func DecodeVisitorDocument(data []byte) (*model.VisitorDocument, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: 不是合法的 JSON", ErrMalformedDocument)
	}
	root := gjson.ParseBytes(data)

	if !root.IsObject() {
		// 非对象的旧格式：数字视为计数，其余视为空
		doc := model.NewVisitorDocument()
		if root.Type == gjson.Number {
			doc.UniqueVisitors = root.Int()
			doc.TotalPageviews = root.Int()
		}
		return doc, nil
	}

	if root.Get("count").Exists() && !root.Get("unique_visitors").Exists() {
		doc := model.NewVisitorDocument()
		doc.UniqueVisitors = root.Get("count").Int()
		doc.TotalPageviews = root.Get("count").Int()
		return doc, nil
	}

	doc := &model.VisitorDocument{}
	if err := json.Unmarshal(data, doc); err == nil {
		doc.Normalize()
		return doc, nil
	}

	doc, err := decodeLegacyBuckets(root)
	if err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

// decodeLegacyBuckets 逐字段解析，数字形式的周期桶升级为 {unique_visitors: n, pageviews: n}
func decodeLegacyBuckets(root gjson.Result) (*model.VisitorDocument, error) {
	doc := model.NewVisitorDocument()
	doc.UniqueVisitors = root.Get("unique_visitors").Int()
	doc.TotalPageviews = root.Get("total_pageviews").Int()

	if ips := root.Get("ips"); ips.Exists() {
		if err := doc.IPs.UnmarshalJSON([]byte(ips.Raw)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	}

	var err error
	if doc.Monthly, err = decodeBuckets(root.Get("monthly")); err != nil {
		return nil, err
	}
	if doc.Daily, err = decodeBuckets(root.Get("daily")); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeBuckets(value gjson.Result) (map[string]*model.PeriodBucket, error) {
	buckets := make(map[string]*model.PeriodBucket)
	if !value.Exists() || value.Type == gjson.Null {
		return buckets, nil
	}
	if !value.IsObject() {
		return nil, fmt.Errorf("%w: 周期表不是对象", ErrMalformedDocument)
	}

	var decodeErr error
	value.ForEach(func(key, raw gjson.Result) bool {
		if raw.Type == gjson.Number {
			bucket := model.NewPeriodBucket()
			bucket.UniqueVisitors = raw.Int()
			bucket.Pageviews = raw.Int()
			buckets[key.String()] = bucket
			return true
		}
		bucket := model.NewPeriodBucket()
		if err := json.Unmarshal([]byte(raw.Raw), bucket); err != nil {
			decodeErr = fmt.Errorf("%w: 周期 %s: %v", ErrMalformedDocument, key.String(), err)
			return false
		}
		buckets[key.String()] = bucket
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return buckets, nil
}

// EncodeVisitorDocument 序列化文档
func EncodeVisitorDocument(doc *model.VisitorDocument) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("序列化访客统计文档失败: %w", err)
	}
	return data, nil
}
