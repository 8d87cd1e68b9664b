package statistics

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeVisitorDocument_Legacy(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		uniqueVisitors int64
		totalPageviews int64
	}{
		{name: "纯数字", input: `5`, uniqueVisitors: 5, totalPageviews: 5},
		{name: "计数对象", input: `{"count": 7}`, uniqueVisitors: 7, totalPageviews: 7},
		{name: "字符串视为空", input: `"hello"`, uniqueVisitors: 0, totalPageviews: 0},
		{name: "数组视为空", input: `[1,2,3]`, uniqueVisitors: 0, totalPageviews: 0},
		{name: "缺少子表的当前格式", input: `{"unique_visitors": 3, "total_pageviews": 9}`, uniqueVisitors: 3, totalPageviews: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeVisitorDocument([]byte(tt.input))
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if doc.UniqueVisitors != tt.uniqueVisitors || doc.TotalPageviews != tt.totalPageviews {
				t.Errorf("unique=%d total=%d, 期望 %d/%d", doc.UniqueVisitors, doc.TotalPageviews, tt.uniqueVisitors, tt.totalPageviews)
			}
			if doc.Monthly == nil || doc.Daily == nil || doc.IPs == nil {
				t.Error("解析结果应补齐所有子表")
			}
		})
	}
}

func TestDecodeVisitorDocument_IntegerBuckets(t *testing.T) {
	input := `{"unique_visitors": 4, "total_pageviews": 10, "monthly": {"2023-12": 6, "2024-01": {"unique_visitors": 1, "pageviews": 2, "ips": {"1.1.1.1": true}, "browsers": {}, "os": {}, "devices": {}}}, "daily": {"2024-01-05": 3}}`

	doc, err := DecodeVisitorDocument([]byte(input))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	dec := doc.Monthly["2023-12"]
	if dec == nil || dec.UniqueVisitors != 6 || dec.Pageviews != 6 || dec.IPs == nil || dec.Browsers == nil {
		t.Errorf("数字桶应升级为完整结构: %+v", dec)
	}
	jan := doc.Monthly["2024-01"]
	if jan == nil || jan.Pageviews != 2 || !jan.IPs["1.1.1.1"] {
		t.Errorf("对象桶解析错误: %+v", jan)
	}
	day := doc.Daily["2024-01-05"]
	if day == nil || day.UniqueVisitors != 3 || day.Pageviews != 3 {
		t.Errorf("每日数字桶解析错误: %+v", day)
	}
}

func TestDecodeVisitorDocument_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "截断的 JSON", input: `{"unique_visitors": 1,`},
		{name: "空内容", input: ``},
		{name: "周期表类型错误", input: `{"unique_visitors": 1, "monthly": "oops"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeVisitorDocument([]byte(tt.input))
			if !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("应返回 ErrMalformedDocument，实际: %v", err)
			}
		})
	}
}

func TestEncodeVisitorDocument_KeepsIPOrder(t *testing.T) {
	input := `{"unique_visitors":3,"total_pageviews":3,"monthly":{},"daily":{},"ips":{"9.9.9.9":{"first_visit":"a","visit_count":1,"last_visit":"a","user_agent":{},"user_agents":[]},"1.1.1.1":{"first_visit":"b","visit_count":1,"last_visit":"b","user_agent":{},"user_agents":[]},"5.5.5.5":{"first_visit":"c","visit_count":1,"last_visit":"c","user_agent":{},"user_agents":[]}}}`

	doc, err := DecodeVisitorDocument([]byte(input))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	keys := doc.IPs.Keys()
	if strings.Join(keys, ",") != "9.9.9.9,1.1.1.1,5.5.5.5" {
		t.Errorf("解析后 IP 顺序 = %v", keys)
	}

	data, err := EncodeVisitorDocument(doc)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	out := string(data)
	if !(strings.Index(out, "9.9.9.9") < strings.Index(out, "1.1.1.1") && strings.Index(out, "1.1.1.1") < strings.Index(out, "5.5.5.5")) {
		t.Errorf("序列化后 IP 顺序改变: %s", out)
	}
}
