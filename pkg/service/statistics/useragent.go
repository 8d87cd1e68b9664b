/*
 * @Description: User-Agent 解析
 * @Date: 2026-10-09 10:48:03
 * @LastEditTime: 2026-10-13 15:20:18
 */
package statistics

import (
	"log"
	"strings"
	"time"

	"github.com/maypok86/otter"
	"github.com/mileusna/useragent"
	"github.com/ua-parser/uap-go/uaparser"

	"github.com/dustinreed/portfolio/pkg/domain/model"
)

// UA 解析缓存配置
const (
	UACacheCapacity = 10000
	UACacheExpire   = 12 * time.Hour

	// maxUserAgentLength 超出部分在解析前截断
	maxUserAgentLength = 2048
	// genericDeviceFamily ua-parser 无法识别设备时返回的族名
	genericDeviceFamily = "Other"
)

// testClientSignatures 测试客户端的 UA 特征，小写匹配
var testClientSignatures = []string{"werkzeug", "test"}

// UserAgentClassifier 将原始 User-Agent 字符串转换为结构化信息
type UserAgentClassifier interface {
	// Classify 解析 UA，空字符串表示请求未携带 UA。永不 panic。
	Classify(raw string) model.UserAgentFacts
}

type userAgentClassifier struct {
	parser *uaparser.Parser
	cache  otter.Cache[string, model.UserAgentFacts]
}

// NewUserAgentClassifier 创建 UA 解析器，内置 ua-parser 正则库
func NewUserAgentClassifier() (UserAgentClassifier, error) {
	cache, err := otter.MustBuilder[string, model.UserAgentFacts](UACacheCapacity).
		WithTTL(UACacheExpire).
		Build()
	if err != nil {
		return nil, err
	}
	return &userAgentClassifier{
		parser: uaparser.NewFromSaved(),
		cache:  cache,
	}, nil
}

func (c *userAgentClassifier) Classify(raw string) model.UserAgentFacts {
	if raw == "" {
		return absentUserAgent()
	}
	if isTestClient(raw) {
		return testClientUserAgent()
	}

	if cached, ok := c.cache.Get(raw); ok {
		return cached
	}

	facts := c.parse(raw)
	c.cache.Set(raw, facts)
	return facts
}

// parse 调用第三方解析库，任何 panic 都退化为缺省结果
func (c *userAgentClassifier) parse(raw string) (facts model.UserAgentFacts) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[访客统计] 警告: 无法解析 User-Agent '%s': %v", raw, r)
			facts = absentUserAgent()
		}
	}()

	cleaned := sanitizeUserAgent(raw)
	client := c.parser.Parse(cleaned)
	form := useragent.Parse(cleaned)

	facts = model.UserAgentFacts{
		Browser:        model.UnknownValue,
		BrowserVersion: model.UnknownValue,
		OS:             model.UnknownValue,
		OSVersion:      model.UnknownValue,
		Device:         model.UnknownValue,
		DeviceBrand:    model.UnknownValue,
		DeviceModel:    model.UnknownValue,
		IsMobile:       form.Mobile,
		IsTablet:       form.Tablet,
		IsPC:           form.Desktop,
		IsBot:          form.Bot,
	}

	if client.UserAgent != nil {
		facts.Browser = model.OrUnknown(client.UserAgent.Family)
		facts.BrowserVersion = model.OrUnknown(client.UserAgent.ToVersionString())
	}
	if client.Os != nil {
		facts.OS = model.OrUnknown(client.Os.Family)
		facts.OSVersion = model.OrUnknown(client.Os.ToVersionString())
	}

	family := ""
	if client.Device != nil {
		family = client.Device.Family
		facts.DeviceBrand = model.OrUnknown(client.Device.Brand)
		facts.DeviceModel = model.OrUnknown(client.Device.Model)
	}
	facts.Device = refineDeviceFamily(family, facts)

	return facts
}

// refineDeviceFamily 通用设备族按形态细化
func refineDeviceFamily(family string, facts model.UserAgentFacts) string {
	if family != "" && family != genericDeviceFamily {
		return family
	}
	switch {
	case facts.IsMobile:
		return "Mobile"
	case facts.IsTablet:
		return "Tablet"
	default:
		return "Desktop"
	}
}

func isTestClient(raw string) bool {
	lower := strings.ToLower(raw)
	for _, sig := range testClientSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// sanitizeUserAgent 截断过长输入并替换非法 UTF-8
func sanitizeUserAgent(raw string) string {
	if len(raw) > maxUserAgentLength {
		raw = raw[:maxUserAgentLength]
	}
	return strings.ToValidUTF8(raw, "�")
}

func absentUserAgent() model.UserAgentFacts {
	return model.UserAgentFacts{
		Browser:        model.UnknownValue,
		BrowserVersion: model.UnknownValue,
		OS:             model.UnknownValue,
		OSVersion:      model.UnknownValue,
		Device:         model.UnknownValue,
		DeviceBrand:    model.UnknownValue,
		DeviceModel:    model.UnknownValue,
		IsPC:           true,
	}
}

func testClientUserAgent() model.UserAgentFacts {
	return model.UserAgentFacts{
		Browser:        "Test Client",
		BrowserVersion: "N/A",
		OS:             "Development",
		OSVersion:      "N/A",
		Device:         "Server",
		DeviceBrand:    model.UnknownValue,
		DeviceModel:    model.UnknownValue,
	}
}
