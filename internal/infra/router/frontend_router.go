package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// TemplatePattern 模板文件在资源文件系统中的位置
const TemplatePattern = "templates/*.html"

// CustomHTMLRender 使用预先解析好的模板集合渲染页面
type CustomHTMLRender struct{ Templates *template.Template }

func (r CustomHTMLRender) Instance(name string, data interface{}) render.Render {
	return render.HTML{Template: r.Templates, Name: name, Data: data}
}

// NamedCount 排行条目
type NamedCount struct {
	Name  string
	Count int64
}

// rankCounts 按次数降序排列，次数相同时按名称排序
func rankCounts(counts map[string]int64) []NamedCount {
	ranked := make([]NamedCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, NamedCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// TemplateFuncs 模板中可用的函数
var TemplateFuncs = template.FuncMap{
	"ranked": rankCounts,
}

// LoadTemplates 从资源文件系统解析全部页面模板
func LoadTemplates(assets fs.FS) (*template.Template, error) {
	templates, err := template.New("").Funcs(TemplateFuncs).ParseFS(assets, TemplatePattern)
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	return templates, nil
}

// SetupFrontend 加载模板并挂载到引擎
func SetupFrontend(engine *gin.Engine, assets fs.FS) error {
	templates, err := LoadTemplates(assets)
	if err != nil {
		return err
	}
	engine.HTMLRender = CustomHTMLRender{Templates: templates}
	return nil
}
