//go:build !dev

/*
 * @Description: 程序入口
 * @Date: 2026-10-11 16:40:27
 * @LastEditTime: 2026-10-13 22:35:10
 */
package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log"

	"github.com/dustinreed/portfolio/cmd/server"
	"github.com/dustinreed/portfolio/internal/pkg/security"
)

//go:embed assets/templates
var content embed.FS

func main() {
	var plainPassword string
	flag.StringVar(&plainPassword, "hash-password", "", "生成仪表盘密码的 bcrypt 哈希后退出")
	flag.Parse()

	if plainPassword != "" {
		hash, err := security.HashPassword(plainPassword)
		if err != nil {
			log.Fatalf("生成密码哈希失败: %v", err)
		}
		fmt.Println(hash)
		return
	}

	assets, err := fs.Sub(content, "assets")
	if err != nil {
		log.Fatalf("读取内嵌资源失败: %v", err)
	}

	app, cleanup, err := server.NewApp(assets)
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}
	defer cleanup()
	defer app.Stop()

	app.PrintBanner()

	if err := app.Run(); err != nil {
		log.Fatalf("应用运行失败: %v", err)
	}
}
