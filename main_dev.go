//go:build dev

/*
 * @Description: 开发模式入口，模板直接从磁盘读取
 * @Date: 2026-10-11 16:40:27
 * @LastEditTime: 2026-10-12 11:02:44
 */
package main

import (
	"log"
	"os"

	"github.com/dustinreed/portfolio/cmd/server"
)

func main() {
	log.Println("开发模式启动 - 模板从 ./assets 读取，修改后重启生效")

	app, cleanup, err := server.NewApp(os.DirFS("assets"))
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
