package main

import (
	"log"
	"os"

	"github.com/GrainArc/TossMap/config"
	"github.com/GrainArc/TossMap/methods"
	"github.com/GrainArc/TossMap/models"
	"github.com/GrainArc/TossMap/routers"
	"github.com/gin-gonic/gin"
)

func main() {
	models.InitDB()

	// 清理上次运行遗留的导出文件
	os.MkdirAll("OutFile", os.ModePerm)
	if err := methods.DeleteFiles("OutFile"); err != nil {
		log.Printf("清理OutFile失败: %v", err)
	}

	r := gin.Default()
	routers.TossRouters(r)

	addr := config.MainRouter
	if addr == "" {
		addr = ":8426"
	}
	log.Printf("TossMap listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
