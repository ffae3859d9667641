package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/yockii/docdraft/internal/model"
	"github.com/yockii/docdraft/internal/server"
	"github.com/yockii/docdraft/pkg/config"
	"github.com/yockii/docdraft/pkg/database"
	"github.com/yockii/docdraft/pkg/logger"
)

func main() {
	configFile := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	// .env 中的 DOCDRAFT_* 变量
	_ = godotenv.Load()

	// 初始化配置
	if err := config.Init(*configFile); err != nil {
		log.Fatalf("初始化配置失败: %v", err)
	}

	// 初始化日志
	logger.Init()
	defer logger.Sync()

	// 连接数据库
	if err := database.Init(); err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}
	defer database.Close()

	// 数据库迁移
	if err := model.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 创建服务器实例
	srv := server.New()

	// 启动服务器
	if err := srv.Start(); err != nil {
		log.Fatalf("服务停止: %v", err)
	}
}
