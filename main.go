// @title 员工绩效评估 API
// @version 1.0
// @description 员工绩效评估系统的后端服务：评估问卷、回答、仪表盘统计与报表导出。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"evaluation_backend/internal/app"
	"evaluation_backend/internal/config"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/logger"
	"flag"
	"log"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	adminUser := flag.String("admin-user", "", "启动时创建的管理员用户名")
	adminPassword := flag.String("admin-password", "", "管理员密码")
	adminName := flag.String("admin-name", "Administrador", "管理员姓名")
	adminEmail := flag.String("admin-email", "admin@example.com", "管理员邮箱")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *adminUser != "" {
		err := application.BootstrapAdmin(context.Background(), *adminName, *adminEmail, *adminUser, *adminPassword)
		switch {
		case errors.Is(err, util.ErrUsernameTaken):
			logger.Log.Info("Admin account already exists", zap.String("username", *adminUser))
		case err != nil:
			logger.Log.Fatal("Failed to create admin account", zap.Error(err))
		}
	}

	application.Run()
}
