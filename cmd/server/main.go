// @title           Kanic API
// @version         1.0
// @description     Marketplace backend for car owners and mechanics

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer ` or `JWT ` prefix
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dongliang3571/kanic-server/internal/app/routes"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/database"
	Logger "github.com/dongliang3571/kanic-server/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// 初始化日志配置
	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}
	defer Logger.Sync()

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		Logger.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 获取配置
	cfg, err := config.LoadConfig()
	if err != nil {
		Logger.Error("加载配置失败: %v", err)
		os.Exit(1)
	}

	// 创建数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		Logger.Error("无法创建数据库连接池: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	if err := database.Migrate(db, cfg.DBMigrationMode); err != nil {
		Logger.Error("数据库迁移失败: %v", err)
		os.Exit(1)
	}

	// 创建服务容器，Redis 可选
	serviceContainer := container.NewServiceContainer(db, cfg, services.NewRedisClient(cfg))
	defer serviceContainer.Close()

	// 确保系统中有管理员账户
	accountService := serviceContainer.GetService("account").(services.InterfaceAccountService)
	if _, err := accountService.EnsureAdminExists(context.Background()); err != nil {
		Logger.Error("创建默认管理员失败: %v", err)
	}

	// 初始化路由
	r := routes.SetupRouter(serviceContainer)

	printSystemInfo(cfg, pool, serviceContainer)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		Logger.Info("服务器启动在: http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Error("启动服务器失败: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	Logger.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("服务器关闭失败: %v", err)
	}
}

// printSystemInfo 打印系统信息
func printSystemInfo(cfg *config.Config, pool *database.ConnectionPool, c *container.ServiceContainer) {
	Logger.Info("环境: %s, 数据库: %s@%s:%s/%s", cfg.EnvType, cfg.DBDriver, cfg.DBHost, cfg.DBPort, cfg.DBName)

	if stats, err := pool.Stats(); err == nil {
		Logger.Info("数据库连接池: %v", stats)
	}

	if c.UsesRedisSessions() {
		Logger.Info("会话存储: Redis (%s)", cfg.GetRedisAddr())
	} else {
		Logger.Info("会话存储: 数据库")
	}
	if cfg.MQTTEnabled() {
		Logger.Info("账户事件: MQTT %s -> %s", cfg.MQTTBrokerURL, cfg.MQTTAccountTopic)
	}
}
