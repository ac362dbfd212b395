package container

import (
	"context"
	"sync"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	"github.com/dongliang3571/kanic-server/pkg/logger"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService     services.InterfaceJWTService
	sessionService services.InterfaceSessionService
	redisService   services.InterfaceRedisService
	eventService   services.InterfaceEventService

	// 业务服务
	accountService services.InterfaceAccountService
	catalogService services.InterfaceCatalogService
	requestService services.InterfaceRequestService
	betaService    services.InterfaceBetaService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器，redisClient 可以为空
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接，失败时会话存放在数据库
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warning("Redis连接测试失败: %v，会话将存放在数据库", err)
			_ = redisClient.Close()
			redisClient = nil
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 账户事件，未配置或连接失败时不发布
	if c.config.MQTTEnabled() {
		events, err := services.NewMQTTEventService(c.config)
		if err != nil {
			logger.Error("MQTT服务连接失败: %v", err)
		} else {
			c.eventService = events
		}
	}

	// 账户服务，创建技师账户时同时创建技师档案
	c.accountService = services.NewAccountService(c.db, c.config, c.eventService,
		services.NewMechanicProfileObserver())

	// 认证服务
	c.jwtService = services.NewJWTService(c.config, c.accountService)

	var store services.SessionStore
	if c.redis != nil {
		c.redisService = services.NewRedisService(c.redis)
		store = services.NewRedisSessionStore(c.redisService)
	} else {
		store = services.NewDBSessionStore(c.db)
	}
	c.sessionService = services.NewSessionService(store, c.accountService, c.config)

	// 业务服务
	c.catalogService = services.NewCatalogService(c.db)
	c.requestService = services.NewRequestService(c.db)
	c.betaService = services.NewBetaService(c.db)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "session":
		return c.sessionService
	case "redis":
		return c.redisService
	case "account":
		return c.accountService
	case "catalog":
		return c.catalogService
	case "request":
		return c.requestService
	case "beta":
		return c.betaService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// UsesRedisSessions 会话是否存放在 Redis
func (c *ServiceContainer) UsesRedisSessions() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redis != nil
}

// Close 释放外部连接
func (c *ServiceContainer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eventService != nil {
		c.eventService.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			logger.Warning("关闭Redis连接失败: %v", err)
		}
	}
}
