package routes

import (
	"time"

	_ "github.com/dongliang3571/kanic-server/docs"
	"github.com/dongliang3571/kanic-server/internal/app/controllers"
	"github.com/dongliang3571/kanic-server/internal/app/middleware"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	Logger "github.com/dongliang3571/kanic-server/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(serviceContainer *container.ServiceContainer) *gin.Engine {
	cfg := serviceContainer.GetConfig()

	// 初始化 Gin
	r := gin.Default()

	// 只信任配置的代理转发的客户端地址，限流按真实来源计数
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		Logger.Error("设置可信代理失败: %v", err)
	}

	// 添加 CORS 中间件
	r.Use(cors.New(corsConfig(cfg)))

	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range cfg.CORSAllowOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c
		}
	}
	c.AllowOrigins = cfg.CORSAllowOrigins
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"http://localhost:8000"}
	}
	return c
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	cfg := container.GetConfig()

	// 认证和登记接口按IP限流
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, time.Hour)
	// 服务项目列表缓存，创建服务项目后清除
	serviceCache := middleware.NewResponseCache(5 * time.Minute)

	authenticate := middleware.Authenticate(container)

	registerAPIRoutes(r.Group("/api"), container, limiter, authenticate)
	registerBetaAPIRoutes(r.Group("/api-beta"), container, limiter, serviceCache, authenticate)
	registerSignUpRoutes(r.Group("/beta"), container, limiter)
}

// registerAPIRoutes 健康检查和会话认证
func registerAPIRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	limiter *middleware.RateLimiter,
	authenticate gin.HandlerFunc,
) {
	health := controllers.NewHealthCheckController(container)
	api.GET("/ping", health.Ping)
	api.GET("/health", health.Health)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", limiter.Handler(), controllers.HandleAuthFunc(container, "login"))
	authGroup.POST("/logout", authenticate, controllers.HandleAuthFunc(container, "logout"))
}

// registerBetaAPIRoutes 账户、服务项目和维修请求
func registerBetaAPIRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	limiter *middleware.RateLimiter,
	serviceCache *middleware.ResponseCache,
	authenticate gin.HandlerFunc,
) {
	// 公共路由
	api.POST("/auth/token", limiter.Handler(), controllers.HandleAuthFunc(container, "obtainToken"))
	api.POST("/users", limiter.Handler(), controllers.HandleAccountFunc(container, "createUser"))
	api.POST("/users/create", limiter.Handler(), controllers.HandleAccountFunc(container, "createUser"))

	// 需要认证的路由
	auth := api.Group("")
	auth.Use(authenticate)

	users := auth.Group("/users")
	users.GET("", controllers.HandleAccountFunc(container, "listUsers"))
	users.GET("/:username", controllers.HandleAccountFunc(container, "getUser"))

	servicesGroup := auth.Group("/services")
	servicesGroup.GET("", serviceCache.Handler(), controllers.HandleServiceFunc(container, serviceCache, "listServices"))
	servicesGroup.GET("/:id", serviceCache.Handler(), controllers.HandleServiceFunc(container, serviceCache, "getService"))
	servicesGroup.POST("", middleware.RequireAdmin(), controllers.HandleServiceFunc(container, serviceCache, "createService"))

	requests := auth.Group("/requests")
	requests.GET("", controllers.HandleRequestFunc(container, "listRequests"))
	requests.POST("", controllers.HandleRequestFunc(container, "createRequest"))
	requests.POST("/create", controllers.HandleRequestFunc(container, "createRequest"))
	requests.GET("/:id", controllers.HandleRequestFunc(container, "getRequest"))
}

// registerSignUpRoutes 内测登记表单
func registerSignUpRoutes(
	beta *gin.RouterGroup,
	container *container.ServiceContainer,
	limiter *middleware.RateLimiter,
) {
	beta.Use(limiter.Handler())
	beta.POST("/signup", controllers.HandleBetaFunc(container, "signUp"))
	beta.POST("/mechanics", controllers.HandleBetaFunc(container, "mechanicSignUp"))
}
