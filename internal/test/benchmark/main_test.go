package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/dongliang3571/kanic-server/internal/app/routes"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	"github.com/dongliang3571/kanic-server/internal/test/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 压测配置，可通过环境变量覆盖
type TestConfig struct {
	BaseURL     string
	AdminEmail  string
	AdminPass   string
	Concurrency int
	Requests    int
}

// 令牌响应
type tokenResponse struct {
	Code int `json:"code"`
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

func loadConfig() TestConfig {
	cfg := TestConfig{
		BaseURL:     os.Getenv("BENCH_BASE_URL"),
		AdminEmail:  "admin@kanic.io",
		AdminPass:   "admin-pass",
		Concurrency: 10,
		Requests:    100,
	}
	if v := os.Getenv("BENCH_ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("BENCH_ADMIN_PASSWORD"); v != "" {
		cfg.AdminPass = v
	}
	if n, err := strconv.Atoi(os.Getenv("BENCH_CONCURRENCY")); err == nil && n > 0 {
		cfg.Concurrency = n
	}
	if n, err := strconv.Atoi(os.Getenv("BENCH_REQUESTS")); err == nil && n > 0 {
		cfg.Requests = n
	}
	return cfg
}

// setup 未指定 BENCH_BASE_URL 时启动进程内服务并写入默认管理员
func setup(t *testing.T) (TestConfig, string) {
	t.Helper()
	cfg := loadConfig()

	if cfg.BaseURL == "" {
		gin.SetMode(gin.TestMode)
		appCfg := &config.Config{
			JWTSecretKey:         "bench-secret",
			JWTExpiration:        time.Hour,
			SessionTTL:           time.Hour,
			SessionCookieName:    "sessionid",
			RateLimitRPS:         float64(cfg.Requests * 10),
			RateLimitBurst:       cfg.Requests * 10,
			DefaultAdminEmail:    cfg.AdminEmail,
			DefaultAdminPhone:    "0000000000",
			DefaultAdminPassword: cfg.AdminPass,
		}
		c := container.NewServiceContainer(testdb.New(t), appCfg, nil)
		t.Cleanup(c.Close)

		accounts := c.GetService("account").(services.InterfaceAccountService)
		_, err := accounts.EnsureAdminExists(context.Background())
		require.NoError(t, err)

		srv := httptest.NewServer(routes.SetupRouter(c))
		t.Cleanup(srv.Close)
		cfg.BaseURL = srv.URL
	}

	return cfg, obtainToken(t, cfg)
}

func obtainToken(t *testing.T, cfg TestConfig) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": cfg.AdminEmail, "password": cfg.AdminPass})
	require.NoError(t, err)

	resp, err := http.Post(cfg.BaseURL+"/api-beta/auth/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr tokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	require.NotEmpty(t, tr.Data.Token)
	return tr.Data.Token
}

func assertAllSucceeded(t *testing.T, result *BenchmarkResult) {
	t.Helper()
	t.Log(result)
	assert.Zero(t, result.FailureCount(), result.String())
	assert.Equal(t, result.SuccessCount, result.BusinessCodes[code.ErrSuccess])
}

// TestPingLoad 健康检查接口
func TestPingLoad(t *testing.T) {
	cfg, _ := setup(t)
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests)
	assertAllSucceeded(t, b.Run(context.Background(), Endpoint{Method: http.MethodGet, Path: "/api/ping"}))
}

// TestServiceListLoad 服务项目列表接口，命中响应缓存
func TestServiceListLoad(t *testing.T) {
	cfg, token := setup(t)
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests).WithToken("Bearer", token)
	assertAllSucceeded(t, b.Run(context.Background(), Endpoint{Method: http.MethodGet, Path: "/api-beta/services"}))
}

// TestUserListLoad 账户列表接口，使用 JWT 前缀
func TestUserListLoad(t *testing.T) {
	cfg, token := setup(t)
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests).WithToken("JWT", token)
	assertAllSucceeded(t, b.Run(context.Background(), Endpoint{Method: http.MethodGet, Path: "/api-beta/users?role=mechanic"}))
}

// TestRequestListLoad 维修请求列表接口
func TestRequestListLoad(t *testing.T) {
	cfg, token := setup(t)
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests).WithToken("Bearer", token)
	assertAllSucceeded(t, b.Run(context.Background(), Endpoint{Method: http.MethodGet, Path: "/api-beta/requests"}))
}

// TestTokenLoad 令牌签发接口
func TestTokenLoad(t *testing.T) {
	cfg, _ := setup(t)
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests)
	result := b.Run(context.Background(), Endpoint{
		Method: http.MethodPost,
		Path:   "/api-beta/auth/token",
		Body:   map[string]string{"email": cfg.AdminEmail, "password": cfg.AdminPass},
	})
	assertAllSucceeded(t, result)
}

// TestRunStopsOnCancel 取消后不再发送新请求
func TestRunStopsOnCancel(t *testing.T) {
	cfg, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewAPIBenchmark(cfg.BaseURL, 2, 50).Run(ctx, Endpoint{Method: http.MethodGet, Path: "/api/ping"})
	assert.Zero(t, result.TotalRequests)
}
