package container

import (
	"testing"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	"github.com/dongliang3571/kanic-server/internal/test/testdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecretKey: "test", JWTExpiration: time.Hour, SessionTTL: time.Hour}
}

func TestContainerWithoutRedis(t *testing.T) {
	c := NewServiceContainer(testdb.New(t), testConfig(), nil)
	defer c.Close()

	assert.False(t, c.UsesRedisSessions())
	assert.Nil(t, c.GetService("redis"))
	assert.Nil(t, c.GetService("unknown"))

	_, ok := c.GetService("account").(services.InterfaceAccountService)
	assert.True(t, ok)
	_, ok = c.GetService("jwt").(services.InterfaceJWTService)
	assert.True(t, ok)
	_, ok = c.GetService("session").(services.InterfaceSessionService)
	assert.True(t, ok)
	_, ok = c.GetService("catalog").(services.InterfaceCatalogService)
	assert.True(t, ok)
	_, ok = c.GetService("request").(services.InterfaceRequestService)
	assert.True(t, ok)
	_, ok = c.GetService("beta").(services.InterfaceBetaService)
	assert.True(t, ok)
	assert.NotNil(t, c.GetDB())
	assert.Equal(t, "test", c.GetConfig().JWTSecretKey)
}

func TestContainerUsesReachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewServiceContainer(testdb.New(t), testConfig(), redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()

	assert.True(t, c.UsesRedisSessions())
	_, ok := c.GetService("redis").(services.InterfaceRedisService)
	assert.True(t, ok)
}

func TestContainerFallsBackWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := NewServiceContainer(testdb.New(t), testConfig(), redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1}))
	defer c.Close()

	assert.False(t, c.UsesRedisSessions())
}
