package middleware

import (
	"errors"
	"strings"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"
	"github.com/dongliang3571/kanic-server/pkg/logger"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextUserID    = "userID"
	ContextRole      = "role"
	ContextAccount   = "account"
	ContextSessionID = "sessionID"
)

// extractToken 从授权头中提取token，支持 "Bearer " 和 "JWT " 前缀
func extractToken(authHeader string) string {
	authHeader = strings.TrimSpace(authHeader)
	for _, prefix := range []string{"Bearer ", "JWT "} {
		if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
			return strings.TrimSpace(authHeader[len(prefix):])
		}
	}
	return ""
}

// Authenticate 认证中间件，先检查会话 cookie，再检查 Authorization 头
func Authenticate(container *container.ServiceContainer) gin.HandlerFunc {
	cfg := container.GetConfig()
	sessionService := container.GetService("session").(services.InterfaceSessionService)
	jwtService := container.GetService("jwt").(services.InterfaceJWTService)
	accountService := container.GetService("account").(services.InterfaceAccountService)

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sessionID, err := c.Cookie(cfg.SessionCookieName); err == nil && sessionID != "" {
			account, err := sessionService.Resolve(ctx, sessionID)
			switch {
			case err == nil:
				setAccount(c, account)
				c.Set(ContextSessionID, sessionID)
				c.Next()
				return
			case errors.Is(err, services.ErrAccountInactive):
				response.Abort(c, code.ErrAccountInactive)
				return
			case !errors.Is(err, services.ErrSessionNotFound):
				logger.Error("读取会话失败: %v", err)
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, code.ErrAuthRequired)
			return
		}

		tokenString := extractToken(authHeader)
		if tokenString == "" {
			response.Abort(c, code.ErrTokenInvalid)
			return
		}

		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			response.Abort(c, code.ErrTokenInvalid)
			return
		}

		account, err := accountService.GetAccountByID(ctx, claims.UserID)
		if err != nil {
			if !errors.Is(err, services.ErrAccountNotFound) {
				logger.Error("加载令牌账户失败: %v", err)
			}
			response.Abort(c, code.ErrTokenInvalid)
			return
		}
		if !account.IsActive {
			response.Abort(c, code.ErrAccountInactive)
			return
		}

		setAccount(c, account)
		c.Next()
	}
}

// RequireAdmin 要求当前账户是管理员，需在 Authenticate 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			response.Abort(c, code.ErrAuthRequired)
			return
		}
		if !account.IsAdmin {
			response.Abort(c, code.ErrPermissionDenied)
			return
		}
		c.Next()
	}
}

// CurrentAccount 返回认证中间件写入的账户
func CurrentAccount(c *gin.Context) (*models.Account, bool) {
	v, exists := c.Get(ContextAccount)
	if !exists {
		return nil, false
	}
	account, ok := v.(*models.Account)
	return account, ok && account != nil
}

func setAccount(c *gin.Context, account *models.Account) {
	c.Set(ContextUserID, account.ID)
	c.Set(ContextRole, account.Role())
	c.Set(ContextAccount, account)
}
