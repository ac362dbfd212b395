package controllers

import (
	"net/http"
	"strings"

	"github.com/dongliang3571/kanic-server/internal/app/middleware"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	ObtainToken()
	Login()
	Logout()
}

// AuthController 处理身份验证请求
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// CredentialsRequest 表示登录请求，username 与 email 二选一
type CredentialsRequest struct {
	Email    string `json:"email" form:"email" example:"user@example.com"`
	Username string `json:"username" form:"username" example:"user@example.com"`
	Password string `json:"password" form:"password" binding:"required" example:"secret"`
}

func (r CredentialsRequest) login() string {
	if email := strings.TrimSpace(r.Email); email != "" {
		return email
	}
	return strings.TrimSpace(r.Username)
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "obtainToken":
			controller.ObtainToken()
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *AuthController) bindCredentials() (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.Ctx.ShouldBind(&req); err != nil {
		bindError(c.Ctx, err)
		return req, false
	}
	if req.login() == "" {
		response.ParamError(c.Ctx, "email is required")
		return req, false
	}
	return req, true
}

// ObtainToken 使用邮箱密码获取JWT令牌
// @Summary      Obtain JWT
// @Description  Exchange email and password for a signed token; the response also carries the user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "credentials"
// @Success      200  {object}  response.Response{data=TokenPayload}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api-beta/auth/token [post]
func (c *AuthController) ObtainToken() {
	req, ok := c.bindCredentials()
	if !ok {
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.ObtainToken(c.Ctx.Request.Context(), req.login(), req.Password)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, TokenPayload{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      newUserPayload(result.Account),
	})
}

// Login 创建服务端会话
// @Summary      Session login
// @Description  Authenticate with email and password and set the session cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "credentials"
// @Success      200  {object}  response.Response{data=UserPayload}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/auth/login [post]
func (c *AuthController) Login() {
	req, ok := c.bindCredentials()
	if !ok {
		return
	}

	sessionService := c.Container.GetService("session").(services.InterfaceSessionService)
	session, account, err := sessionService.Login(c.Ctx.Request.Context(), req.login(), req.Password)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	cfg := c.Container.GetConfig()
	c.Ctx.SetSameSite(http.SameSiteLaxMode)
	c.Ctx.SetCookie(cfg.SessionCookieName, session.ID, int(cfg.SessionTTL.Seconds()), "/", "", cfg.SessionCookieSecure, true)
	response.Success(c.Ctx, newUserPayload(account))
}

// Logout 删除当前会话
// @Summary      Session logout
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  ErrorResponse
// @Router       /api/auth/logout [post]
func (c *AuthController) Logout() {
	cfg := c.Container.GetConfig()
	sessionID := c.Ctx.GetString(middleware.ContextSessionID)
	if sessionID == "" {
		sessionID, _ = c.Ctx.Cookie(cfg.SessionCookieName)
	}

	sessionService := c.Container.GetService("session").(services.InterfaceSessionService)
	if err := sessionService.Logout(c.Ctx.Request.Context(), sessionID); err != nil {
		failWithError(c.Ctx, err)
		return
	}

	c.Ctx.SetSameSite(http.SameSiteLaxMode)
	c.Ctx.SetCookie(cfg.SessionCookieName, "", -1, "/", "", cfg.SessionCookieSecure, true)
	response.Success(c.Ctx, nil)
}
