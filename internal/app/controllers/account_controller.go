package controllers

import (
	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAccountController 定义账户控制器接口
type InterfaceAccountController interface {
	ListUsers()
	CreateUser()
	GetUser()
}

// AccountController 处理账户相关的请求
type AccountController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAccountController 创建一个新的账户控制器
func NewAccountController(ctx *gin.Context, container *container.ServiceContainer) *AccountController {
	return &AccountController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateUserRequest 表示创建账户请求，邮箱和电话的缺失由账户服务报告
type CreateUserRequest struct {
	Email      string `json:"email" binding:"omitempty,email,max=255" example:"user@example.com"`
	Phone      string `json:"phone" binding:"max=20" example:"7185550100"`
	Password   string `json:"password" example:"secret"`
	IsMechanic bool   `json:"is_mechanic" example:"false"`
	Username   string `json:"username" binding:"max=255" example:"wrench"`
	FirstName  string `json:"first_name" binding:"max=30" example:"John"`
	LastName   string `json:"last_name" binding:"max=30" example:"Doe"`
}

// HandleAccountFunc 返回一个处理账户请求的Gin处理函数
func HandleAccountFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAccountController(ctx, container)

		switch method {
		case "listUsers":
			controller.ListUsers()
		case "createUser":
			controller.CreateUser()
		case "getUser":
			controller.GetUser()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// ListUsers 获取账户列表，不包含管理员
// @Summary      List users
// @Description  Non-admin accounts, optionally only mechanics or only car owners
// @Tags         User
// @Produce      json
// @Param        role query string false "mechanic or car_owner"
// @Param        search query string false "email, phone or username fragment"
// @Param        page query int false "page, default 1"
// @Param        page_size query int false "page size, default 10"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=ListPayload{data=[]UserPayload}}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api-beta/users [get]
func (c *AccountController) ListUsers() {
	page, ok := bindPage(c.Ctx)
	if !ok {
		return
	}

	filter := services.AccountFilter{
		Role:   c.Ctx.Query("role"),
		Search: c.Ctx.Query("search"),
	}
	switch filter.Role {
	case "", models.RoleMechanic, models.RoleCarOwner:
	default:
		response.ParamError(c.Ctx, "role must be mechanic or car_owner")
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	accounts, total, err := accountService.ListAccounts(c.Ctx.Request.Context(), filter, page)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	users := make([]*UserPayload, 0, len(accounts))
	for i := range accounts {
		users = append(users, newUserPayload(&accounts[i]))
	}
	response.Success(c.Ctx, newListPayload(users, total, page))
}

// CreateUser 创建账户，技师账户会自动创建技师档案
// @Summary      Create user
// @Description  Public sign-up; mechanic accounts get their mechanic profile in the same transaction
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "account"
// @Success      201  {object}  response.Response{data=UserPayload}
// @Failure      400  {object}  ErrorResponse
// @Router       /api-beta/users [post]
func (c *AccountController) CreateUser() {
	var req CreateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		bindError(c.Ctx, err)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	account, err := accountService.CreateUser(c.Ctx.Request.Context(), services.CreateUserParams{
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		IsMechanic: req.IsMechanic,
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, newUserPayload(account))
}

// GetUser 根据用户名获取账户
// @Summary      Retrieve user
// @Description  Lookup by username; accounts without one are found by email
// @Tags         User
// @Produce      json
// @Param        username path string true "username or email"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=UserPayload}
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api-beta/users/{username} [get]
func (c *AccountController) GetUser() {
	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	account, err := accountService.GetAccountByUsername(c.Ctx.Request.Context(), c.Ctx.Param("username"))
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	if account.IsAdmin {
		response.NotFound(c.Ctx, code.ErrAccountNotFound)
		return
	}

	response.Success(c.Ctx, newUserPayload(account))
}
