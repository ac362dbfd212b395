package controllers

import (
	"errors"

	"github.com/dongliang3571/kanic-server/internal/domain/forms"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// InterfaceBetaController 定义内测登记控制器接口
type InterfaceBetaController interface {
	SignUp()
	MechanicSignUp()
}

// BetaController 处理内测登记表单
type BetaController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBetaController 创建一个新的内测登记控制器
func NewBetaController(ctx *gin.Context, container *container.ServiceContainer) *BetaController {
	return &BetaController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleBetaFunc 返回一个处理内测登记的Gin处理函数
func HandleBetaFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBetaController(ctx, container)

		switch method {
		case "signUp":
			controller.SignUp()
		case "mechanicSignUp":
			controller.MechanicSignUp()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// formInvalid 返回每个字段的错误
func formInvalid(c *gin.Context, err error) bool {
	var fieldErrs forms.FieldErrors
	if errors.As(err, &fieldErrs) {
		response.Fail(c, code.ErrFormInvalid, fieldErrs)
		return true
	}
	return false
}

// SignUp 车主内测登记
// @Summary      Beta sign-up
// @Description  Accepts JSON or a submitted form; every invalid field is reported
// @Tags         Beta
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        request body forms.SignUpForm true "sign-up form"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /beta/signup [post]
func (c *BetaController) SignUp() {
	var form forms.SignUpForm
	if err := c.Ctx.ShouldBind(&form); err != nil {
		bindError(c.Ctx, err)
		return
	}
	if c.Ctx.ContentType() != binding.MIMEJSON {
		if car, ok := c.Ctx.GetPostForm("car"); ok {
			form.Car = car
		}
	}

	data, err := form.Clean()
	if err != nil {
		if !formInvalid(c.Ctx, err) {
			failWithError(c.Ctx, err)
		}
		return
	}

	betaService := c.Container.GetService("beta").(services.InterfaceBetaService)
	tester, err := betaService.SignUpTester(c.Ctx.Request.Context(), data)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, tester)
}

// MechanicSignUp 技师内测登记
// @Summary      Beta mechanic intake
// @Tags         Beta
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        request body forms.MechanicForm true "mechanic form"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /beta/mechanics [post]
func (c *BetaController) MechanicSignUp() {
	var form forms.MechanicForm
	if err := c.Ctx.ShouldBind(&form); err != nil {
		bindError(c.Ctx, err)
		return
	}

	data, err := form.Clean()
	if err != nil {
		if !formInvalid(c.Ctx, err) {
			failWithError(c.Ctx, err)
		}
		return
	}

	betaService := c.Container.GetService("beta").(services.InterfaceBetaService)
	mechanic, err := betaService.SignUpMechanic(c.Ctx.Request.Context(), data)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, mechanic)
}
