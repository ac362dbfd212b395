package controllers

import (
	"github.com/dongliang3571/kanic-server/internal/app/middleware"
	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceRequestController 定义维修请求控制器接口
type InterfaceRequestController interface {
	ListRequests()
	GetRequest()
	CreateRequest()
}

// RequestController 处理维修请求
type RequestController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRequestController 创建一个新的维修请求控制器
func NewRequestController(ctx *gin.Context, container *container.ServiceContainer) *RequestController {
	return &RequestController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateRequestRequest 表示创建维修请求
type CreateRequestRequest struct {
	ServiceID  uint   `json:"service_id" binding:"required" example:"1"`
	MechanicID *uint  `json:"mechanic_id" example:"1"`
	CarMake    string `json:"car_make" binding:"required,max=50" example:"Honda"`
	CarModel   string `json:"car_model" binding:"required,max=50" example:"Civic"`
	CarYear    *int   `json:"car_year" binding:"omitempty,gte=1900,lte=2100" example:"2015"`
	Address    string `json:"address" binding:"required,max=255" example:"1 Main St"`
	Note       string `json:"note" example:"squeaky brakes"`
}

// HandleRequestFunc 返回一个处理维修请求的Gin处理函数
func HandleRequestFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRequestController(ctx, container)

		switch method {
		case "listRequests":
			controller.ListRequests()
		case "getRequest":
			controller.GetRequest()
		case "createRequest":
			controller.CreateRequest()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *RequestController) viewer() (*models.Account, bool) {
	account, ok := middleware.CurrentAccount(c.Ctx)
	if !ok {
		response.Fail(c.Ctx, code.ErrAuthRequired, nil)
	}
	return account, ok
}

// ListRequests 获取当前账户可见的维修请求
// @Summary      List requests
// @Description  Admins see every request, mechanics the ones assigned to them and their own, others their own
// @Tags         Request
// @Produce      json
// @Param        status query string false "pending, accepted, completed or cancelled"
// @Param        page query int false "page, default 1"
// @Param        page_size query int false "page size, default 10"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=ListPayload{data=[]RequestPayload}}
// @Failure      401  {object}  ErrorResponse
// @Router       /api-beta/requests [get]
func (c *RequestController) ListRequests() {
	viewer, ok := c.viewer()
	if !ok {
		return
	}
	page, ok := bindPage(c.Ctx)
	if !ok {
		return
	}

	status := c.Ctx.Query("status")
	switch status {
	case "", models.RequestStatusPending, models.RequestStatusAccepted, models.RequestStatusCompleted, models.RequestStatusCancelled:
	default:
		response.ParamError(c.Ctx, "invalid status")
		return
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	list, total, err := requestService.ListRequests(c.Ctx.Request.Context(), viewer, status, page)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	payload := make([]*RequestPayload, 0, len(list))
	for i := range list {
		payload = append(payload, newRequestPayload(&list[i]))
	}
	response.Success(c.Ctx, newListPayload(payload, total, page))
}

// GetRequest 获取维修请求详情
// @Summary      Retrieve request
// @Tags         Request
// @Produce      json
// @Param        id path int true "request id"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=RequestPayload}
// @Failure      404  {object}  ErrorResponse
// @Router       /api-beta/requests/{id} [get]
func (c *RequestController) GetRequest() {
	viewer, ok := c.viewer()
	if !ok {
		return
	}
	id, ok := paramID(c.Ctx)
	if !ok {
		return
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	request, err := requestService.GetRequest(c.Ctx.Request.Context(), viewer, id)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, newRequestPayload(request))
}

// CreateRequest 创建属于当前账户的维修请求
// @Summary      Create request
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        request body CreateRequestRequest true "request"
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=RequestPayload}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api-beta/requests [post]
func (c *RequestController) CreateRequest() {
	owner, ok := c.viewer()
	if !ok {
		return
	}

	var req CreateRequestRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		bindError(c.Ctx, err)
		return
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	request, err := requestService.CreateRequest(c.Ctx.Request.Context(), owner, services.CreateRequestParams{
		ServiceID:  req.ServiceID,
		MechanicID: req.MechanicID,
		CarMake:    req.CarMake,
		CarModel:   req.CarModel,
		CarYear:    req.CarYear,
		Address:    req.Address,
		Note:       req.Note,
	})
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, newRequestPayload(request))
}
