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

// ServicesPath 服务项目路由前缀，创建后按此前缀清除缓存
const ServicesPath = "/api-beta/services"

// InterfaceServiceController 定义服务项目控制器接口
type InterfaceServiceController interface {
	ListServices()
	GetService()
	CreateService()
}

// ServiceController 处理服务项目请求
type ServiceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
	Cache     *middleware.ResponseCache
}

// NewServiceController 创建一个新的服务项目控制器
func NewServiceController(ctx *gin.Context, container *container.ServiceContainer, cache *middleware.ResponseCache) *ServiceController {
	return &ServiceController{
		Ctx:       ctx,
		Container: container,
		Cache:     cache,
	}
}

// CreateServiceRequest 表示创建服务项目请求
type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Oil change"`
	Description string  `json:"description" example:"Synthetic oil and filter"`
	Price       float64 `json:"price" binding:"gte=0" example:"39.99"`
}

// HandleServiceFunc 返回一个处理服务项目请求的Gin处理函数
func HandleServiceFunc(container *container.ServiceContainer, cache *middleware.ResponseCache, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewServiceController(ctx, container, cache)

		switch method {
		case "listServices":
			controller.ListServices()
		case "getService":
			controller.GetService()
		case "createService":
			controller.CreateService()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// ListServices 获取服务项目列表
// @Summary      List services
// @Tags         Service
// @Produce      json
// @Param        page query int false "page, default 1"
// @Param        page_size query int false "page size, default 10"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=ListPayload{data=[]ServicePayload}}
// @Failure      401  {object}  ErrorResponse
// @Router       /api-beta/services [get]
func (c *ServiceController) ListServices() {
	page, ok := bindPage(c.Ctx)
	if !ok {
		return
	}

	catalogService := c.Container.GetService("catalog").(services.InterfaceCatalogService)
	list, total, err := catalogService.ListServices(c.Ctx.Request.Context(), page)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	payload := make([]*ServicePayload, 0, len(list))
	for i := range list {
		payload = append(payload, newServicePayload(&list[i]))
	}
	response.Success(c.Ctx, newListPayload(payload, total, page))
}

// GetService 获取服务项目详情
// @Summary      Retrieve service
// @Tags         Service
// @Produce      json
// @Param        id path int true "service id"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=ServicePayload}
// @Failure      404  {object}  ErrorResponse
// @Router       /api-beta/services/{id} [get]
func (c *ServiceController) GetService() {
	id, ok := paramID(c.Ctx)
	if !ok {
		return
	}

	catalogService := c.Container.GetService("catalog").(services.InterfaceCatalogService)
	service, err := catalogService.GetService(c.Ctx.Request.Context(), id)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, newServicePayload(service))
}

// CreateService 创建服务项目，仅管理员
// @Summary      Create service
// @Tags         Service
// @Accept       json
// @Produce      json
// @Param        request body CreateServiceRequest true "service"
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=ServicePayload}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /api-beta/services [post]
func (c *ServiceController) CreateService() {
	var req CreateServiceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		bindError(c.Ctx, err)
		return
	}

	service := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	catalogService := c.Container.GetService("catalog").(services.InterfaceCatalogService)
	if err := catalogService.CreateService(c.Ctx.Request.Context(), service); err != nil {
		failWithError(c.Ctx, err)
		return
	}

	if c.Cache != nil {
		c.Cache.PurgePrefix(ServicesPath)
	}
	response.Created(c.Ctx, newServicePayload(service))
}
