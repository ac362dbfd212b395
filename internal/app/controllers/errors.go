package controllers

import (
	"errors"
	"strconv"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"
	"github.com/dongliang3571/kanic-server/pkg/logger"

	"github.com/gin-gonic/gin"
)

// 业务错误到错误码的映射
var errorCodes = []struct {
	err  error
	code int
}{
	{services.ErrEmailRequired, code.ErrEmailRequired},
	{services.ErrPhoneRequired, code.ErrPhoneRequired},
	{services.ErrEmailExists, code.ErrEmailExists},
	{services.ErrPhoneExists, code.ErrPhoneExists},
	{services.ErrUsernameExists, code.ErrUsernameExists},
	{services.ErrAccountExists, code.ErrAccountExists},
	{services.ErrAccountNotFound, code.ErrAccountNotFound},
	{services.ErrInvalidCredentials, code.ErrCredentialsInvalid},
	{services.ErrAccountInactive, code.ErrAccountInactive},
	{services.ErrTokenInvalid, code.ErrTokenInvalid},
	{services.ErrServiceNotFound, code.ErrServiceNotFound},
	{services.ErrServiceExists, code.ErrServiceExists},
	{services.ErrRequestNotFound, code.ErrRequestNotFound},
	{services.ErrMechanicNotFound, code.ErrMechanicNotFound},
}

// failWithError 按业务错误响应，未知错误记录日志后返回数据库错误
func failWithError(c *gin.Context, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			response.Fail(c, e.code, nil)
			return
		}
	}
	logger.Error("%s %s 失败: %v", c.Request.Method, c.FullPath(), err)
	response.Fail(c, code.ErrDatabase, nil)
}

// bindPage 读取分页参数
func bindPage(c *gin.Context) (models.PaginationQuery, bool) {
	var page models.PaginationQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.ParamError(c, "invalid pagination parameters")
		return page, false
	}
	page.Normalize()
	return page, true
}

// paramID 读取路径中的ID
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ParamError(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// bindError 请求参数绑定失败
func bindError(c *gin.Context, err error) {
	response.FailWithMessage(c, code.ErrBind, code.GetMessage(code.ErrBind), gin.H{"detail": err.Error()})
}
