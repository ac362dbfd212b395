package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "success",
	ErrUnknown:          "unknown error",
	ErrBind:             "invalid request parameters",
	ErrValidation:       "request validation failed",
	ErrTokenInvalid:     "invalid authentication token",
	ErrTooManyRequests:  "too many requests, please retry later",
	ErrAuthRequired:     "authentication credentials were not provided",
	ErrPermissionDenied: "you do not have permission to perform this action",

	// 账户相关错误码
	ErrAccountNotFound:    "account not found",
	ErrEmailRequired:      "users must have an email address",
	ErrPhoneRequired:      "users must have a phone number",
	ErrEmailExists:        "an account with this email already exists",
	ErrPhoneExists:        "an account with this phone already exists",
	ErrUsernameExists:     "an account with this username already exists",
	ErrCredentialsInvalid: "unable to log in with provided credentials",
	ErrAccountInactive:    "account is disabled",
	ErrAccountExists:      "account already exists",

	// 服务项目相关错误码
	ErrServiceNotFound: "service not found",
	ErrServiceExists:   "a service with this name already exists",

	// 维修请求相关错误码
	ErrRequestNotFound:  "request not found",
	ErrMechanicNotFound: "mechanic not found",

	// 表单相关错误码
	ErrFormInvalid: "form is invalid",

	// 数据库相关错误码
	ErrDatabase:       "database error",
	ErrRecordNotFound: "record not found",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrTooManyRequests:  StatusTooManyRequests,
	ErrAuthRequired:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,

	// 账户相关错误码
	ErrAccountNotFound:    StatusNotFound,
	ErrEmailRequired:      StatusBadRequest,
	ErrPhoneRequired:      StatusBadRequest,
	ErrEmailExists:        StatusBadRequest,
	ErrPhoneExists:        StatusBadRequest,
	ErrUsernameExists:     StatusBadRequest,
	ErrCredentialsInvalid: StatusUnauthorized,
	ErrAccountInactive:    StatusUnauthorized,
	ErrAccountExists:      StatusBadRequest,

	// 服务项目相关错误码
	ErrServiceNotFound: StatusNotFound,
	ErrServiceExists:   StatusBadRequest,

	// 维修请求相关错误码
	ErrRequestNotFound:  StatusNotFound,
	ErrMechanicNotFound: StatusBadRequest,

	// 表单相关错误码
	ErrFormInvalid: StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
