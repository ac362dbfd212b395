package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusCreated - 201: 已创建.
	StatusCreated = 201
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrAuthRequired - 401: 缺少认证信息.
	ErrAuthRequired
	// ErrPermissionDenied - 403: 权限不足.
	ErrPermissionDenied
)

// 账户相关错误码 (101xxx).
const (
	// ErrAccountNotFound - 404: 账户不存在.
	ErrAccountNotFound int = iota + 101000
	// ErrEmailRequired - 400: 缺少邮箱.
	ErrEmailRequired
	// ErrPhoneRequired - 400: 缺少电话.
	ErrPhoneRequired
	// ErrEmailExists - 400: 邮箱已被使用.
	ErrEmailExists
	// ErrPhoneExists - 400: 电话已被使用.
	ErrPhoneExists
	// ErrUsernameExists - 400: 用户名已被使用.
	ErrUsernameExists
	// ErrCredentialsInvalid - 401: 邮箱或密码错误.
	ErrCredentialsInvalid
	// ErrAccountInactive - 401: 账户已停用.
	ErrAccountInactive
	// ErrAccountExists - 400: 账户违反唯一约束.
	ErrAccountExists
)

// 服务项目相关错误码 (102xxx).
const (
	// ErrServiceNotFound - 404: 服务项目不存在.
	ErrServiceNotFound int = iota + 102000
	// ErrServiceExists - 400: 服务项目已存在.
	ErrServiceExists
)

// 维修请求相关错误码 (103xxx).
const (
	// ErrRequestNotFound - 404: 维修请求不存在.
	ErrRequestNotFound int = iota + 103000
	// ErrMechanicNotFound - 400: 指定的技师不存在.
	ErrMechanicNotFound
)

// 表单相关错误码 (104xxx).
const (
	// ErrFormInvalid - 400: 表单校验失败.
	ErrFormInvalid int = iota + 104000
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
