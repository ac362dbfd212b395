package controllers

import (
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
)

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"101006"`
	Message string      `json:"message" example:"unable to log in with provided credentials"`
	Data    interface{} `json:"data"`
}

// MechanicPayload 技师档案
type MechanicPayload struct {
	MechanicID       uint    `json:"mechanic_id" example:"1"`
	YearOfExperience *int    `json:"year_of_experience" example:"5"`
	Address          *string `json:"address" example:"12 Queens Blvd"`
}

// UserPayload 账户信息，技师账户带有技师档案
type UserPayload struct {
	ID         uint             `json:"id" example:"1"`
	Username   *string          `json:"username" example:"wrench"`
	Email      string           `json:"email" example:"user@example.com"`
	Phone      string           `json:"phone" example:"7185550100"`
	FirstName  *string          `json:"first_name" example:"John"`
	LastName   *string          `json:"last_name" example:"Doe"`
	IsMechanic bool             `json:"is_mechanic" example:"false"`
	IsActive   bool             `json:"is_active" example:"true"`
	DateJoined time.Time        `json:"date_joined"`
	Mechanic   *MechanicPayload `json:"mechanic,omitempty"`
}

// MechanicUserPayload 请求中指派的技师，带账户信息
type MechanicUserPayload struct {
	MechanicPayload
	User *UserPayload `json:"user,omitempty"`
}

// ServicePayload 服务项目
type ServicePayload struct {
	ID          uint    `json:"id" example:"1"`
	Name        string  `json:"name" example:"Oil change"`
	Description string  `json:"description" example:"Synthetic oil and filter"`
	Price       float64 `json:"price" example:"39.99"`
}

// RequestPayload 维修请求
type RequestPayload struct {
	ID        uint                 `json:"id" example:"1"`
	User      *UserPayload         `json:"user"`
	Mechanic  *MechanicUserPayload `json:"mechanic"`
	Service   *ServicePayload      `json:"service"`
	CarMake   string               `json:"car_make" example:"Honda"`
	CarModel  string               `json:"car_model" example:"Civic"`
	CarYear   *int                 `json:"car_year" example:"2015"`
	Address   string               `json:"address" example:"1 Main St"`
	Note      string               `json:"note" example:"squeaky brakes"`
	Status    string               `json:"status" example:"pending"`
	CreatedAt time.Time            `json:"created_at"`
}

// ListPayload 分页列表
type ListPayload struct {
	models.PaginationResult
	Data interface{} `json:"data"`
}

// TokenPayload 获取令牌的结果
type TokenPayload struct {
	Token     string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *UserPayload `json:"user"`
}

func newMechanicPayload(m *models.Mechanic) *MechanicPayload {
	if m == nil {
		return nil
	}
	return &MechanicPayload{
		MechanicID:       m.ID,
		YearOfExperience: m.YearOfExperience,
		Address:          m.Address,
	}
}

func newUserPayload(a *models.Account) *UserPayload {
	if a == nil {
		return nil
	}
	return &UserPayload{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Phone:      a.Phone,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		IsMechanic: a.IsMechanic,
		IsActive:   a.IsActive,
		DateJoined: a.DateJoined,
		Mechanic:   newMechanicPayload(a.Mechanic),
	}
}

func newServicePayload(s *models.Service) *ServicePayload {
	if s == nil {
		return nil
	}
	return &ServicePayload{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
	}
}

func newRequestPayload(r *models.Request) *RequestPayload {
	payload := &RequestPayload{
		ID:        r.ID,
		User:      newUserPayload(r.User),
		Service:   newServicePayload(r.Service),
		CarMake:   r.CarMake,
		CarModel:  r.CarModel,
		CarYear:   r.CarYear,
		Address:   r.Address,
		Note:      r.Note,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.Mechanic != nil {
		payload.Mechanic = &MechanicUserPayload{
			MechanicPayload: *newMechanicPayload(r.Mechanic),
			User:            newUserPayload(r.Mechanic.User),
		}
	}
	return payload
}

func newListPayload(data interface{}, total int64, page models.PaginationQuery) ListPayload {
	return ListPayload{
		PaginationResult: models.NewPaginationResult(total, page),
		Data:             data,
	}
}
