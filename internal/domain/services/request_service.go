package services

import (
	"context"
	"errors"

	"github.com/dongliang3571/kanic-server/internal/domain/models"

	"gorm.io/gorm"
)

// InterfaceRequestService 定义维修请求接口
type InterfaceRequestService interface {
	ListRequests(ctx context.Context, viewer *models.Account, status string, page models.PaginationQuery) ([]models.Request, int64, error)
	GetRequest(ctx context.Context, viewer *models.Account, id uint) (*models.Request, error)
	CreateRequest(ctx context.Context, owner *models.Account, params CreateRequestParams) (*models.Request, error)
}

// CreateRequestParams 创建维修请求的参数
type CreateRequestParams struct {
	ServiceID  uint
	MechanicID *uint
	CarMake    string
	CarModel   string
	CarYear    *int
	Address    string
	Note       string
}

// RequestService 维修请求服务
type RequestService struct {
	DB *gorm.DB
}

// NewRequestService 创建维修请求服务
func NewRequestService(db *gorm.DB) InterfaceRequestService {
	return &RequestService{DB: db}
}

// visibleTo restricts requests to the ones the viewer may see: admins see all,
// mechanics see the ones assigned to them and their own, everyone else only their own.
func visibleTo(viewer *models.Account) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case viewer.IsAdmin:
			return db
		case viewer.IsMechanic:
			return db.Where("requests.user_id = ? OR requests.mechanic_id IN (SELECT id FROM mechanics WHERE user_id = ?)",
				viewer.ID, viewer.ID)
		default:
			return db.Where("requests.user_id = ?", viewer.ID)
		}
	}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Mechanic").Preload("Mechanic.User").Preload("Service")
}

// 1 ListRequests 获取对当前账户可见的维修请求
func (s *RequestService) ListRequests(ctx context.Context, viewer *models.Account, status string, page models.PaginationQuery) ([]models.Request, int64, error) {
	page.Normalize()

	query := s.DB.WithContext(ctx).Model(&models.Request{}).Scopes(visibleTo(viewer))
	if status != "" {
		query = query.Where("requests.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Request
	err := query.Scopes(withRelations).
		Order("requests.id DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// 2 GetRequest 获取单个维修请求，不可见时返回不存在
func (s *RequestService) GetRequest(ctx context.Context, viewer *models.Account, id uint) (*models.Request, error) {
	var request models.Request
	err := s.DB.WithContext(ctx).
		Scopes(visibleTo(viewer), withRelations).
		Where("requests.id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// 3 CreateRequest 创建属于当前账户的维修请求
func (s *RequestService) CreateRequest(ctx context.Context, owner *models.Account, params CreateRequestParams) (*models.Request, error) {
	db := s.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Service{}).Where("id = ?", params.ServiceID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrServiceNotFound
	}

	if params.MechanicID != nil {
		if err := db.Model(&models.Mechanic{}).Where("id = ?", *params.MechanicID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrMechanicNotFound
		}
	}

	request := &models.Request{
		UserID:     owner.ID,
		MechanicID: params.MechanicID,
		ServiceID:  params.ServiceID,
		CarMake:    params.CarMake,
		CarModel:   params.CarModel,
		CarYear:    params.CarYear,
		Address:    params.Address,
		Note:       params.Note,
		Status:     models.RequestStatusPending,
	}
	if err := db.Create(request).Error; err != nil {
		return nil, err
	}

	if err := db.Scopes(withRelations).First(request, request.ID).Error; err != nil {
		return nil, err
	}
	return request, nil
}
