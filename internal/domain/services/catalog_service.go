package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dongliang3571/kanic-server/internal/domain/models"

	"gorm.io/gorm"
)

// InterfaceCatalogService 定义服务项目接口
type InterfaceCatalogService interface {
	ListServices(ctx context.Context, page models.PaginationQuery) ([]models.Service, int64, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
}

// CatalogService 服务项目
type CatalogService struct {
	DB *gorm.DB
}

// NewCatalogService 创建服务项目服务
func NewCatalogService(db *gorm.DB) InterfaceCatalogService {
	return &CatalogService{DB: db}
}

// 1 ListServices 获取服务项目列表
func (s *CatalogService) ListServices(ctx context.Context, page models.PaginationQuery) ([]models.Service, int64, error) {
	page.Normalize()

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Service{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Service
	err := s.DB.WithContext(ctx).
		Order("name").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// 2 GetService 根据ID获取服务项目
func (s *CatalogService) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := s.DB.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

// 3 CreateService 创建服务项目，名称唯一
func (s *CatalogService) CreateService(ctx context.Context, service *models.Service) error {
	service.Name = strings.TrimSpace(service.Name)

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Service{}).Where("name = ?", service.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrServiceExists
	}

	if err := s.DB.WithContext(ctx).Create(service).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrServiceExists
		}
		return err
	}
	return nil
}
