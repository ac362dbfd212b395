package services

import (
	"context"

	"github.com/dongliang3571/kanic-server/internal/domain/forms"
	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceBetaService 定义内测登记接口
type InterfaceBetaService interface {
	SignUpTester(ctx context.Context, data forms.SignUpData) (*models.Tester, error)
	SignUpMechanic(ctx context.Context, data forms.MechanicData) (*models.BetaMechanic, error)
}

// BetaService 内测登记服务
type BetaService struct {
	DB *gorm.DB
}

// NewBetaService 创建内测登记服务
func NewBetaService(db *gorm.DB) InterfaceBetaService {
	return &BetaService{DB: db}
}

// 1 SignUpTester 保存车主登记
func (s *BetaService) SignUpTester(ctx context.Context, data forms.SignUpData) (*models.Tester, error) {
	tester := &models.Tester{
		Name:    data.Name,
		Email:   data.Email,
		Phone:   data.Phone,
		ZipCode: data.ZipCode,
		Car:     data.Car,
	}
	if err := s.DB.WithContext(ctx).Create(tester).Error; err != nil {
		return nil, err
	}
	logger.Info("内测车主登记: %s", tester.Email)
	return tester, nil
}

// 2 SignUpMechanic 保存技师登记
func (s *BetaService) SignUpMechanic(ctx context.Context, data forms.MechanicData) (*models.BetaMechanic, error) {
	mechanic := &models.BetaMechanic{
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Email:         data.Email,
		Phone:         data.Phone,
		IsCertified:   data.IsCertified,
		Certification: data.Certification,
		WorkType:      data.WorkType,
	}
	if err := s.DB.WithContext(ctx).Create(mechanic).Error; err != nil {
		return nil, err
	}
	logger.Info("内测技师登记: %s (%s)", mechanic.Email, forms.WorkTypeLabel(mechanic.WorkType))
	return mechanic, nil
}
