package forms

import (
	"strings"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
)

// MechanicForm 技师内测登记表单
type MechanicForm struct {
	FirstName     string `json:"first_name" form:"first_name" validate:"required,max=30"`
	LastName      string `json:"last_name" form:"last_name" validate:"required,max=30"`
	Email         string `json:"email" form:"email" validate:"required,max=255"`
	Phone         string `json:"phone" form:"phone" validate:"omitempty,max=20"`
	IsCertified   string `json:"is_certified" form:"is_certified" validate:"required,oneof=True False"`
	Certification string `json:"certification" form:"certification" validate:"omitempty,max=255"`
	WorkType      string `json:"work_type" form:"work_type" validate:"required,oneof=FT PT"`
}

// MechanicData 校验通过后的数据
type MechanicData struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	IsCertified   bool   `json:"is_certified"`
	Certification string `json:"certification"`
	WorkType      string `json:"work_type"`
}

// Clean 只检查字段是否存在和选项是否合法
func (f MechanicForm) Clean() (MechanicData, error) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.IsCertified = strings.TrimSpace(f.IsCertified)
	f.Certification = strings.TrimSpace(f.Certification)
	f.WorkType = strings.TrimSpace(f.WorkType)

	if err := validateStruct(f).orNil(); err != nil {
		return MechanicData{}, err
	}

	return MechanicData{
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		Email:         f.Email,
		Phone:         f.Phone,
		IsCertified:   f.IsCertified == "True",
		Certification: f.Certification,
		WorkType:      f.WorkType,
	}, nil
}

// WorkTypeLabel 返回工作类型的显示名称
func WorkTypeLabel(workType string) string {
	switch workType {
	case models.WorkTypeFullTime:
		return "Full Time"
	case models.WorkTypePartTime:
		return "Part Time"
	default:
		return ""
	}
}
