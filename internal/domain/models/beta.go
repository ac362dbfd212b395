package models

// Tester 内测阶段登记的车主
type Tester struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Email   string `gorm:"type:varchar(255);not null" json:"email"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	ZipCode string `gorm:"type:varchar(10);not null" json:"zip_code"`
	Car     bool   `gorm:"not null" json:"car"`
}

// Work types
const (
	WorkTypeFullTime = "FT"
	WorkTypePartTime = "PT"
)

// BetaMechanic 内测阶段登记的技师
type BetaMechanic struct {
	BaseModel
	FirstName     string `gorm:"type:varchar(30);not null" json:"first_name"`
	LastName      string `gorm:"type:varchar(30);not null" json:"last_name"`
	Email         string `gorm:"type:varchar(255);not null" json:"email"`
	Phone         string `gorm:"type:varchar(20)" json:"phone"`
	IsCertified   bool   `gorm:"not null" json:"is_certified"`
	Certification string `gorm:"type:varchar(255)" json:"certification"`
	WorkType      string `gorm:"type:varchar(2);not null" json:"work_type"`
}
