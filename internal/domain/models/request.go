package models

// Request statuses
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

// Request 车主提交的维修请求
type Request struct {
	BaseModel
	UserID     uint   `gorm:"index;not null" json:"user_id"`
	MechanicID *uint  `gorm:"index" json:"mechanic_id"`
	ServiceID  uint   `gorm:"index;not null" json:"service_id"`
	CarMake    string `gorm:"type:varchar(50);not null" json:"car_make"`
	CarModel   string `gorm:"type:varchar(50);not null" json:"car_model"`
	CarYear    *int   `json:"car_year"`
	Address    string `gorm:"type:varchar(255);not null" json:"address"`
	Note       string `gorm:"type:text" json:"note"`
	Status     string `gorm:"type:varchar(20);not null;index" json:"status"`

	// Relations
	User     *Account  `gorm:"foreignKey:UserID" json:"-"`
	Mechanic *Mechanic `gorm:"foreignKey:MechanicID" json:"-"`
	Service  *Service  `gorm:"foreignKey:ServiceID" json:"-"`
}
