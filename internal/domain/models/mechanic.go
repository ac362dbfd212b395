package models

// Mechanic 技师档案，与账户一对一
type Mechanic struct {
	ID               uint    `gorm:"primaryKey" json:"mechanic_id"`
	UserID           uint    `gorm:"uniqueIndex;not null" json:"user_id"` // 一个账户最多一个档案
	YearOfExperience *int    `json:"year_of_experience"`
	Address          *string `gorm:"type:varchar(100)" json:"address"`

	User *Account `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
