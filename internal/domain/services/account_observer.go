package services

import (
	"github.com/dongliang3571/kanic-server/internal/domain/models"

	"gorm.io/gorm"
)

// AccountObserver is notified inside the persisting transaction every time an
// account is saved. created is true only for the first insert.
type AccountObserver interface {
	AccountSaved(tx *gorm.DB, account *models.Account, created bool) error
}

// AccountObserverFunc 函数形式的观察者
type AccountObserverFunc func(tx *gorm.DB, account *models.Account, created bool) error

// AccountSaved 调用函数本身
func (f AccountObserverFunc) AccountSaved(tx *gorm.DB, account *models.Account, created bool) error {
	return f(tx, account, created)
}

// MechanicProfileObserver 为新建的技师账户创建技师档案
type MechanicProfileObserver struct{}

// NewMechanicProfileObserver 创建技师档案观察者
func NewMechanicProfileObserver() *MechanicProfileObserver {
	return &MechanicProfileObserver{}
}

// AccountSaved gets or creates the mechanic profile of a newly inserted
// mechanic account. Updates and non-mechanic accounts are ignored.
func (o *MechanicProfileObserver) AccountSaved(tx *gorm.DB, account *models.Account, created bool) error {
	if !created || !account.IsMechanic {
		return nil
	}

	var profile models.Mechanic
	err := tx.Where("user_id = ?", account.ID).
		Attrs(models.Mechanic{UserID: account.ID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return err
	}

	account.Mechanic = &profile
	return nil
}
