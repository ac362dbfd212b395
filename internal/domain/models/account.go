package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// unusablePasswordPrefix 标记没有可用密码的账户，bcrypt 哈希不会以它开头
const unusablePasswordPrefix = "!"

// Account is any participant of the platform: a car owner or a mechanic.
// Email is the login key.
type Account struct {
	BaseModel
	Username   *string   `gorm:"type:varchar(255);uniqueIndex" json:"username,omitempty"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Password   string    `gorm:"type:varchar(128);not null" json:"-"`
	FirstName  *string   `gorm:"type:varchar(30)" json:"first_name"`
	LastName   *string   `gorm:"type:varchar(30)" json:"last_name"`
	IsMechanic bool      `gorm:"not null" json:"is_mechanic"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	IsAdmin    bool      `gorm:"not null" json:"is_admin"`
	DateJoined time.Time `gorm:"not null" json:"date_joined"`

	// Relations
	Mechanic *Mechanic `gorm:"foreignKey:UserID" json:"mechanic,omitempty"`
}

// SetPassword 设置密码哈希，空密码会被标记为不可用
func (a *Account) SetPassword(raw string) error {
	if raw == "" {
		a.Password = unusablePasswordPrefix + uuid.NewString()
		return nil
	}
	hashed, err := HashPassword(raw)
	if err != nil {
		return err
	}
	a.Password = hashed
	return nil
}

// CheckPassword 比较密码和哈希值
func (a *Account) CheckPassword(raw string) bool {
	if !a.HasUsablePassword() || raw == "" {
		return false
	}
	return CheckPasswordHash(raw, a.Password)
}

// HasUsablePassword 是否设置了可用于登录的密码
func (a *Account) HasUsablePassword() bool {
	return a.Password != "" && !strings.HasPrefix(a.Password, unusablePasswordPrefix)
}

// Role 返回令牌和权限判断使用的角色名
func (a *Account) Role() string {
	switch {
	case a.IsAdmin:
		return RoleAdmin
	case a.IsMechanic:
		return RoleMechanic
	default:
		return RoleCarOwner
	}
}

// FullName 返回 "名 姓"
func (a *Account) FullName() string {
	return strings.TrimSpace(deref(a.FirstName) + " " + deref(a.LastName))
}

// Roles
const (
	RoleAdmin    = "admin"
	RoleMechanic = "mechanic"
	RoleCarOwner = "car_owner"
)

// HashPassword 使用 bcrypt 对密码进行哈希处理
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash 比较密码和哈希值
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lower-cases the domain part of an address and trims spaces.
// The local part is kept as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
