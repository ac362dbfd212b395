package models

import "time"

// Session 服务端会话，Redis 不可用时存放在数据库
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired 会话是否已过期
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
