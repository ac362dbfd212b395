package services

import (
	"context"
	"errors"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStore 会话存储
type SessionStore interface {
	Create(ctx context.Context, accountID uint, ttl time.Duration) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// DBSessionStore 基于数据库的会话存储
type DBSessionStore struct {
	DB *gorm.DB
}

// NewDBSessionStore 创建数据库会话存储
func NewDBSessionStore(db *gorm.DB) *DBSessionStore {
	return &DBSessionStore{DB: db}
}

// Create 创建会话
func (s *DBSessionStore) Create(ctx context.Context, accountID uint, ttl time.Duration) (*models.Session, error) {
	session := newSession(accountID, ttl)
	if err := s.DB.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Get 获取未过期的会话，过期会话会被删除
func (s *DBSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete 删除会话
func (s *DBSessionStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

// RedisSessionStore 基于 Redis 的会话存储，过期由 Redis 负责
type RedisSessionStore struct {
	Redis InterfaceRedisService
}

// NewRedisSessionStore 创建 Redis 会话存储
func NewRedisSessionStore(redisService InterfaceRedisService) *RedisSessionStore {
	return &RedisSessionStore{Redis: redisService}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create 创建会话
func (s *RedisSessionStore) Create(ctx context.Context, accountID uint, ttl time.Duration) (*models.Session, error) {
	session := newSession(accountID, ttl)
	if err := s.Redis.Set(ctx, sessionKey(session.ID), session, ttl); err != nil {
		return nil, err
	}
	return session, nil
}

// Get 获取会话
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.Redis.Get(ctx, sessionKey(id), &session); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete 删除会话
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.Redis.Delete(ctx, sessionKey(id))
}

func newSession(accountID uint, ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// InterfaceSessionService 定义会话服务接口
type InterfaceSessionService interface {
	Login(ctx context.Context, email, password string) (*models.Session, *models.Account, error)
	Resolve(ctx context.Context, sessionID string) (*models.Account, error)
	Logout(ctx context.Context, sessionID string) error
}

// SessionService 会话认证服务
type SessionService struct {
	Store    SessionStore
	Accounts InterfaceAccountService
	TTL      time.Duration
}

// NewSessionService 创建会话服务
func NewSessionService(store SessionStore, accounts InterfaceAccountService, cfg *config.Config) InterfaceSessionService {
	return &SessionService{
		Store:    store,
		Accounts: accounts,
		TTL:      cfg.SessionTTL,
	}
}

// 1 Login 校验邮箱密码并创建会话
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Session, *models.Account, error) {
	account, err := s.Accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.Store.Create(ctx, account.ID, s.TTL)
	if err != nil {
		return nil, nil, err
	}
	return session, account, nil
}

// 2 Resolve 返回会话所属的有效账户
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*models.Account, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	account, err := s.Accounts.GetAccountByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			_ = s.Store.Delete(ctx, sessionID)
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return account, nil
}

// 3 Logout 删除会话
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Store.Delete(ctx, sessionID)
}
