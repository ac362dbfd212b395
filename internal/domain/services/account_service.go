package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	"github.com/dongliang3571/kanic-server/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InterfaceAccountService 定义账户服务接口
type InterfaceAccountService interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*models.Account, error)
	CreateSuperuser(ctx context.Context, email, phone, password string) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id uint) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	ListAccounts(ctx context.Context, filter AccountFilter, page models.PaginationQuery) ([]models.Account, int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	EnsureAdminExists(ctx context.Context) (bool, error)
}

// CreateUserParams 创建账户的参数
type CreateUserParams struct {
	Email      string
	Phone      string
	Password   string
	IsMechanic bool
	Username   string
	FirstName  string
	LastName   string
}

// AccountFilter 账户列表过滤条件
type AccountFilter struct {
	// Role is one of models.RoleMechanic, models.RoleCarOwner or empty for both.
	Role         string
	IncludeAdmin bool
	Search       string
}

// AccountService 账户服务
type AccountService struct {
	DB        *gorm.DB
	Config    *config.Config
	Events    InterfaceEventService
	observers []AccountObserver
}

// NewAccountService 创建账户服务，observers 按顺序在保存账户的事务中被调用
func NewAccountService(db *gorm.DB, cfg *config.Config, events InterfaceEventService, observers ...AccountObserver) InterfaceAccountService {
	return &AccountService{
		DB:        db,
		Config:    cfg,
		Events:    events,
		observers: observers,
	}
}

// 1 CreateUser 创建账户并触发创建钩子
func (s *AccountService) CreateUser(ctx context.Context, params CreateUserParams) (*models.Account, error) {
	email := strings.TrimSpace(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	phone := strings.TrimSpace(params.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	account := &models.Account{
		Email:      models.NormalizeEmail(email),
		Phone:      phone,
		IsMechanic: params.IsMechanic,
		IsActive:   true,
		DateJoined: time.Now(),
		Username:   optional(params.Username),
		FirstName:  optional(params.FirstName),
		LastName:   optional(params.LastName),
	}
	if err := account.SetPassword(params.Password); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, account); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAccountExists
			}
			return err
		}
		return s.notify(tx, account, true)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("账户已创建: id=%d email=%s mechanic=%t", account.ID, account.Email, account.IsMechanic)
	s.publishCreated(account)
	return account, nil
}

// 2 CreateSuperuser 创建管理员账户
func (s *AccountService) CreateSuperuser(ctx context.Context, email, phone, password string) (*models.Account, error) {
	account, err := s.CreateUser(ctx, CreateUserParams{
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	account.IsAdmin = true
	if err := s.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// 3 SaveAccount 保存已存在的账户，观察者收到 created=false
func (s *AccountService) SaveAccount(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		return ErrAccountNotFound
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAccountExists
			}
			return err
		}
		return s.notify(tx, account, false)
	})
}

// 4 GetAccountByID 根据ID获取账户
func (s *AccountService) GetAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).Preload("Mechanic").First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// 5 GetAccountByUsername 根据用户名获取账户，找不到时再按邮箱查找
func (s *AccountService) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrAccountNotFound
	}

	account, err := s.findAccount(ctx, "username = ?", username)
	if errors.Is(err, ErrAccountNotFound) {
		account, err = s.findAccount(ctx, "email = ?", models.NormalizeEmail(username))
	}
	return account, err
}

func (s *AccountService) findAccount(ctx context.Context, cond string, arg interface{}) (*models.Account, error) {
	var account models.Account
	err := s.DB.WithContext(ctx).Preload("Mechanic").Where(cond, arg).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// 6 ListAccounts 获取账户列表
func (s *AccountService) ListAccounts(ctx context.Context, filter AccountFilter, page models.PaginationQuery) ([]models.Account, int64, error) {
	page.Normalize()

	query := s.DB.WithContext(ctx).Model(&models.Account{})
	if !filter.IncludeAdmin {
		query = query.Where("is_admin = ?", false)
	}
	switch filter.Role {
	case models.RoleMechanic:
		query = query.Where("is_mechanic = ?", true)
	case models.RoleCarOwner:
		query = query.Where("is_mechanic = ?", false)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		query = query.Where("email LIKE ? ESCAPE '!' OR phone LIKE ? ESCAPE '!' OR username LIKE ? ESCAPE '!'", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accounts []models.Account
	err := query.Preload("Mechanic").
		Order("id").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// 7 Authenticate 使用邮箱和密码认证
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var account models.Account
	if err := s.DB.WithContext(ctx).Preload("Mechanic").Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return &account, nil
}

// 8 EnsureAdminExists 没有管理员且配置了默认密码时创建默认管理员
func (s *AccountService) EnsureAdminExists(ctx context.Context) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Account{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if s.Config == nil || s.Config.DefaultAdminPassword == "" {
		logger.Warning("没有管理员账户，且未设置 DEFAULT_ADMIN_PASSWORD，跳过创建")
		return false, nil
	}

	account, err := s.CreateSuperuser(ctx, s.Config.DefaultAdminEmail, s.Config.DefaultAdminPhone, s.Config.DefaultAdminPassword)
	if err != nil {
		return false, err
	}
	logger.Info("已创建默认管理员账户: %s", account.Email)
	return true, nil
}

func (s *AccountService) checkUnique(ctx context.Context, account *models.Account) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Account{}).Where("email = ?", account.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}

	if err := s.DB.WithContext(ctx).Model(&models.Account{}).Where("phone = ?", account.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPhoneExists
	}

	if account.Username != nil {
		if err := s.DB.WithContext(ctx).Model(&models.Account{}).Where("username = ?", *account.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameExists
		}
	}
	return nil
}

func (s *AccountService) notify(tx *gorm.DB, account *models.Account, created bool) error {
	for _, o := range s.observers {
		if err := o.AccountSaved(tx, account, created); err != nil {
			return err
		}
	}
	return nil
}

func (s *AccountService) publishCreated(account *models.Account) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishAccountCreated(account); err != nil {
		logger.Error("发布账户创建事件失败: id=%d: %v", account.ID, err)
	}
}

// likeEscaper 转义 LIKE 通配符，转义字符为 !
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(v string) string {
	return likeEscaper.Replace(v)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
