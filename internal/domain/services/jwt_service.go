package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(account *models.Account) (string, time.Time, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
	ObtainToken(ctx context.Context, email, password string) (*TokenResult, error)
}

// TokenResult 表示获取令牌的结果
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *models.Account
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey  string
	issuer     string
	expiration time.Duration
	Accounts   InterfaceAccountService
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, accounts InterfaceAccountService) InterfaceJWTService {
	return &JWTService{
		secretKey:  cfg.JWTSecretKey,
		issuer:     "kanic-server",
		expiration: cfg.JWTExpiration,
		Accounts:   accounts,
	}
}

// 1 GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(account *models.Account) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(s.expiration)

	claims := &JWTClaims{
		UserID: account.ID,
		Email:  account.Email,
		Role:   account.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expirationTime, nil
}

// 2 ExtractClaims 验证令牌并提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Issuer != s.issuer || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// 3 ObtainToken 使用邮箱密码换取令牌
func (s *JWTService) ObtainToken(ctx context.Context, email, password string) (*TokenResult, error) {
	account, err := s.Accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.GenerateToken(account)
	if err != nil {
		return nil, err
	}
	return &TokenResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	}, nil
}
