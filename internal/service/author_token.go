package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkpost/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrAuthorTokenInvalid = errors.New("invalid author token")

// AuthorJWTClaims 作者令牌声明
type AuthorJWTClaims struct {
	AuthorID string `json:"author_id"`
	jwt.RegisteredClaims
}

// AuthorTokenService 作者令牌签发与校验，签名算法固定为 HS256
type AuthorTokenService struct {
	cfg config.JWTConfig
}

// NewAuthorTokenService 创建作者令牌服务
func NewAuthorTokenService(cfg config.JWTConfig) *AuthorTokenService {
	return &AuthorTokenService{cfg: cfg}
}

// Generate 签发作者令牌
func (s *AuthorTokenService) Generate(authorID string) (string, time.Time, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return "", time.Time{}, ErrAuthorRequired
	}
	if s.cfg.SecretKey == "" {
		return "", time.Time{}, ErrAuthorTokenInvalid
	}
	hours := s.cfg.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := AuthorJWTClaims{
		AuthorID: authorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse 解析并校验作者令牌；配置了 issuer 时一并校验
func (s *AuthorTokenService) Parse(tokenString string) (*AuthorJWTClaims, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrAuthorTokenInvalid
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.cfg.Issuer))
	}
	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenString, &AuthorJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, errors.Join(ErrAuthorTokenInvalid, err)
	}
	claims, ok := token.Claims.(*AuthorJWTClaims)
	if !ok || !token.Valid || strings.TrimSpace(claims.AuthorID) == "" {
		return nil, ErrAuthorTokenInvalid
	}
	return claims, nil
}
