// Package token 提供了用于生成和验证 JSON Web Tokens (JWT) 的功能。
// 它实现了系统对身份校验协作方的最小契约：verifyToken(bearer) -> {uid, admin}。
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 表示 token 无效、签名不匹配或已过期。
var ErrInvalidToken = errors.New("invalid or expired token")

// JWTManager 负责管理 JWT 的生成和验证。
type JWTManager struct {
	secretKey []byte
	tokenDur  time.Duration
}

// CustomClaims 定义了我们想要在 JWT 中存储的自定义数据。
// uid 是用户唯一标识，admin 标记管理员，可跨用户访问资源。
type CustomClaims struct {
	UID   string `json:"uid"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTManager 创建一个新的 JWTManager 实例。
// secret: 用于签名的密钥字符串。
// tokenExpireHours: token 的过期时间（小时）。
func NewJWTManager(secret string, tokenExpireHours int) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secret),
		tokenDur:  time.Hour * time.Duration(tokenExpireHours),
	}
}

// GenerateToken 根据给定的用户信息签发一个新的 token。
// 正式环境下凭证由外部身份服务签发，这里主要服务于本地联调与测试。
func (m *JWTManager) GenerateToken(uid string, admin bool) (string, error) {
	claims := CustomClaims{
		UID:   uid,
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secretKey)
}

// VerifyToken 验证给定的 token 字符串。
// 如果 token 有效，返回 CustomClaims；否则返回 ErrInvalidToken。
func (m *JWTManager) VerifyToken(tokenString string) (*CustomClaims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		// 只接受 HMAC 签名
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := t.Claims.(*CustomClaims); ok && t.Valid && claims.UID != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
