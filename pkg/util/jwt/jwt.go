package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 全局配置，由 Init 函数初始化
var (
	secret []byte
	expiry time.Duration
)

// Init 初始化 JWT 配置
func Init(signSecret string, expiryMinutes int) {
	secret = []byte(signSecret)
	expiry = time.Duration(expiryMinutes) * time.Minute
}

// Claims 自定义 JWT 声明
// Login 即用户唯一标识，后续 Handler 以它作为操作者身份
type Claims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// GenerateToken 登录成功后签发 Access Token
func GenerateToken(login string) (string, error) {
	claims := Claims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "kite_messenger",
			Subject:   "access_token",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken 解析并验证 Token
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
