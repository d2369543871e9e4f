package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"contenta_dev_v1/internal/model"
)

// ==================== JWT 配置 ====================

// ErrJWTNotConfigured 未设置签名密钥，所有 Token 一律拒绝
var ErrJWTNotConfigured = errors.New("jwt secret not configured")

// JWTConfig JWT 配置，只校验不签发
type JWTConfig struct {
	SecretKey string // 签名密钥，为空时不接受任何 Token
	Issuer    string // 签发者
}

// DefaultIssuer 默认签发者
const DefaultIssuer = "contenta"

// 全局配置
var jwtConfig = &JWTConfig{Issuer: DefaultIssuer}

// SetJWTConfig 设置 JWT 配置，nil 恢复为未配置状态
func SetJWTConfig(cfg *JWTConfig) {
	next := &JWTConfig{Issuer: DefaultIssuer}
	if cfg != nil {
		next.SecretKey = cfg.SecretKey
		if cfg.Issuer != "" {
			next.Issuer = cfg.Issuer
		}
	}
	jwtConfig = next
}

// ==================== Claims 定义 ====================

// UserClaims 用户声明，UserID 即历史记录和设置的分区键
type UserClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseToken 解析 Token
func ParseToken(tokenString string) (*UserClaims, error) {
	cfg := jwtConfig
	if cfg.SecretKey == "" {
		return nil, ErrJWTNotConfigured
	}
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.SecretKey), nil
	}, jwt.WithIssuer(cfg.Issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid || claims.Subject != "access" || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ==================== Gin 中间件 ====================

// ContextKeyUserID 用户 ID 在 gin.Context 中的键
const ContextKeyUserID = "user_id"

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// JWTAuth 强制认证
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortUnauthorized(c, "未提供认证信息")
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "认证格式错误，应为 Bearer {token}")
			return
		}
		claims, err := ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "Token 无效或已过期")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 可选认证，无效 Token 按匿名处理
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := ParseToken(token); err == nil {
				c.Set(ContextKeyUserID, claims.UserID)
			}
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": msg,
	})
}

// GetUserID 当前用户，未认证时为 "local"
func GetUserID(c *gin.Context) string {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return model.LocalUserID
}
