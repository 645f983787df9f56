package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 定义了我们 Token 中需要包含的业务信息
type UserClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}
