package jwt

import "github.com/golang-jwt/jwt/v5"

// Claims описывает данные пользователя, хранящиеся в токене.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
