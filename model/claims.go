package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the access token payload. The user id travels in the
// registered "sub" claim.
type AppClaims struct {
	jwt.RegisteredClaims
}
