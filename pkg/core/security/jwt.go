package security

import (
	"context"
	"errors"
	"time"

	"qrhub/pkg/core/consts"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type JwtClient struct {
	secret     []byte
	expireTime time.Duration
}

func NewJwtClient(secret []byte, expireTime time.Duration) *JwtClient {
	if expireTime <= 0 {
		expireTime = 24 * time.Hour
	}
	return &JwtClient{
		secret:     secret,
		expireTime: expireTime,
	}
}

func (c *JwtClient) CreateOwnerToken(claims *OwnerClaims) (string, int64, error) {
	now := time.Now()
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.expireTime))
	claims.IssuedAt = jwt.NewNumericDate(now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString(c.secret)
	return signedString, claims.ExpiresAt.Unix(), err
}

func (c *JwtClient) ParseOwnerToken(tokenString string) (*OwnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*OwnerClaims); ok && token.Valid && claims.OwnerID != "" {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func (c *JwtClient) SaveOwnerToContext(ctx *fiber.Ctx, claims *OwnerClaims) {
	ctx.Locals(consts.OwnerKey, claims.OwnerID)
	userCtx := ctx.UserContext()
	userCtx = context.WithValue(userCtx, OwnerClaimsKey, claims)
	ctx.SetUserContext(userCtx)
}
