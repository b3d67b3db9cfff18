package security

import (
	"context"
	"strings"
	"time"

	"qrhub/pkg/core/consts"
	errorc "qrhub/pkg/core/err"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const OwnerClaimsKey ctxKey = "owner"

// OwnerClaims 二维码所有者身份，OwnerID 由上游账号体系签发
type OwnerClaims struct {
	jwt.RegisteredClaims
	OwnerID string `json:"ownerId"`
	Name    string `json:"name,omitempty"`
}

type OwnerAuth struct {
	jwtClient *JwtClient
}

func NewOwnerAuth(secret []byte, expireTime time.Duration) *OwnerAuth {
	return &OwnerAuth{
		jwtClient: NewJwtClient(secret, expireTime),
	}
}

// CreateToken 签发所有者 token
func (a *OwnerAuth) CreateToken(ownerID, name string) (string, error) {
	token, _, err := a.jwtClient.CreateOwnerToken(&OwnerClaims{OwnerID: ownerID, Name: name})
	return token, err
}

// RequireAuth 必须通过校验，并保存 OwnerID
func (a *OwnerAuth) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return errorc.New("authorization header is required", nil).NoAuth()
		}

		claims, err := a.jwtClient.ParseOwnerToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return errorc.New("invalid token", err).NoAuth()
		}

		a.jwtClient.SaveOwnerToContext(c, claims)
		return c.Next()
	}
}

// GetOwnerID 从上下文中获取所有者 ID
func GetOwnerID(c *fiber.Ctx) (string, error) {
	if c == nil {
		return "", errorc.New("fiber context is nil", nil).WithCode(errorc.ErrorCodeInternal)
	}
	id, ok := c.Locals(consts.OwnerKey).(string)
	if !ok || id == "" {
		return "", errorc.New("owner id not found or invalid", nil).NoAuth()
	}
	return id, nil
}

func GetOwnerClaimsByCtx(ctx context.Context) (*OwnerClaims, error) {
	claims, ok := ctx.Value(OwnerClaimsKey).(*OwnerClaims)
	if !ok {
		return nil, errorc.New("owner claims not found or invalid", nil).NoAuth()
	}
	return claims, nil
}
