package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/service"
)

// LocalsAPIKey 校验通过的密钥在 c.Locals 中的键
const LocalsAPIKey = "apiKey"

// NewAPIKeyMiddleware 校验 Authorization Bearer 密钥，keys 为空时不启用
func NewAPIKeyMiddleware(keys []string, skipPaths []string) fiber.Handler {
	skipPathMap := make(map[string]bool)
	for _, path := range skipPaths {
		skipPathMap[path] = true
	}

	var validKeys [][]byte
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			validKeys = append(validKeys, []byte(k))
		}
	}

	return func(c *fiber.Ctx) error {
		if len(validKeys) == 0 || skipPathMap[c.Path()] {
			return c.Next()
		}

		apiKey := []byte(strings.TrimPrefix(c.Get("Authorization"), "Bearer "))
		if len(apiKey) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(service.Error(constant.ErrUnauthorized))
		}
		for _, k := range validKeys {
			if subtle.ConstantTimeCompare(apiKey, k) == 1 {
				c.Locals(LocalsAPIKey, string(k))
				return c.Next()
			}
		}
		return c.Status(fiber.StatusUnauthorized).JSON(service.Error(constant.ErrUnauthorized))
	}
}
