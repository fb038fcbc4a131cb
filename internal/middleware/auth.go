package middleware

import (
	"narada_backend/internal/config"
	"narada_backend/internal/util"
	"narada_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return authenticate(cfg, util.Unauthorized)
}

// AnswerAuthMiddleware is AuthMiddleware for the answer endpoint, which
// reports failures as a bare {"error": ...} body.
func AnswerAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return authenticate(cfg, func(c *gin.Context) {
		util.PlainError(c, http.StatusUnauthorized, util.MsgUserNotFound)
	})
}

// DeepHealthAuth lets plain health checks through and requires a valid
// token for ?deep=true, which spends a completion call.
func DeepHealthAuth(cfg *config.Config) gin.HandlerFunc {
	auth := AuthMiddleware(cfg)
	return func(c *gin.Context) {
		if c.Query("deep") != "true" {
			c.Next()
			return
		}
		auth(c)
	}
}

func authenticate(cfg *config.Config, reject func(*gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			reject(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.Error(err))
			reject(c)
			c.Abort()
			return
		}

		util.SetUserInContext(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Query("token")
}
