package middleware

import (
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Authorization 头中的 Bearer Token
// 解析成功后将 claims 写入上下文供控制器读取
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(parts[1], cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT校验失败", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// UserActivityRepo 更新用户最后活跃时间的最小接口
type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

// ActivityMiddleware 异步刷新已登录用户的 last_seen
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		claims := util.GetUserFromContext(c)
		if claims == nil {
			return
		}

		go func(userID uint) {
			if err := repo.UpdateLastSeen(userID); err != nil {
				logger.Log.Warn("更新用户活跃时间失败", zap.Uint("user_id", userID), zap.Error(err))
			}
		}(claims.UserID)
	}
}
