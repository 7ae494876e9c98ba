package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID context中保存已认证用户ID的key，值的类型是uint64
const ContextUserID = "userID"

// ContextUsername 令牌中携带的用户名，只用于日志
const ContextUsername = "username"

// 中间件工厂，按传入的密钥验证token
// 流程：1、从http请求中取出"Authorization"字段 2、验证"Bearer [token]" 3、通过secretKey验证token有效性 4、若成功，从token中取出用户ID，放入context
func AuthMiddleware(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// 立刻调用c.Abort()，阻止后续的任何处理器（包括其他中间件和最终的handler）被执行
			abortUnauthorized(c, "请求未包含授权令牌")
			return
		}
		userID, username, err := parseBearer(authHeader, secretKey)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, username)
		c.Next()
	}
}

// OptionalAuth 公开接口使用：带了有效token就记录访问者，否则按匿名处理，不拦截
func OptionalAuth(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if userID, username, err := parseBearer(authHeader, secretKey); err == nil {
				c.Set(ContextUserID, userID)
				c.Set(ContextUsername, username)
			}
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized, "error": message})
}

// 解析 "Bearer [token]"，jwt.MapClaims中的数字会被解析为float64，这里统一转换成uint64
func parseBearer(authHeader, secretKey string) (uint64, string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "", errors.New("授权令牌格式不正确")
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		// 确保签名方法是对称加密族
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("无效的授权令牌")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("无效的授权令牌")
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, "", errors.New("无效的授权令牌")
	}
	username, _ := claims["username"].(string)
	return uint64(rawID), username, nil
}
