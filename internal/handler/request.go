package handler

import (
	"VidTube/internal/apperror"
	"VidTube/internal/middleware"
	"VidTube/internal/pagination"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// currentUserID 认证中间件之后才能调用，中间件已经把用户ID转换成uint64
func currentUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return 0, false
	}
	userID, ok := value.(uint64)
	if !ok || userID == 0 {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return 0, false
	}
	return userID, true
}

// viewerID 公开接口的访问者，匿名时为0
func viewerID(c *gin.Context) uint64 {
	if value, exists := c.Get(middleware.ContextUserID); exists {
		if id, ok := value.(uint64); ok {
			return id
		}
	}
	return 0
}

// parseID URL中取回的是str，统一转化为uint64
func parseID(c *gin.Context, param, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

// parsePage page和limit缺省时为1和10
func parsePage(c *gin.Context) (pagination.Params, error) {
	return pagination.Parse(
		c.DefaultQuery("page", pagination.DefaultPage),
		c.DefaultQuery("limit", pagination.DefaultLimit),
	)
}

// bindError 把绑定/校验失败转换成ValidationError，带上第一个出错的字段
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperror.Validation(field, field+"不能为空")
		case "email":
			return apperror.Validation(field, "邮箱格式不正确")
		case "handle":
			return apperror.Validation(field, "用户名只能包含字母、数字、下划线和点，长度3到30")
		case "oneof":
			return apperror.Validation(field, field+"只能是"+fe.Param())
		default:
			return apperror.Validation(field, field+"格式不正确")
		}
	}
	return apperror.Validation("", "无效的参数")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// saveUpload 把multipart中的文件保存到临时目录，字段不存在时返回空路径
func saveUpload(c *gin.Context, field, dir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperror.Validation(field, "上传文件解析失败")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperror.Infrastructure("创建临时目录失败", err)
	}
	dst := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", apperror.Infrastructure("保存上传文件失败", err)
	}
	return dst, nil
}

// removeTemp 请求结束后清理临时文件，已经被上传流程删掉的文件忽略
func removeTemp(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
