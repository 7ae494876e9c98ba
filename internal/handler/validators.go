package handler

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

// RegisterValidators 在gin的校验引擎上注册自定义规则handle（用户名，也是频道的handle）
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("handle", validateHandle)
}

func validateHandle(fl validator.FieldLevel) bool {
	return handlePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}
