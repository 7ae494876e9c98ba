package handler

import (
	"VidTube/internal/apperror"
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetCurrentUser(c *gin.Context)
	UpdateAccount(c *gin.Context)
	ChangePassword(c *gin.Context)
	UpdateAvatar(c *gin.Context)
	UpdateCoverImage(c *gin.Context)
	GetChannelProfile(c *gin.Context)
}

// 对Service进行封装，uploadDir是multipart文件的临时目录
type userHandler struct {
	UserService service.UserService
	uploadDir   string
}

func NewUserHandler(userService service.UserService, uploadDir string) UserHandler {
	return &userHandler{UserService: userService, uploadDir: uploadDir}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,handle"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login可以是用户名也可以是邮箱
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateAccountRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// 注册：1、Body解析为注册请求结构体并校验 2、service层注册 3、返回注册成功后的User
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logger.Log.WithField("action", "register"), bindError(err))
		return
	}
	logCtx := logger.Log.WithField("username", req.Username)
	logCtx.Info("开始处理用户注册请求")

	user, err := h.UserService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("user_id", user.ID).Info("用户注册成功")
	sendSuccess(c, http.StatusCreated, "注册成功", dto.ToUserResponse(user))
}

// 登录：1、Body解析为登录结构体 2、service层登录 3、成功则返回token和用户资料
func (h *userHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logger.Log.WithField("action", "login"), bindError(err))
		return
	}
	logCtx := logger.Log.WithField("login", req.Login)
	logCtx.Info("开始处理用户登录请求")

	token, user, err := h.UserService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.WithField("user_id", user.ID).Info("用户登录成功")
	sendSuccess(c, http.StatusOK, "登录成功", gin.H{
		"token": token,
		"user":  dto.ToUserResponse(user),
	})
}

func (h *userHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, logger.Log.WithField("user_id", userID), err)
		return
	}
	sendSuccess(c, http.StatusOK, "成功获取用户信息", dto.ToUserResponse(user))
}

func (h *userHandler) UpdateAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	user, err := h.UserService.UpdateAccount(c.Request.Context(), userID, service.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("账号资料更新成功")
	sendSuccess(c, http.StatusOK, "账号资料更新成功", dto.ToUserResponse(user))
}

func (h *userHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, logCtx, bindError(err))
		return
	}
	if err := h.UserService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info("密码修改成功")
	sendSuccess(c, http.StatusOK, "密码修改成功", nil)
}

func (h *userHandler) UpdateAvatar(c *gin.Context) {
	h.replaceImage(c, "avatar", "头像更新成功", h.UserService.UpdateAvatar)
}

func (h *userHandler) UpdateCoverImage(c *gin.Context) {
	h.replaceImage(c, "coverImage", "封面更新成功", h.UserService.UpdateCoverImage)
}

// 替换头像/封面：1、保存multipart文件到临时目录 2、service层上传并替换 3、清理临时文件
func (h *userHandler) replaceImage(c *gin.Context, field, message string,
	update func(ctx context.Context, userID uint64, localPath string) (*model.User, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("field", field)
	path, err := saveUpload(c, field, h.uploadDir)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	defer removeTemp(path)
	if path == "" {
		writeError(c, logCtx, apperror.Validation(field, field+"文件不能为空"))
		return
	}
	user, err := update(c.Request.Context(), userID, path)
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	logCtx.Info(message)
	sendSuccess(c, http.StatusOK, message, dto.ToUserResponse(user))
}

// 频道主页，登录用户可以看到自己是否已订阅
func (h *userHandler) GetChannelProfile(c *gin.Context) {
	username := c.Param("username")
	logCtx := logger.Log.WithField("channel", username)
	channel, err := h.UserService.GetChannelProfile(c.Request.Context(), username, viewerID(c))
	if err != nil {
		writeError(c, logCtx, err)
		return
	}
	sendSuccess(c, http.StatusOK, "成功获取频道信息", dto.ToChannelResponse(channel))
}
