package service

import (
	"VidTube/internal/apperror"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/internal/storage"
	"VidTube/pkg/logger"
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

type UpdateAccountInput struct {
	FullName *string
	Email    *string
}

// 用户服务接口：注册、登录、账号资料、头像封面、频道主页
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, login, password string) (string, *model.User, error)
	GetCurrentUser(ctx context.Context, userID uint64) (*model.User, error)
	UpdateAccount(ctx context.Context, userID uint64, in UpdateAccountInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error
	UpdateAvatar(ctx context.Context, userID uint64, localPath string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userID uint64, localPath string) (*model.User, error)
	GetChannelProfile(ctx context.Context, username string, viewerID uint64) (*model.ChannelRow, error)
}

// TokenConfig 签发JWT用的密钥和有效期
type TokenConfig struct {
	SecretKey string
	TTL       time.Duration
}

type userService struct {
	userRepo repository.UserRepository
	media    storage.MediaStorage
	token    TokenConfig
	timeout  time.Duration
}

func NewUserService(userRepo repository.UserRepository, media storage.MediaStorage, token TokenConfig, mediaTimeout time.Duration) UserService {
	if token.TTL <= 0 {
		token.TTL = 72 * time.Hour
	}
	if mediaTimeout <= 0 {
		mediaTimeout = defaultMediaTimeout
	}
	return &userService{userRepo: userRepo, media: media, token: token, timeout: mediaTimeout}
}

// NormalizeUsername 用户名统一小写并去掉首尾空白
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// 注册逻辑：1、校验必填字段 2、密码加密存储 3、插入数据库，唯一索引兜底重名
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := NormalizeUsername(in.Username)
	if username == "" {
		return nil, apperror.Validation("username", "用户名不能为空")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.Validation("email", "邮箱格式不正确")
	}
	fullName, err := requireText("full_name", in.FullName, "姓名不能为空")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, apperror.Validation("password", "密码不能为空")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Infrastructure("密码加密失败", err)
	}
	newUser := &model.User{
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("用户名或邮箱已存在")
		}
		return nil, apperror.Infrastructure("创建用户失败", err)
	}
	return newUser, nil
}

// 登录逻辑：1、按用户名或邮箱查找 2、加密后密码和输入密码比对 3、生成jwt签名
func (s *userService) Login(ctx context.Context, login, password string) (string, *model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", nil, apperror.Validation("username", "用户名和密码不能为空")
	}
	user, err := s.userRepo.FindByLogin(ctx, NormalizeUsername(login), strings.ToLower(login))
	if err != nil {
		if repository.IsNotFound(err) {
			// 模糊的错误提示，更安全
			return "", nil, apperror.Unauthenticated("用户名或密码错误")
		}
		return "", nil, apperror.Infrastructure("查询用户失败", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperror.Unauthenticated("用户名或密码错误")
	}
	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, apperror.Infrastructure("生成令牌失败", err)
	}
	return token, user, nil
}

// token对象的Payload，不能将密码放在其中，Payload不加密
func (s *userService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.token.TTL).Unix(),
		"iat":      now.Unix(),
	}
	// HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.token.SecretKey))
}

func (s *userService) GetCurrentUser(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "用户", "查询用户失败")
	}
	return user, nil
}

// 更新账号资料：至少提供一个字段，只更新提供的字段
func (s *userService) UpdateAccount(ctx context.Context, userID uint64, in UpdateAccountInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if err := optionalText(fields, "full_name", in.FullName, "姓名不能为空"); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperror.Validation("email", "邮箱格式不正确")
		}
		fields["email"] = email
	}
	if len(fields) == 0 {
		return nil, apperror.Validation("", "至少需要提供一个要更新的字段")
	}
	if _, err := s.GetCurrentUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, userID, fields); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("邮箱已被使用")
		}
		return nil, apperror.Infrastructure("更新用户失败", err)
	}
	return s.GetCurrentUser(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperror.Validation("new_password", "新密码不能为空")
	}
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperror.Validation("old_password", "原密码错误")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Infrastructure("密码加密失败", err)
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password": string(hashed)}); err != nil {
		return apperror.Infrastructure("更新密码失败", err)
	}
	return nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint64, localPath string) (*model.User, error) {
	return s.replaceImage(ctx, userID, localPath, "avatar")
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID uint64, localPath string) (*model.User, error) {
	return s.replaceImage(ctx, userID, localPath, "cover_image")
}

// 替换头像/封面：1、上传新文件 2、写库，失败则释放新文件 3、尽力释放旧文件，失败只记日志
func (s *userService) replaceImage(ctx context.Context, userID uint64, localPath, column string) (*model.User, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := user.Avatar
	if column == "cover_image" {
		old = user.CoverImage
	}

	mediaCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	asset, err := s.media.Store(mediaCtx, localPath)
	if err != nil {
		return nil, apperror.Infrastructure("上传图片失败", err)
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{column: asset.URL}); err != nil {
		s.releaseQuietly(ctx, asset.URL)
		return nil, apperror.Infrastructure("更新用户失败", err)
	}
	if old != "" {
		s.releaseQuietly(ctx, old)
	}
	return s.GetCurrentUser(ctx, userID)
}

func (s *userService) releaseQuietly(ctx context.Context, url string) {
	mediaCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.media.Release(mediaCtx, url); err != nil {
		logger.Log.WithError(err).WithField("url", url).Warn("释放旧媒体文件失败")
	}
}

// 频道主页，handle不区分大小写
func (s *userService) GetChannelProfile(ctx context.Context, username string, viewerID uint64) (*model.ChannelRow, error) {
	handle := NormalizeUsername(username)
	if handle == "" {
		return nil, apperror.Validation("username", "用户名不能为空")
	}
	row, err := s.userRepo.FindChannel(ctx, handle, viewerID)
	if err != nil {
		return nil, notFoundOr(err, "频道", "查询频道失败")
	}
	return row, nil
}
