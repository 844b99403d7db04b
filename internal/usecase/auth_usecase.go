package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"agora/internal/config"
	"agora/internal/domain/model"
	"agora/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type UserDTO struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AccountType string `json:"account_type"`
	AvatarURL   string `json:"avatar_url"`
}

type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	AccountType     string `json:"account_type" validate:"required"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionResult struct {
	User      UserDTO
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase struct {
	cfg   config.Config
	users repository.UserRepository
}

func NewAuthUsecase(cfg config.Config, users repository.UserRepository) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users}
}

// Register は新規ユーザーを作る。usernameは全体で一意、
// emailはaccount_typeごとに一意。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "username is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "first and last name are required")
	}
	if len(in.Password) < 6 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}
	if in.Password != in.PasswordConfirm {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	accountType := model.AccountType(in.AccountType)
	if accountType != model.AccountTypeBuyer && accountType != model.AccountTypeSeller {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "please select an account type")
	}

	// username重複チェック
	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "username already exists")
	} else if err != repository.ErrUserNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// email重複チェック（同じaccount_type内のみ）
	exists, err := u.users.EmailExists(ctx, in.Email, accountType)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "email already registered for this account type")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Username:     username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash), // ハッシュのみ保存
		AccountType:  accountType,
	}

	if err := u.users.Create(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "failed to create account")
	}

	return toUserDTO(user), nil
}

// Login はbcrypt比較に成功したらセッショントークンを発行する。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (SessionResult, error) {
	if in.Username == "" || in.Password == "" {
		return SessionResult{}, NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	user, err := u.users.FindByUsername(ctx, in.Username)
	if err == repository.ErrUserNotFound {
		// ユーザー不在とパスワード不一致は同じ文言にする
		return SessionResult{}, NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if err != nil {
		return SessionResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return SessionResult{}, NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	token, expiresAt, err := u.issueToken(user)
	if err != nil {
		return SessionResult{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return SessionResult{
		User:      toUserDTO(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (u *AuthUsecase) issueToken(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(u.cfg.SessionTTL)

	claims := jwt.MapClaims{
		"sub":          user.Username,
		"account_type": string(user.AccountType),
		"iat":          now.Unix(),
		"exp":          expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func toUserDTO(user *model.User) UserDTO {
	return UserDTO{
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AccountType: string(user.AccountType),
		AvatarURL:   user.AvatarURL,
	}
}
