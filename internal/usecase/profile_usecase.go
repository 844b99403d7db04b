package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"agora/internal/infra/images"
	"agora/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// プロフィール閲覧・編集・パスワード変更・アバター。
type ProfileUsecase struct {
	users repository.UserRepository
	store *images.Store
}

func NewProfileUsecase(users repository.UserRepository, store *images.Store) *ProfileUsecase {
	return &ProfileUsecase{users: users, store: store}
}

type UpdateProfileInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func (u *ProfileUsecase) Get(ctx context.Context, username string) (UserDTO, error) {
	if username == "" {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err == repository.ErrUserNotFound {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserDTO(user), nil
}

func (u *ProfileUsecase) Update(ctx context.Context, username string, in UpdateProfileInput) (UserDTO, error) {
	if username == "" {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "first and last name are required")
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err == repository.ErrUserNotFound {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.Email = in.Email
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)

	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserDTO(user), nil
}

func (u *ProfileUsecase) ChangePassword(ctx context.Context, username string, in ChangePasswordInput) error {
	if username == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.NewPassword) < 6 {
		return NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err == repository.ErrUserNotFound {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcryptCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user.PasswordHash = string(hash)
	if err := u.users.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// アバターはこの操作の本体なので、画像失敗はそのままエラーにする。
func (u *ProfileUsecase) UploadAvatar(ctx context.Context, username string, data []byte) (UserDTO, error) {
	if username == "" {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err == repository.ErrUserNotFound {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	url, err := u.store.SaveAvatar(data, username)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user.AvatarURL = url
	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserDTO(user), nil
}
