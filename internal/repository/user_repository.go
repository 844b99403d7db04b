package repository

import (
	"agora/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// 同じaccount_typeで登録済みのメールか
	EmailExists(ctx context.Context, email string, accountType model.AccountType) (bool, error)
	Update(ctx context.Context, user *model.User) error
}
