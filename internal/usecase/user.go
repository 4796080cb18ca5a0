package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ListLimit caps every list query.
const ListLimit = 1000

type UserUseCase struct {
	Users  entity.UserRepositoryInterface
	Policy AccessPolicy
}

func NewUserUseCase(users entity.UserRepositoryInterface) *UserUseCase {
	return &UserUseCase{Users: users}
}

func (uc *UserUseCase) List(ctx context.Context, caller *entity.User) ([]*entity.User, error) {
	if !uc.Policy.Authorize(caller, ActionListUsers) {
		return nil, ErrForbidden
	}
	users, err := uc.Users.List(ctx, ListLimit)
	if err != nil {
		return nil, databaseError("list users", err)
	}
	return users, nil
}
