package identity

import (
	"context"
	"errors"
	"fmt"

	"personal-blog/app/server/models"
	"personal-blog/app/server/types"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) Resolve(ctx context.Context, username string) (*types.Principal, error) {
	if len(username) == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user %s: %w", username, err)
	}

	return &types.Principal{
		UserID:       user.ID,
		Username:     user.Username,
		HashedSecret: user.Password,
		Role:         types.RoleFromInt(user.UserRole),
	}, nil
}
