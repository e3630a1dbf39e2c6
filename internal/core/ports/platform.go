package ports

import (
	"context"

	"graylogsync/internal/core/domain"
)

type PlatformClient interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, username string) (*domain.User, error)
	SetPermissions(ctx context.Context, username string, permissions []string) error
	DeleteUser(ctx context.Context, id domain.UserID) error
	ListStreams(ctx context.Context) ([]domain.Stream, error)
}
