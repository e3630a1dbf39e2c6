package ports

import (
	"context"

	"graylogsync/internal/core/domain"
)

type DirectoryClient interface {
	// FetchGroups returns every group whose cn matches the configured
	// pattern, with its member uids.
	FetchGroups(ctx context.Context) ([]domain.Group, error)
}
