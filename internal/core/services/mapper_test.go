package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"graylogsync/internal/core/domain"
)

func TestMapRole(t *testing.T) {
	tests := []struct {
		name         string
		resourceType string
		role         domain.Role
		id           string
		want         []string
	}{
		{"stream viewer", "streams", domain.RoleViewer, "42", []string{"streams:read:42"}},
		{"stream manager", "streams", domain.RoleManager, "42",
			[]string{"streams:read:42", "streams:edit:42", "streams:changestate:42"}},
		{"non-stream manager", "other", domain.RoleManager, "5", []string{"other:read:5", "other:edit:5"}},
		{"non-stream viewer", "dashboards", domain.RoleViewer, "7", []string{"dashboards:read:7"}},
		{"unknown role", "streams", "Unknown", "1", nil},
		{"role is case sensitive", "streams", "viewer", "1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapRole(tt.resourceType, tt.role, tt.id))
		})
	}
}

func TestMapGrants_Concatenates(t *testing.T) {
	got := MapGrants(domain.ResourceStreams, []domain.StreamGrant{
		{ID: "1", Role: domain.RoleViewer},
		{ID: "2", Role: "Owner"},
		{ID: "3", Role: domain.RoleManager},
	})
	assert.Equal(t, []string{
		"streams:read:1",
		"streams:read:3", "streams:edit:3", "streams:changestate:3",
	}, got)

	assert.Empty(t, MapGrants(domain.ResourceStreams, nil))
}

func TestCleanPermissions(t *testing.T) {
	assert.Equal(t, []string{"dashboards:read:2"},
		CleanPermissions([]string{"streams:read:1", "dashboards:read:2"}))

	assert.Equal(t, []string{"users:edit:alice", "streamsx:read:1", "*"},
		CleanPermissions([]string{"users:edit:alice", "streams:edit:1", "streamsx:read:1", "*", "streams"}))

	assert.Empty(t, CleanPermissions(nil))
}
