package services

import "graylogsync/internal/core/domain"

// MapRole translates a role on one resource into permission strings.
// Unknown roles yield nil rather than an error.
func MapRole(resourceType string, role domain.Role, resourceID string) []string {
	switch role {
	case domain.RoleViewer:
		return []string{domain.FormatPermission(resourceType, domain.ActionRead, resourceID)}
	case domain.RoleManager:
		perms := []string{
			domain.FormatPermission(resourceType, domain.ActionRead, resourceID),
			domain.FormatPermission(resourceType, domain.ActionEdit, resourceID),
		}
		if resourceType == domain.ResourceStreams {
			perms = append(perms, domain.FormatPermission(resourceType, domain.ActionChangeState, resourceID))
		}
		return perms
	default:
		return nil
	}
}

// MapGrants concatenates MapRole over every grant.
func MapGrants(resourceType string, grants []domain.StreamGrant) []string {
	var perms []string
	for _, g := range grants {
		perms = append(perms, MapRole(resourceType, g.Role, string(g.ID))...)
	}
	return perms
}

// CleanPermissions drops every stream permission, keeping the rest in order.
func CleanPermissions(perms []string) []string {
	kept := make([]string, 0, len(perms))
	for _, p := range perms {
		if domain.ResourceType(p) == domain.ResourceStreams {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
