package graylog

import "graylogsync/internal/core/domain"

type user struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	FullName    string   `json:"full_name,omitempty"`
	External    bool     `json:"external"`
	ReadOnly    bool     `json:"read_only"`
	Permissions []string `json:"permissions"`
}

func (u user) toDomain() domain.User {
	return domain.User{
		ID:          domain.UserID(u.ID),
		Username:    u.Username,
		External:    u.External,
		Permissions: u.Permissions,
	}
}

type usersResponse struct {
	Users []user `json:"users"`
}

type stream struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type streamsResponse struct {
	Total   int      `json:"total"`
	Streams []stream `json:"streams"`
}

type permissionsRequest struct {
	Permissions []string `json:"permissions"`
}
