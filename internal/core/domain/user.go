package domain

type UserID string

// User is a Graylog account as returned by the users API.
type User struct {
	ID          UserID
	Username    string
	External    bool
	Permissions []string
}
