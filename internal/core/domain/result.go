package domain

type SyncAction string

const (
	SyncSkipped   SyncAction = "skipped"
	SyncUnchanged SyncAction = "unchanged"
	SyncUpdated   SyncAction = "updated"
	SyncDeleted   SyncAction = "deleted"
)

// UserResult is the outcome of reconciling one platform user.
type UserResult struct {
	Username    string
	UserID      UserID
	Action      SyncAction
	Permissions []string
	Added       []string
	Removed     []string
	Unchanged   []string
}

// Summary describes one reconciliation run.
type Summary struct {
	RunID   string
	DryRun  bool
	Results []UserResult
}

// Count returns how many users ended with the given action.
func (s *Summary) Count(action SyncAction) int {
	n := 0
	for _, r := range s.Results {
		if r.Action == action {
			n++
		}
	}
	return n
}
