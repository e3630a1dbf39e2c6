package monitoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graylogsync/internal/core/domain"
	apperrors "graylogsync/pkg/errors"
)

func testSummary() *domain.Summary {
	return &domain.Summary{
		RunID: "run-1",
		Results: []domain.UserResult{
			{Username: "admin", Action: domain.SyncSkipped},
			{Username: "alice", Action: domain.SyncUpdated, Added: []string{"streams:read:9", "streams:edit:9"}, Removed: []string{"streams:read:3"}},
			{Username: "bob", Action: domain.SyncUnchanged},
			{Username: "carol", Action: domain.SyncDeleted},
		},
	}
}

func TestSyncCollector_RecordSuccess(t *testing.T) {
	c := NewSyncCollector()
	c.RecordRun(testSummary(), nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.usersProcessed.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.usersProcessed.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.usersProcessed.WithLabelValues("skipped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.permsChanged.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.permsChanged.WithLabelValues("removed")))
	assert.Greater(t, testutil.ToFloat64(c.lastSuccess), 0.0)
}

func TestSyncCollector_RecordFailure(t *testing.T) {
	c := NewSyncCollector()

	err := apperrors.NewDirectoryUnavailableError(errors.New("connection refused"), "ldap://dir")
	c.RecordRun(&domain.Summary{}, err)
	c.RecordRun(nil, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsTotal.WithLabelValues("DIRECTORY_UNAVAILABLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsTotal.WithLabelValues("INTERNAL_ERROR")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.lastSuccess))
	assert.Greater(t, testutil.ToFloat64(c.lastRun), 0.0)
}

func TestSyncCollector_WriteTextfile(t *testing.T) {
	c := NewSyncCollector()
	c.RecordRun(testSummary(), nil)

	path := filepath.Join(t.TempDir(), "graylogsync.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `graylogsync_runs_total{result="success"} 1`)
	assert.Contains(t, string(data), `graylogsync_users{action="updated"} 1`)
}
