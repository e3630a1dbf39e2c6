package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"graylogsync/internal/core/domain"
	"graylogsync/internal/core/ports"
	apperrors "graylogsync/pkg/errors"
	"graylogsync/pkg/logger"
	"graylogsync/pkg/tracing"
)

// ReconcilerOptions tune a run without changing its semantics.
type ReconcilerOptions struct {
	// DryRun decides every change but never calls update or delete.
	DryRun bool
	// VerifyStreams warns about policy stream ids missing on the platform.
	VerifyStreams bool
}

type reconciler struct {
	directory ports.DirectoryClient
	platform  ports.PlatformClient
	policy    *domain.Policy
	reporter  ports.Reporter
	metrics   ports.MetricsRecorder
	log       *logger.ContextLogger
	opts      ReconcilerOptions
}

// NewReconciler wires the reconciliation pass. reporter and metrics may be nil.
func NewReconciler(
	directory ports.DirectoryClient,
	platform ports.PlatformClient,
	policy *domain.Policy,
	reporter ports.Reporter,
	metrics ports.MetricsRecorder,
	log *zap.SugaredLogger,
	opts ReconcilerOptions,
) ports.Reconciler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &reconciler{
		directory: directory,
		platform:  platform,
		policy:    policy,
		reporter:  reporter,
		metrics:   metrics,
		log:       logger.NewContextLogger(log),
		opts:      opts,
	}
}

// Run performs one reconciliation pass. On error the summary holds every
// user handled before the failure; their changes are not rolled back.
func (r *reconciler) Run(ctx context.Context) (summary *domain.Summary, err error) {
	summary = &domain.Summary{RunID: uuid.NewString(), DryRun: r.opts.DryRun}
	ctx = logger.WithRunID(ctx, summary.RunID)

	ctx, span := tracing.StartSpan(ctx, "reconcile.run")
	defer span.End()
	tracing.AddSpanAttributes(ctx, tracing.RunIDKey.String(summary.RunID))

	defer func() {
		if err != nil {
			tracing.RecordError(ctx, err)
		}
		if r.metrics != nil {
			r.metrics.RecordRun(summary, err)
		}
	}()

	groups, err := r.directory.FetchGroups(ctx)
	if err != nil {
		return summary, err
	}
	members := groupMembers(groups)
	tracing.AddSpanAttributes(ctx, tracing.GroupCountKey.Int(len(groups)))
	r.log.LogInfo(ctx, "fetched directory groups", "groups", len(groups))

	groupPerms := r.groupPermissions(ctx)

	if r.opts.VerifyStreams {
		if err := r.verifyStreams(ctx); err != nil {
			return summary, err
		}
	}

	users, err := r.platform.ListUsers(ctx)
	if err != nil {
		return summary, apperrors.NewPlatformRequestError(err, "list users")
	}
	tracing.AddSpanAttributes(ctx, tracing.UserCountKey.Int(len(users)))
	r.log.LogInfo(ctx, "fetched platform users", "users", len(users))

	for _, user := range users {
		result, err := r.reconcileUser(ctx, user, members, groupPerms)
		if err != nil {
			return summary, err
		}
		summary.Results = append(summary.Results, result)
		if r.reporter != nil {
			r.reporter.Report(result)
		}
	}

	r.log.LogInfo(ctx, "reconciliation finished",
		"updated", summary.Count(domain.SyncUpdated),
		"deleted", summary.Count(domain.SyncDeleted),
		"unchanged", summary.Count(domain.SyncUnchanged),
		"skipped", summary.Count(domain.SyncSkipped),
		"dry_run", summary.DryRun,
	)
	return summary, nil
}

// groupPermissions precomputes the permissions of every policy group that
// has at least one stream entry.
func (r *reconciler) groupPermissions(ctx context.Context) map[string][]string {
	perms := make(map[string][]string)
	for name, entry := range r.policy.Groups {
		if entry == nil || len(entry.Streams) == 0 {
			continue
		}
		perms[name] = MapGrants(domain.ResourceStreams, entry.Streams)
		r.warnUnknownRoles(ctx, "group", name, entry.Streams)
	}
	return perms
}

func (r *reconciler) warnUnknownRoles(ctx context.Context, kind, name string, grants []domain.StreamGrant) {
	for _, g := range grants {
		if MapRole(domain.ResourceStreams, g.Role, string(g.ID)) == nil {
			r.log.LogDebug(ctx, "ignoring unknown role",
				"kind", kind, "name", name, "stream", g.ID, "role", g.Role)
		}
	}
}

func (r *reconciler) reconcileUser(
	ctx context.Context,
	user domain.User,
	members []namedGroup,
	groupPerms map[string][]string,
) (domain.UserResult, error) {
	result := domain.UserResult{Username: user.Username, UserID: user.ID}
	if !user.External {
		result.Action = domain.SyncSkipped
		return result, nil
	}

	ctx = logger.WithUsername(ctx, user.Username)
	ctx, span := tracing.TraceUserReconcile(ctx, user.Username)
	defer span.End()

	working := CleanPermissions(user.Permissions)
	if override, ok := r.policy.Users[user.Username]; ok && override != nil {
		working = append(working, MapGrants(domain.ResourceStreams, override.Streams)...)
		r.warnUnknownRoles(ctx, "user", user.Username, override.Streams)
	}

	inGroup := false
	for _, g := range members {
		if !g.members.Contains(user.Username) {
			continue
		}
		inGroup = true
		if perms, ok := groupPerms[g.name]; ok {
			working = append(working, perms...)
		}
	}

	if !inGroup {
		result.Action = domain.SyncDeleted
		tracing.AddSpanAttributes(ctx, tracing.SyncActionKey.String(string(result.Action)))
		if r.opts.DryRun {
			r.log.LogInfo(ctx, "would delete user not present in any directory group")
			return result, nil
		}
		if err := r.platform.DeleteUser(ctx, user.ID); err != nil {
			tracing.RecordError(ctx, err)
			return result, apperrors.NewPlatformRequestError(err, "delete user").
				WithContext("username", user.Username).
				WithContext("user_id", string(user.ID))
		}
		r.log.LogInfo(ctx, "deleted user not present in any directory group")
		return result, nil
	}

	oldSet := domain.NewPermissionSet(user.Permissions...)
	newSet := domain.NewPermissionSet(working...)
	removed := oldSet.Difference(newSet)
	added := newSet.Difference(oldSet)

	result.Permissions = newSet.Slice()
	result.Added = added.Slice()
	result.Removed = removed.Slice()
	result.Unchanged = oldSet.Intersection(newSet).Slice()

	if removed.Empty() && added.Empty() {
		result.Action = domain.SyncUnchanged
		r.log.LogDebug(ctx, "permissions unchanged")
		return result, nil
	}

	result.Action = domain.SyncUpdated
	tracing.AddSpanAttributes(ctx, tracing.SyncActionKey.String(string(result.Action)))
	if r.opts.DryRun {
		r.log.LogInfo(ctx, "would update permissions", "added", result.Added, "removed", result.Removed)
		return result, nil
	}
	if err := r.platform.SetPermissions(ctx, user.Username, result.Permissions); err != nil {
		tracing.RecordError(ctx, err)
		return result, apperrors.NewPlatformRequestError(err, "set permissions").
			WithContext("username", user.Username)
	}
	r.log.LogInfo(ctx, "updated permissions", "added", result.Added, "removed", result.Removed)
	return result, nil
}

// verifyStreams logs every policy stream id the platform does not know about.
func (r *reconciler) verifyStreams(ctx context.Context) error {
	streams, err := r.platform.ListStreams(ctx)
	if err != nil {
		return apperrors.NewPlatformRequestError(err, "list streams")
	}
	known := make(map[domain.StreamID]struct{}, len(streams))
	for _, s := range streams {
		known[s.ID] = struct{}{}
	}
	for _, id := range r.policy.StreamIDs() {
		if _, ok := known[id]; !ok {
			r.log.LogWarn(ctx, "policy references unknown stream", "stream", id)
		}
	}
	return nil
}
