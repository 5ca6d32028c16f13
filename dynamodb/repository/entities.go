package repository

import (
	"context"
	"iter"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/keyscheme"
	"github.com/acksell/statustable/dynamodb/singletable"
)

func (r *Repository) GetUser(ctx context.Context, id string) (*statustable.User, error) {
	return getAs[statustable.User](ctx, r,
		keyscheme.PartitionKeyFor(statustable.EntityUser, id),
		keyscheme.SortKeyFor(statustable.EntityUser, "", ""))
}

// UsersByTeam lists the members of team ordered by user id.
func (r *Repository) UsersByTeam(ctx context.Context, team string) iter.Seq2[statustable.User, error] {
	pk := keyscheme.IndexPartition(statustable.EntityUser, team)
	return live[statustable.User](r, r.store.QueryByIndex(ctx, pk, nil))
}

// GetIssue looks up an issue by id and creation time, both part of its key.
func (r *Repository) GetIssue(ctx context.Context, id string, createdAt time.Time) (*statustable.Issue, error) {
	return getAs[statustable.Issue](ctx, r,
		keyscheme.PartitionKeyFor(statustable.EntityIssue, keyscheme.IssueBucket),
		keyscheme.SortKeyFor(statustable.EntityIssue, id, keyscheme.OrderingToken(createdAt)))
}

// ListIssues lists issues oldest first. A non-empty createdPrefix restricts
// the listing to ordering tokens starting with it, e.g. "2024-01" for one month.
func (r *Repository) ListIssues(ctx context.Context, createdPrefix string) iter.Seq2[statustable.Issue, error] {
	pk := keyscheme.PartitionKeyFor(statustable.EntityIssue, keyscheme.IssueBucket)
	return live[statustable.Issue](r, r.store.QueryByPartition(ctx, pk, createdPrefix))
}

// IssuesByStatus lists issues with status created in [from, to], oldest
// first. A zero from or to leaves that side open.
func (r *Repository) IssuesByStatus(ctx context.Context, status statustable.IssueStatus, from, to time.Time) iter.Seq2[statustable.Issue, error] {
	pk := keyscheme.IndexPartition(statustable.EntityIssue, string(status))
	return live[statustable.Issue](r, r.store.QueryByIndex(ctx, pk, createdRange(from, to)))
}

func createdRange(from, to time.Time) *singletable.Range {
	var rng singletable.Range
	if !from.IsZero() {
		rng.Lo = keyscheme.OrderingToken(from)
	}
	if !to.IsZero() {
		// include every id created at exactly to
		rng.Hi = keyscheme.UpperBound(keyscheme.OrderingToken(to) + keyscheme.Separator)
	}
	return &rng
}

func (r *Repository) GetWorkload(ctx context.Context, userID string) (*statustable.WorkloadStatus, error) {
	return getAs[statustable.WorkloadStatus](ctx, r,
		keyscheme.PartitionKeyFor(statustable.EntityWorkload, userID),
		keyscheme.SortKeyFor(statustable.EntityWorkload, "", ""))
}

// WorkloadsByLevel lists the workload statuses at level, least recently
// written first.
func (r *Repository) WorkloadsByLevel(ctx context.Context, level statustable.WorkloadLevel) iter.Seq2[statustable.WorkloadStatus, error] {
	pk := keyscheme.IndexPartition(statustable.EntityWorkload, string(level))
	return live[statustable.WorkloadStatus](r, r.store.QueryByIndex(ctx, pk, nil))
}
