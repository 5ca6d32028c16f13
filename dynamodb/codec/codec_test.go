package codec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/codec"
	"github.com/acksell/statustable/dynamodb/expiry"
	"github.com/acksell/statustable/dynamodb/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func TestRoundTrip(t *testing.T) {
	resolved := t0.Add(-time.Hour)
	entities := []statustable.Entity{
		statustable.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Team: "platform"},
		statustable.User{ID: "u2", Name: "Lin"},
		statustable.Issue{
			ID:          "i1",
			Title:       "CI is red",
			Description: "flaky test",
			Status:      statustable.IssueOpen,
			AssigneeID:  "u1",
			Priority:    2,
			CreatedAt:   t0.Add(-48*time.Hour + 123),
		},
		statustable.Issue{
			ID:         "i2",
			Title:      "fixed",
			Status:     statustable.IssueResolved,
			CreatedAt:  t0.Add(-72 * time.Hour),
			ResolvedAt: &resolved,
		},
		statustable.WorkloadStatus{UserID: "u1", Level: statustable.WorkloadHigh, ProjectCount: 3, TaskCount: 5},
	}

	r := codec.Default()
	for _, e := range entities {
		t.Run(string(e.EntityType()), func(t *testing.T) {
			it, err := r.Encode(e, t0)
			require.NoError(t, err)
			require.NoError(t, it.Validate())
			assert.Equal(t, string(e.EntityType()), it.ItemType)

			got, err := r.Decode(it, t1)
			require.NoError(t, err)
			assert.Equal(t, e, got)

			// through the wire layout, numbers come back as int64
			av, err := it.Marshal()
			require.NoError(t, err)
			wired, err := item.Unmarshal(av)
			require.NoError(t, err)
			got, err = r.Decode(wired, t1)
			require.NoError(t, err)
			assert.Equal(t, e, got)
		})
	}
}

func TestEncode_Keys(t *testing.T) {
	r := codec.Default()

	it, err := r.Encode(statustable.User{ID: "u1", Team: "platform"}, t0)
	require.NoError(t, err)
	assert.Equal(t, "USER#u1", it.PK)
	assert.Equal(t, "PROFILE", it.SK)
	assert.Equal(t, "TEAM#platform", *it.GSI1PK)
	assert.Equal(t, "USER#u1", *it.GSI1SK)

	it, err = r.Encode(statustable.User{ID: "u1"}, t0)
	require.NoError(t, err)
	assert.False(t, it.HasIndexKeys())

	it, err = r.Encode(statustable.Issue{ID: "i1", Status: statustable.IssueInProgress, CreatedAt: t0}, t0)
	require.NoError(t, err)
	assert.Equal(t, "ISSUE", it.PK)
	assert.Equal(t, "2024-01-01T12:00:00.000000000Z#i1", it.SK)
	assert.Equal(t, "STATUS#IN_PROGRESS", *it.GSI1PK)
	assert.Equal(t, it.SK, *it.GSI1SK)
	assert.Nil(t, it.TTL)
}

func TestEncode_IndexKeysFollowState(t *testing.T) {
	r := codec.Default()
	w := statustable.WorkloadStatus{UserID: "u1", Level: statustable.WorkloadHigh}

	first, err := r.Encode(w, t0)
	require.NoError(t, err)
	again, err := r.Encode(w, t0)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	w.Level = statustable.WorkloadLow
	changed, err := r.Encode(w, t1, codec.WithExisting(&first))
	require.NoError(t, err)
	assert.Equal(t, first.PK, changed.PK)
	assert.Equal(t, first.SK, changed.SK)
	assert.Equal(t, "LEVEL#LOW", *changed.GSI1PK)
}

func TestEncode_WithExisting(t *testing.T) {
	r := codec.Default()
	w := statustable.WorkloadStatus{UserID: "u1", Level: statustable.WorkloadHigh, ProjectCount: 3, TaskCount: 5}
	prev, err := r.Encode(w, t0)
	require.NoError(t, err)
	assert.Equal(t, t0, prev.CreatedAt)
	assert.Equal(t, t0, prev.UpdatedAt)

	t.Run("preserves created at", func(t *testing.T) {
		next, err := r.Encode(w, t1, codec.WithExisting(&prev))
		require.NoError(t, err)
		assert.Equal(t, t0, next.CreatedAt)
		assert.Equal(t, t1, next.UpdatedAt)
	})

	t.Run("clamps updated at", func(t *testing.T) {
		next, err := r.Encode(w, t0.Add(-time.Minute), codec.WithExisting(&prev))
		require.NoError(t, err)
		assert.Equal(t, t0, next.UpdatedAt)
	})

	t.Run("rejects type change", func(t *testing.T) {
		other := prev
		other.ItemType = string(statustable.EntityUser)
		_, err := r.Encode(w, t1, codec.WithExisting(&other))
		assert.ErrorIs(t, err, codec.ErrItemTypeChanged)
	})

	t.Run("rejects other keys", func(t *testing.T) {
		other := prev
		other.PK = "WORKLOAD#u2"
		_, err := r.Encode(w, t1, codec.WithExisting(&other))
		assert.Error(t, err)
	})
}

func TestEncode_TTL(t *testing.T) {
	r := codec.NewRegistry(expiry.New(expiry.WithIssueRetention(time.Hour)),
		codec.UserCodec(), codec.IssueCodec(), codec.WorkloadCodec())
	issue := statustable.Issue{ID: "i1", Status: statustable.IssueClosed, CreatedAt: t0, ResolvedAt: &t0}

	it, err := r.Encode(issue, t0)
	require.NoError(t, err)
	require.NotNil(t, it.TTL)
	assert.Equal(t, t1.Unix(), *it.TTL)

	_, err = r.Decode(it, t1.Add(-time.Second))
	assert.NoError(t, err)

	_, err = r.Decode(it, t1)
	var expired *codec.ExpiredError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, it.PK, expired.PK)
	assert.True(t, codec.IsExpired(err))
}

func TestEncode_TTLRoundsUp(t *testing.T) {
	policy := expiry.New()
	r := codec.NewRegistry(policy, codec.UserCodec(), codec.IssueCodec(), codec.WorkloadCodec())
	resolved := time.Date(2024, 1, 1, 12, 0, 0, 700_000_000, time.UTC)
	issue := statustable.Issue{ID: "i1", Status: statustable.IssueResolved, CreatedAt: t0, ResolvedAt: &resolved}

	it, err := r.Encode(issue, resolved)
	require.NoError(t, err)
	at := policy.ExpiryFor(issue, resolved)
	require.NotNil(t, at)
	require.NotNil(t, it.TTL)
	assert.Equal(t, at.Unix()+1, *it.TTL)

	got, err := r.Decode(it, at.Add(-200*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, issue, got)

	_, err = r.Decode(it, at.Add(time.Second))
	assert.True(t, codec.IsExpired(err))
}

func TestEncode_WorkloadIndexOrdersByWrite(t *testing.T) {
	r := codec.Default()
	w := statustable.WorkloadStatus{UserID: "u1", Level: statustable.WorkloadHigh}

	first, err := r.Encode(w, t0)
	require.NoError(t, err)
	later, err := r.Encode(w, t1, codec.WithExisting(&first))
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01T12:00:00.000000000Z#u1", *first.GSI1SK)
	assert.Less(t, *first.GSI1SK, *later.GSI1SK)
	assert.Equal(t, first.SK, later.SK)
}

func TestRoundTrip_TimesNormalizedToUTC(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	created := time.Date(2024, 1, 1, 13, 0, 0, 5, zone)
	resolved := time.Now().In(zone)
	issue := statustable.Issue{ID: "i1", Status: statustable.IssueResolved, CreatedAt: created, ResolvedAt: &resolved}

	it, err := codec.Default().Encode(issue, resolved)
	require.NoError(t, err)
	e, err := codec.Default().Decode(it, resolved)
	require.NoError(t, err)
	got := e.(statustable.Issue)

	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.True(t, got.CreatedAt.Equal(created))
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, got.ResolvedAt.Equal(resolved))
	assert.Equal(t, resolved.UTC().Round(0), *got.ResolvedAt)
}

func TestDecode_UnknownType(t *testing.T) {
	it := item.GenericItem{PK: "PROJECT#p1", SK: "META", ItemType: "PROJECT", CreatedAt: t0, UpdatedAt: t0}
	_, err := codec.Default().Decode(it, t0)

	var unknown *codec.UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "PROJECT", unknown.ItemType)
	assert.False(t, codec.IsExpired(err))
}

func TestDecode_BadPayload(t *testing.T) {
	it, err := codec.Default().Encode(statustable.WorkloadStatus{UserID: "u1", Level: statustable.WorkloadLow}, t0)
	require.NoError(t, err)
	it.Data["taskCount"] = "many"

	_, err = codec.Default().Decode(it, t0)
	assert.ErrorContains(t, err, "taskCount")
}

func TestNewRegistry_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		codec.NewRegistry(expiry.New(), codec.UserCodec(), codec.UserCodec())
	})
}

func TestWorkloadScenario(t *testing.T) {
	r := codec.Default()
	w := statustable.WorkloadStatus{UserID: "u1", Level: statustable.WorkloadHigh, ProjectCount: 3, TaskCount: 5}

	first, err := r.Encode(w, t0)
	require.NoError(t, err)
	assert.Equal(t, "WORKLOAD#u1", first.PK)
	assert.Equal(t, "STATUS", first.SK)

	w.Level = statustable.WorkloadLow
	second, err := r.Encode(w, t1, codec.WithExisting(&first))
	require.NoError(t, err)
	assert.Equal(t, t0, second.CreatedAt)
	assert.Equal(t, t1, second.UpdatedAt)

	got, err := r.Decode(second, t1)
	require.NoError(t, err)
	assert.Equal(t, w, got)
}
