package codec

import (
	"errors"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/keyscheme"
)

// UserCodec stores users under USER#<id>/PROFILE, indexed by team.
func UserCodec() Codec {
	return New(statustable.EntityUser, userKeys, userData, decodeUser)
}

func userKeys(u statustable.User, _ time.Time) Keys {
	gpk, gsk := keyscheme.SecondaryKeyFor(statustable.EntityUser, u.Team, u.ID)
	return Keys{
		PK:     keyscheme.PartitionKeyFor(statustable.EntityUser, u.ID),
		SK:     keyscheme.SortKeyFor(statustable.EntityUser, "", ""),
		GSI1PK: gpk,
		GSI1SK: gsk,
	}
}

func userData(u statustable.User) map[string]any {
	return map[string]any{
		"name":  u.Name,
		"email": u.Email,
		"team":  u.Team,
	}
}

func decodeUser(it item.GenericItem) (statustable.User, error) {
	var u statustable.User
	var err error
	if u.ID, err = keyscheme.ParsePartitionKey(statustable.EntityUser, it.PK); err != nil {
		return u, err
	}
	var errs [3]error
	u.Name, errs[0] = getString(it.Data, "name")
	u.Email, errs[1] = getString(it.Data, "email")
	u.Team, errs[2] = getString(it.Data, "team")
	return u, errors.Join(errs[:]...)
}

// IssueCodec stores all issues in the ISSUE partition ordered by creation,
// indexed by status.
func IssueCodec() Codec {
	return New(statustable.EntityIssue, issueKeys, issueData, decodeIssue)
}

func issueKeys(i statustable.Issue, _ time.Time) Keys {
	sk := keyscheme.SortKeyFor(statustable.EntityIssue, i.ID, keyscheme.OrderingToken(i.CreatedAt))
	gpk, gsk := keyscheme.SecondaryKeyFor(statustable.EntityIssue, string(i.Status), sk)
	return Keys{
		PK:     keyscheme.PartitionKeyFor(statustable.EntityIssue, keyscheme.IssueBucket),
		SK:     sk,
		GSI1PK: gpk,
		GSI1SK: gsk,
	}
}

func issueData(i statustable.Issue) map[string]any {
	data := map[string]any{
		"title":       i.Title,
		"description": i.Description,
		"status":      string(i.Status),
		"assigneeId":  i.AssigneeID,
		"priority":    i.Priority,
	}
	putTime(data, "resolvedAt", i.ResolvedAt)
	return data
}

func decodeIssue(it item.GenericItem) (statustable.Issue, error) {
	var i statustable.Issue
	id, token, err := keyscheme.ParseSortKey(statustable.EntityIssue, it.SK)
	if err != nil {
		return i, err
	}
	created, err := keyscheme.ParseOrderingToken(token)
	if err != nil {
		return i, err
	}
	i.ID, i.CreatedAt = id, created

	var status string
	var errs [6]error
	i.Title, errs[0] = getString(it.Data, "title")
	i.Description, errs[1] = getString(it.Data, "description")
	status, errs[2] = getString(it.Data, "status")
	i.AssigneeID, errs[3] = getString(it.Data, "assigneeId")
	i.Priority, errs[4] = getInt(it.Data, "priority")
	i.ResolvedAt, errs[5] = getTime(it.Data, "resolvedAt")
	i.Status = statustable.IssueStatus(status)
	return i, errors.Join(errs[:]...)
}

// WorkloadCodec stores one workload status per user under WORKLOAD#<id>/STATUS,
// indexed by level and ordered within a level by the time of the last write.
func WorkloadCodec() Codec {
	return New(statustable.EntityWorkload, workloadKeys, workloadData, decodeWorkload)
}

func workloadKeys(w statustable.WorkloadStatus, now time.Time) Keys {
	gpk, gsk := keyscheme.SecondaryKeyFor(statustable.EntityWorkload, string(w.Level), keyscheme.RecencyToken(now, w.UserID))
	return Keys{
		PK:     keyscheme.PartitionKeyFor(statustable.EntityWorkload, w.UserID),
		SK:     keyscheme.SortKeyFor(statustable.EntityWorkload, "", ""),
		GSI1PK: gpk,
		GSI1SK: gsk,
	}
}

func workloadData(w statustable.WorkloadStatus) map[string]any {
	return map[string]any{
		"level":        string(w.Level),
		"projectCount": w.ProjectCount,
		"taskCount":    w.TaskCount,
	}
}

func decodeWorkload(it item.GenericItem) (statustable.WorkloadStatus, error) {
	var w statustable.WorkloadStatus
	var err error
	if w.UserID, err = keyscheme.ParsePartitionKey(statustable.EntityWorkload, it.PK); err != nil {
		return w, err
	}
	var level string
	var errs [3]error
	level, errs[0] = getString(it.Data, "level")
	w.ProjectCount, errs[1] = getInt(it.Data, "projectCount")
	w.TaskCount, errs[2] = getInt(it.Data, "taskCount")
	w.Level = statustable.WorkloadLevel(level)
	return w, errors.Join(errs[:]...)
}
