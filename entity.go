package statustable

import (
	"time"

	"github.com/google/uuid"
)

// EntityType names a domain entity kind. It doubles as the item type
// discriminator stored with every item.
type EntityType string

const (
	EntityUser     EntityType = "USER"
	EntityIssue    EntityType = "ISSUE"
	EntityWorkload EntityType = "WORKLOAD"
)

// Entity is a closed sum of the domain entities stored in the table.
// Only types in this package implement it.
type Entity interface {
	EntityType() EntityType
	sealed()
}

// User is a team member profile.
type User struct {
	ID    string
	Name  string
	Email string
	// Team is optional. Users without a team are not indexed by team.
	Team string
}

func (User) EntityType() EntityType { return EntityUser }
func (User) sealed()                {}

type IssueStatus string

const (
	IssueOpen       IssueStatus = "OPEN"
	IssueInProgress IssueStatus = "IN_PROGRESS"
	IssueResolved   IssueStatus = "RESOLVED"
	IssueClosed     IssueStatus = "CLOSED"
)

// Done reports whether the issue no longer needs attention.
func (s IssueStatus) Done() bool {
	return s == IssueResolved || s == IssueClosed
}

// Issue is a tracked problem reported to the team.
//
// Stored times are normalized to UTC without a monotonic reading, so a
// decoded issue compares equal to the saved one only when its times were
// already UTC. Compare times with time.Time.Equal otherwise.
type Issue struct {
	ID          string
	Title       string
	Description string
	Status      IssueStatus
	AssigneeID  string
	Priority    int
	// CreatedAt orders issues chronologically, it is part of the issue's keys.
	CreatedAt time.Time
	// ResolvedAt is set once the issue is resolved or closed.
	ResolvedAt *time.Time
}

func (Issue) EntityType() EntityType { return EntityIssue }
func (Issue) sealed()                {}

// NewIssueID returns a fresh random issue identifier.
func NewIssueID() string {
	return uuid.NewString()
}

type WorkloadLevel string

const (
	WorkloadLow    WorkloadLevel = "LOW"
	WorkloadMedium WorkloadLevel = "MEDIUM"
	WorkloadHigh   WorkloadLevel = "HIGH"
)

// WorkloadStatus is the current workload of one user. There is at most one per user.
type WorkloadStatus struct {
	UserID       string
	Level        WorkloadLevel
	ProjectCount int
	TaskCount    int
}

func (WorkloadStatus) EntityType() EntityType { return EntityWorkload }
func (WorkloadStatus) sealed()                {}
