package store

import "github.com/envault/envault/pkg/model"

// Unlimited marks a plan limit that is never reached
const Unlimited = -1

// Limits are the quotas of a subscription plan
type Limits struct {
	Projects    int
	Secrets     int
	TeamMembers int
}

var planLimits = map[string]Limits{
	model.PlanFree: {Projects: 3, Secrets: 100, TeamMembers: 1},
	model.PlanPro:  {Projects: 25, Secrets: 5000, TeamMembers: 10},
	model.PlanTeam: {Projects: Unlimited, Secrets: Unlimited, TeamMembers: Unlimited},
}

// LimitsFor returns the quotas of plan. Unknown plans get the free quotas.
func LimitsFor(plan string) Limits {
	if l, ok := planLimits[plan]; ok {
		return l
	}
	return planLimits[model.PlanFree]
}

// Within reports whether used is below limit
func Within(used int64, limit int) bool {
	return limit == Unlimited || used < int64(limit)
}

// PlanLimits is the usage report for a user's plan
type PlanLimits struct {
	Plan             string `json:"plan"`
	Status           string `json:"status"`
	ProjectsUsed     int64  `json:"projects_used"`
	ProjectsLimit    int    `json:"projects_limit"`
	SecretsUsed      int64  `json:"secrets_used"`
	SecretsLimit     int    `json:"secrets_limit"`
	TeamMembersLimit int    `json:"team_members_limit"`
	CanCreateProject bool   `json:"can_create_project"`
	CanCreateSecret  bool   `json:"can_create_secret"`
}

// PlanStore reads subscription plans and usage
type PlanStore interface {
	// CheckPlanLimits reports the plan and usage of a user. Users without
	// an active subscription are on the free plan.
	CheckPlanLimits(userID string) (*PlanLimits, error)
}
