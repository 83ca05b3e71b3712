package model

import (
	"time"

	"github.com/google/uuid"
)

// Plan type constants
const (
	PlanTypePastClients = "past-clients"
	PlanTypeOpenHouse   = "open-house"
)

// Timeline constants
const (
	Timeline30Days = "30days"
	Timeline60Days = "60days"
	Timeline90Days = "90days"
)

// Plan status constants
const (
	PlanStatusDraft      = "draft"
	PlanStatusGenerating = "generating"
	PlanStatusCompleted  = "completed"
	PlanStatusFailed     = "failed"
)

// Channel constants
const (
	ChannelEmail     = "email"
	ChannelVoicemail = "voicemail"
	ChannelVideo     = "video"
	ChannelText      = "text"
)

var (
	PlanTypes    = []string{PlanTypePastClients, PlanTypeOpenHouse}
	Timelines    = []string{Timeline30Days, Timeline60Days, Timeline90Days}
	PlanStatuses = []string{PlanStatusDraft, PlanStatusGenerating, PlanStatusCompleted, PlanStatusFailed}
	Channels     = []string{ChannelEmail, ChannelVoicemail, ChannelVideo, ChannelText}
)

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func ValidPlanType(v string) bool   { return oneOf(v, PlanTypes) }
func ValidTimeline(v string) bool   { return oneOf(v, Timelines) }
func ValidPlanStatus(v string) bool { return oneOf(v, PlanStatuses) }
func ValidChannel(v string) bool    { return oneOf(v, Channels) }

// Plan represents a user-owned marketing campaign. AccountID never changes
// after creation; content stays null until a generation completes.
type Plan struct {
	Base
	AccountID uuid.UUID  `json:"account_id" db:"account_id"`
	Title     string     `json:"title" db:"title"`
	PlanType  string     `json:"plan_type" db:"plan_type"`
	Channels  StringList `json:"channels" db:"channels"`
	Timeline  string     `json:"timeline" db:"timeline"`
	Status    string     `json:"status" db:"status"`
	Content   JSONMap    `json:"content" db:"content"`
}

// CreatePlanRequest represents plan creation parameters.
type CreatePlanRequest struct {
	Title    string   `json:"title"`
	PlanType string   `json:"plan_type" binding:"required,plantype"`
	Channels []string `json:"channels" binding:"required,min=1,dive,planchannel"`
	Timeline string   `json:"timeline" binding:"required,plantimeline"`
}

// UpdatePlanRequest represents a partial plan update. Nil fields retain
// their stored value.
type UpdatePlanRequest struct {
	Title    *string  `json:"title"`
	PlanType *string  `json:"plan_type" binding:"omitempty,plantype"`
	Channels []string `json:"channels" binding:"omitempty,min=1,dive,planchannel"`
	Timeline *string  `json:"timeline" binding:"omitempty,plantimeline"`
	Status   *string  `json:"status" binding:"omitempty,planstatus"`
	Content  JSONMap  `json:"content"`
}

// GeneratedPlan records one generation event for a plan. Append-only, so
// there is no updated_at.
type GeneratedPlan struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AccountID uuid.UUID `json:"account_id" db:"account_id"`
	PlanID    uuid.UUID `json:"plan_id" db:"plan_id"`
	Content   JSONMap   `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
