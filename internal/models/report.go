package models

import "time"

// Report reasons.
const (
	ReasonSpam          = "spam"
	ReasonHarassment    = "harassment"
	ReasonHateSpeech    = "hate_speech"
	ReasonViolence      = "violence"
	ReasonInappropriate = "inappropriate"
	ReasonCopyright     = "copyright"
	ReasonOther         = "other"
)

// Report statuses.
const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report is a moderation record. Unlike likes/follows, a duplicate report
// by the same reporter on the same target is an error, not an idempotent
// no-op. Status moves only along the transitions in ValidReportTransition
// and only privileged principals may move it.
type Report struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ReporterID  uint      `json:"reporter_id" gorm:"uniqueIndex:idx_reports_reporter_target"`
	TargetType  string    `json:"target_type" gorm:"size:20;uniqueIndex:idx_reports_reporter_target;index:idx_reports_target"`
	TargetID    uint      `json:"target_id" gorm:"uniqueIndex:idx_reports_reporter_target;index:idx_reports_target"`
	Reason      string    `json:"reason" gorm:"size:15"`
	Description string    `json:"description" gorm:"size:1000"`
	Status      string    `json:"status" gorm:"size:10;default:pending;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var reportTransitions = map[string][]string{
	ReportPending:  {ReportReviewed, ReportResolved, ReportDismissed},
	ReportReviewed: {ReportResolved, ReportDismissed},
	// resolved and dismissed are terminal
}

// ValidReportTransition reports whether a report status may move from one
// state to another.
func ValidReportTransition(from, to string) bool {
	for _, s := range reportTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
