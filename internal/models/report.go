package models

import "time"

// ReportReason is the closed set of accepted abuse report reasons.
type ReportReason string

const (
	ReportReasonSpam             ReportReason = "spam"
	ReportReasonHarassment       ReportReason = "harassment"
	ReportReasonFalseInformation ReportReason = "false-information"
	ReportReasonHateSpeech       ReportReason = "hate-speech"
	ReportReasonOther            ReportReason = "other"
)

// Valid reports whether r is one of the accepted reasons.
func (r ReportReason) Valid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonHarassment, ReportReasonFalseInformation,
		ReportReasonHateSpeech, ReportReasonOther:
		return true
	}
	return false
}

// Report is an append-only abuse report on a post. Inserting a report also
// raises the post's flagged bit in the same transaction.
type Report struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	PostID       uint         `gorm:"not null;index" json:"post_id"`
	ReporterID   uint         `gorm:"not null" json:"reporter_id"`
	ReporterName string       `gorm:"not null" json:"reporter_name"`
	Reason       ReportReason `gorm:"not null" json:"reason"`
	CreatedAt    time.Time    `json:"created_at"`
}
