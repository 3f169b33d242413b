package model

type ScreeningSeverity string

const (
	ScreeningSeverityMinimal          ScreeningSeverity = "minimal"
	ScreeningSeverityMild             ScreeningSeverity = "mild"
	ScreeningSeverityModerate         ScreeningSeverity = "moderate"
	ScreeningSeverityModeratelySevere ScreeningSeverity = "moderately_severe"
	ScreeningSeveritySevere           ScreeningSeverity = "severe"
)

// RequiresAdminAlert reports whether a completed screening at this
// severity must fan out an alert to every active administrator.
func (s ScreeningSeverity) RequiresAdminAlert() bool {
	return s == ScreeningSeverityModeratelySevere || s == ScreeningSeveritySevere
}

// ScreeningResult is supplied by the questionnaire-scoring collaborator;
// only the alerting hook lives in this service.
type ScreeningResult struct {
	StudentID int64             `json:"student_id"`
	Severity  ScreeningSeverity `json:"severity"`
}
