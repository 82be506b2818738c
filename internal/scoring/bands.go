package scoring

// Status is the label shown next to an ATS score.
type Status struct {
	Label string `json:"label"`
	Band  string `json:"band"`
}

// StatusFor maps an ATS total to its status band.
func StatusFor(total float64) Status {
	switch {
	case total >= 90:
		return Status{Label: "Excellent", Band: "excellent"}
	case total >= 80:
		return Status{Label: "Good", Band: "good"}
	case total >= 70:
		return Status{Label: "Fair", Band: "fair"}
	case total >= 60:
		return Status{Label: "Needs Work", Band: "needs-work"}
	default:
		return Status{Label: "Poor", Band: "poor"}
	}
}

// MatchLevel buckets a job match percentage.
type MatchLevel string

const (
	MatchStrong   MatchLevel = "strong"
	MatchModerate MatchLevel = "moderate"
	MatchWeak     MatchLevel = "weak"
)

// MatchLevelFor maps a job match total to its level.
func MatchLevelFor(total float64) MatchLevel {
	switch {
	case total >= 80:
		return MatchStrong
	case total >= 60:
		return MatchModerate
	default:
		return MatchWeak
	}
}
