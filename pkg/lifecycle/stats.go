package lifecycle

// Stats are derived counters, never stored independently. When visits is
// positive, SubmissionRate+BounceRate always equals 100; with no visits both
// ratios collapse to their defaults without dividing.
type Stats struct {
	Visits         int     `json:"visits"`
	Submissions    int     `json:"submissions"`
	SubmissionRate float64 `json:"submissionRate"`
	BounceRate     float64 `json:"bounceRate"`
}

// ComputeStats derives submission and bounce rates from raw counters.
func ComputeStats(visits, submissions int) Stats {
	stats := Stats{
		Visits:      visits,
		Submissions: submissions,
		BounceRate:  100,
	}
	if visits == 0 {
		stats.SubmissionRate = 0
		return stats
	}
	stats.SubmissionRate = float64(submissions) / float64(visits) * 100
	stats.BounceRate = 100 - stats.SubmissionRate
	return stats
}
