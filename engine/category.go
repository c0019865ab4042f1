/*
category.go - Category evaluation against a requirement ladder

PURPOSE:
  Decides which tariff tier an instructor qualifies for in one
  discipline and period. Tiers are evaluated top-down (strictest first);
  the first tier whose EVERY declared threshold is met wins. The base
  tier declares nothing and always qualifies, so evaluation never comes
  up empty.

MANUAL OVERRIDE:
  A manually assigned category (set by the operations team) bypasses
  this component entirely; see engine.go.

An instructor may hold different categories in different disciplines in
the same period: evaluation is always per (instructor, discipline,
period).

SEE ALSO:
  - metrics.go: The aggregated inputs
  - formula.go: CategoryRequirement and ladder ordering
*/
package engine

// EvaluateCategory walks the ladder top-down and returns the first fully
// satisfied tier, falling back to the base (last) tier.
func EvaluateCategory(ladder []CategoryRequirement, m Metrics) CategoryName {
	if len(ladder) == 0 {
		return ""
	}
	for _, req := range ladder {
		if meets(req, m) {
			return req.Name
		}
	}
	return ladder[len(ladder)-1].Name
}

// meets reports whether every declared threshold of the requirement is
// satisfied. Undeclared (nil) thresholds are skipped.
func meets(req CategoryRequirement, m Metrics) bool {
	if req.MinOccupancy != nil && m.AverageOccupancy.LessThan(*req.MinOccupancy) {
		return false
	}
	if req.MinClassesPerWeek != nil && m.ClassesPerWeek.LessThan(*req.MinClassesPerWeek) {
		return false
	}
	if req.MinVenues != nil && m.DistinctVenues < *req.MinVenues {
		return false
	}
	if req.MinBackToBack != nil && m.BackToBackCount < *req.MinBackToBack {
		return false
	}
	if req.MinOffPeak != nil && m.OffPeakCount < *req.MinOffPeak {
		return false
	}
	if req.RequireEventParticipation != nil && m.EventParticipation != *req.RequireEventParticipation {
		return false
	}
	if req.RequireGuidelineCompliance != nil && m.GuidelineCompliance != *req.RequireGuidelineCompliance {
		return false
	}
	if req.MinSeniorityMonths != nil && m.SeniorityMonths < *req.MinSeniorityMonths {
		return false
	}
	if req.MinEvaluationScore != nil && m.EvaluationScore.LessThan(*req.MinEvaluationScore) {
		return false
	}
	if req.RequireTraining != nil && m.TrainingCompleted != *req.RequireTraining {
		return false
	}
	return true
}
