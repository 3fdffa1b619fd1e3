package calc

import "math"

// PresentValue discounts a schedule at the given annual rate percent.
// Exponents are fractional years derived from the month offset, so two
// payments in the same quarter discount differently. A zero or negative
// rate degrades to the plain sum.
func PresentValue(schedule []Entry, ratePercent float64) float64 {
	r := ratePercent / 100
	if r <= 0 {
		var sum float64
		for _, e := range schedule {
			sum += e.Amount
		}
		return sum
	}
	var pv float64
	for _, e := range schedule {
		m := e.Month
		if m < 0 {
			m = 0
		}
		pv += e.Amount / math.Pow(1+r, float64(m)/12)
	}
	return pv
}

// EvaluateAcceptance runs every acceptance condition independently and keeps
// the actual vs. required values on each: the audit trail and override
// justification downstream depend on them, not just on the verdict.
func EvaluateAcceptance(proposalSchedule, standardSchedule []Entry, ratePercent float64, std StandardPlan) Evaluation {
	proposalPV := PresentValue(proposalSchedule, ratePercent)
	standardPV := PresentValue(standardSchedule, ratePercent)

	conditions := []Condition{{
		Key:      "pv_vs_standard",
		Label:    "Proposal PV compared to Standard PV",
		Proposal: proposalPV,
		Standard: standardPV,
		Pass:     proposalPV >= standardPV,
	}}

	propCum := CumulativeByYear(proposalSchedule, 2)
	stdCum := CumulativeByYear(standardSchedule, 2)
	conditions = append(conditions, Condition{
		Key:      "year1_cumulative",
		Label:    "Cumulative payments by end of Year 1",
		Proposal: propCum[0].Amount,
		Standard: stdCum[0].Amount,
		Pass:     propCum[0].Amount >= stdCum[0].Amount,
	})
	conditions = append(conditions, Condition{
		Key:      "year2_cumulative",
		Label:    "Cumulative payments by end of Year 2",
		Proposal: propCum[1].Amount,
		Standard: stdCum[1].Amount,
		Pass:     propCum[1].Amount >= stdCum[1].Amount,
	})

	if std.NPVTolerancePercent > 0 {
		minPV := standardPV * (std.NPVTolerancePercent / 100)
		conditions = append(conditions, Condition{
			Key:       "npv_tolerance",
			Label:     "NPV Tolerance Check",
			Proposal:  proposalPV,
			Threshold: minPV,
			Percent:   std.NPVTolerancePercent,
			Pass:      proposalPV >= minPV,
		})
	}

	decision := DecisionAccepted
	for _, c := range conditions {
		if !c.Pass {
			decision = DecisionNeedsOverride
			break
		}
	}

	return Evaluation{
		ProposalPV: proposalPV,
		StandardPV: standardPV,
		Difference: proposalPV - standardPV,
		Decision:   decision,
		Conditions: conditions,
	}
}

// Evaluate builds both schedules from the proposal and the unit's approved
// pricing and judges acceptance. Pure and side-effect free: used at plan
// submission and for UI preview alike.
func Evaluate(p Proposal, pricing UnitPricing, std StandardPlan) Result {
	proposalSchedule := BuildProposalSchedule(p, pricing, std)
	standardSchedule := BuildStandardBaselineSchedule(pricing, std, p.BaseDate)
	return Result{
		ProposalSchedule: proposalSchedule,
		StandardSchedule: standardSchedule,
		Evaluation:       EvaluateAcceptance(proposalSchedule, standardSchedule, std.RatePercent, std),
	}
}
