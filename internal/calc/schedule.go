package calc

import (
	"sort"
	"time"
)

const (
	labelEqualInstallment = "Equal Installment"
	labelDownPayment      = "Down Payment"
	labelDownPaymentSplit = "Down Payment (Y1 split)"
	labelFirstYear        = "First Year"
	labelHandover         = "Handover"
	labelMaintenanceFee   = "Maintenance Fee"
	labelGarageFee        = "Garage Fee"
)

// dueDate advances the base date by monthOffset calendar months and formats
// it as YYYY-MM-DD. A zero base yields an empty string, never an error.
func dueDate(base time.Time, monthOffset int) string {
	if base.IsZero() {
		return ""
	}
	return base.AddDate(0, monthOffset, 0).Format("2006-01-02")
}

// BuildEqualSchedule spreads total over years at the given frequency.
// Entry i lands at month floor(i*12/n) from the base date. An unknown
// frequency falls back to monthly; at least one payment is always emitted.
func BuildEqualSchedule(total float64, years int, freq Frequency, baseDate string) []Entry {
	nPerYear := freq.PaymentsPerYear()
	if nPerYear == 0 {
		nPerYear = 12
	}
	if years < 1 {
		years = 1
	}
	totalPayments := years * nPerYear
	if totalPayments < 1 {
		totalPayments = 1
	}
	perPayment := total / float64(totalPayments)
	base := ParseBaseDate(baseDate)

	schedule := make([]Entry, 0, totalPayments)
	for i := 0; i < totalPayments; i++ {
		month := i * 12 / nPerYear
		schedule = append(schedule, Entry{
			Label:  labelEqualInstallment,
			Month:  month,
			Amount: perPayment,
			Date:   dueDate(base, month),
		})
	}
	return schedule
}

// BuildProposalSchedule composes the full schedule for a proposed plan:
// down payment at month 0 (or explicit first-year splits), optional handover
// payment, one-time fees outside the sales discount, and the remaining
// discounted balance as equal installments. Entries come back in the
// canonical (month, label) order.
func BuildProposalSchedule(p Proposal, pricing UnitPricing, std StandardPlan) []Entry {
	var schedule []Entry
	base := ParseBaseDate(p.BaseDate)

	totalNominal := pricing.Total() * (1 - p.SalesDiscountPercent/100)

	var dpAmt float64
	if p.DPType == "percentage" {
		dpAmt = totalNominal * (p.DownPaymentValue / 100)
	} else {
		dpAmt = p.DownPaymentValue
	}
	if dpAmt > 0 {
		schedule = append(schedule, Entry{Label: labelDownPayment, Month: 0, Amount: dpAmt, Date: dueDate(base, 0)})
	}

	if p.SplitFirstYearPayments {
		for _, fp := range p.FirstYearPayments {
			if fp.Amount <= 0 || fp.Month < 0 {
				continue
			}
			label := labelFirstYear
			if fp.Type == "dp" {
				label = labelDownPaymentSplit
			}
			schedule = append(schedule, Entry{Label: label, Month: fp.Month, Amount: fp.Amount, Date: dueDate(base, fp.Month)})
		}
	}

	if p.AdditionalHandoverPayment > 0 && p.HandoverYear > 0 {
		hm := p.HandoverYear * 12
		schedule = append(schedule, Entry{Label: labelHandover, Month: hm, Amount: p.AdditionalHandoverPayment, Date: dueDate(base, hm)})
	}

	var allocated float64
	for _, e := range schedule {
		allocated += e.Amount
	}
	remaining := totalNominal - allocated
	if remaining < 0 {
		remaining = 0
	}

	years := p.PlanDurationYears
	if years == 0 {
		years = std.PlanDurationYears
	}
	if years < 1 {
		years = 1
	}
	freq := p.InstallmentFrequency
	if freq == "" {
		freq = std.InstallmentFrequency
	}
	if freq == "" {
		freq = FreqMonthly
	}
	schedule = append(schedule, BuildEqualSchedule(remaining, years, freq, p.BaseDate)...)

	// One-time fees sit outside the discounted total.
	if p.MaintenancePaymentAmount > 0 {
		m := p.MaintenancePaymentMonth
		schedule = append(schedule, Entry{Label: labelMaintenanceFee, Month: m, Amount: p.MaintenancePaymentAmount, Date: dueDate(base, m)})
	}
	if p.GaragePaymentAmount > 0 {
		m := p.GaragePaymentMonth
		schedule = append(schedule, Entry{Label: labelGarageFee, Month: m, Amount: p.GaragePaymentAmount, Date: dueDate(base, m)})
	}

	sortSchedule(schedule)
	return schedule
}

// BuildStandardBaselineSchedule is the benchmark: the unit's full approved
// price spread as equal installments over the standard plan terms, no down
// payment.
func BuildStandardBaselineSchedule(pricing UnitPricing, std StandardPlan, baseDate string) []Entry {
	years := std.PlanDurationYears
	if years < 1 {
		years = 1
	}
	freq := std.InstallmentFrequency
	if freq == "" {
		freq = FreqMonthly
	}
	schedule := BuildEqualSchedule(pricing.Total(), years, freq, baseDate)
	sortSchedule(schedule)
	return schedule
}

func sortSchedule(schedule []Entry) {
	sort.SliceStable(schedule, func(i, j int) bool {
		if schedule[i].Month != schedule[j].Month {
			return schedule[i].Month < schedule[j].Month
		}
		return schedule[i].Label < schedule[j].Label
	})
}

// YearTotal is the cumulative amount falling inside one plan year
// (year 1 covers months 0..11).
type YearTotal struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// CumulativeByYear buckets schedule amounts by plan year. With a positive
// yearsLimit the result is zero-filled up to that year and later entries are
// dropped; otherwise it runs to the last year present.
func CumulativeByYear(schedule []Entry, yearsLimit int) []YearTotal {
	totals := map[int]float64{}
	maxYear := 0
	for _, e := range schedule {
		m := e.Month
		if m < 0 {
			m = 0
		}
		year := m/12 + 1
		if yearsLimit > 0 && year > yearsLimit {
			continue
		}
		totals[year] += e.Amount
		if year > maxYear {
			maxYear = year
		}
	}
	if yearsLimit > 0 {
		maxYear = yearsLimit
	}
	out := make([]YearTotal, 0, maxYear)
	for y := 1; y <= maxYear; y++ {
		out = append(out, YearTotal{Year: y, Amount: totals[y]})
	}
	return out
}
