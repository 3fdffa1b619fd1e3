// Package calc holds the pure pricing math: installment schedule
// construction, present-value discounting and the acceptance evaluation
// that compares a proposed payment plan against the standard baseline.
// Nothing in here touches storage or the clock beyond the dates it is given.
package calc

import "time"

type Frequency string

const (
	FreqMonthly    Frequency = "monthly"
	FreqQuarterly  Frequency = "quarterly"
	FreqBiannually Frequency = "biannually"
	FreqAnnually   Frequency = "annually"
)

// PaymentsPerYear returns 0 for an unknown frequency; callers that need a
// fallback default to monthly.
func (f Frequency) PaymentsPerYear() int {
	switch f {
	case FreqMonthly:
		return 12
	case FreqQuarterly:
		return 4
	case FreqBiannually:
		return 2
	case FreqAnnually:
		return 1
	}
	return 0
}

func (f Frequency) Valid() bool { return f.PaymentsPerYear() > 0 }

// Entry is one scheduled payment. Month is the offset in calendar months
// from the contract base date (0 = signing day). Date is YYYY-MM-DD and
// empty when no valid base date was supplied.
type Entry struct {
	Label  string  `json:"label"`
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date,omitempty"`
}

// YearPayment is one explicit first-year payment when the proposal splits
// year one instead of using a single down payment at month 0.
type YearPayment struct {
	Amount float64 `json:"amount"`
	Month  int     `json:"month"`
	Type   string  `json:"type,omitempty"` // "dp" or "regular"
}

// Proposal carries the structured schedule inputs of a payment plan. It is
// immutable once a plan is created; amendments go through a new plan version.
type Proposal struct {
	BaseDate                  string        `json:"base_date,omitempty"` // YYYY-MM-DD
	SalesDiscountPercent      float64       `json:"sales_discount_percent"`
	DPType                    string        `json:"dp_type,omitempty"` // "percentage" or "amount"
	DownPaymentValue          float64       `json:"down_payment_value"`
	SplitFirstYearPayments    bool          `json:"split_first_year_payments,omitempty"`
	FirstYearPayments         []YearPayment `json:"first_year_payments,omitempty"`
	AdditionalHandoverPayment float64       `json:"additional_handover_payment,omitempty"`
	HandoverYear              int           `json:"handover_year,omitempty"`
	PlanDurationYears         int           `json:"plan_duration_years,omitempty"` // 0 = use standard plan
	InstallmentFrequency      Frequency     `json:"installment_frequency,omitempty"`
	MaintenancePaymentAmount  float64       `json:"maintenance_payment_amount,omitempty"`
	MaintenancePaymentMonth   int           `json:"maintenance_payment_month,omitempty"`
	GaragePaymentAmount       float64       `json:"garage_payment_amount,omitempty"`
	GaragePaymentMonth        int           `json:"garage_payment_month,omitempty"`
}

// UnitPricing is the set of approved standard price components for a unit.
type UnitPricing struct {
	Base        float64 `json:"price"`
	Maintenance float64 `json:"maintenance_price"`
	Garage      float64 `json:"garage_price"`
	Garden      float64 `json:"garden_price"`
	Roof        float64 `json:"roof_price"`
	Storage     float64 `json:"storage_price"`
}

func (p UnitPricing) Total() float64 {
	return p.Base + p.Maintenance + p.Garage + p.Garden + p.Roof + p.Storage
}

// StandardPlan is the benchmark payment structure for a unit.
type StandardPlan struct {
	PlanDurationYears    int       `json:"plan_duration_years"`
	InstallmentFrequency Frequency `json:"installment_frequency"`
	RatePercent          float64   `json:"std_financial_rate_percent"`
	NPVTolerancePercent  float64   `json:"npv_tolerance_percent,omitempty"`
}

type Decision string

const (
	DecisionAccepted      Decision = "accepted"
	DecisionNeedsOverride Decision = "needs_override"
)

// Condition is one independent acceptance check with the actual values that
// produced it, kept for audit display and override justification.
type Condition struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Proposal  float64 `json:"proposal"`
	Standard  float64 `json:"standard,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Percent   float64 `json:"percent,omitempty"`
	Pass      bool    `json:"pass"`
}

type Evaluation struct {
	ProposalPV float64     `json:"proposal_pv"`
	StandardPV float64     `json:"standard_pv"`
	Difference float64     `json:"difference"`
	Decision   Decision    `json:"decision"`
	Conditions []Condition `json:"conditions"`
}

// Result bundles everything a caller needs from a full evaluation: both
// schedules plus the acceptance verdict.
type Result struct {
	ProposalSchedule []Entry `json:"proposal_schedule"`
	StandardSchedule []Entry `json:"standard_schedule"`
	Evaluation
}

// ParseBaseDate parses a YYYY-MM-DD contract date. An empty or malformed
// value yields the zero time; schedules built from it simply carry no dates.
func ParseBaseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
