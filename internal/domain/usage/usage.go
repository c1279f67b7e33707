package usage

import (
	"fmt"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/domain/usage/budget"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants. Budgets reset at UTC midnight and on the first of the month.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty means PeriodMonth.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonth, nil
	case PeriodDay, PeriodMonth:
		return Period(s), nil
	default:
		return "", fmt.Errorf("period must be %q or %q, got %q: %w", PeriodDay, PeriodMonth, s, domain.ErrValidation)
	}
}

// Report is the embedding token usage of this process for one period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	tokensUsed  int64
	budget      budget.Budget
}

// NewReport creates a usage report. start and end are unix millis.
func NewReport(period Period, start, end, tokensUsed int64, b budget.Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		tokensUsed:  tokensUsed,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// TokensUsed returns the embedding tokens billed in the period.
func (r *Report) TokensUsed() int64 { return r.tokensUsed }

// Budget returns the budget status.
func (r *Report) Budget() budget.Budget { return r.budget }
