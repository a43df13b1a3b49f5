// Package payment computes early-payment discount economics from
// payment-term strings.
package payment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultHurdleRate is the annual cost of capital a discount APR must beat
// before early payment is recommended.
const DefaultHurdleRate = 0.10

// Term patterns like "2/10 Net 30" (optionally "2%/10, net 30") and bare
// "Net 30".
var (
	discountTermRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%?/(\d+)\s*,?\s*[Nn]et\s*(\d+)`)
	netTermRe      = regexp.MustCompile(`[Nn]et\s*(\d+)`)
)

// Optimizer recommends when to pay an invoice. It is a pure function of
// its inputs; it never mutates invoice or vendor state.
type Optimizer struct {
	// HurdleRate is the annualized rate to beat, e.g. 0.10 for 10%.
	HurdleRate float64
}

// NewOptimizer creates an optimizer with the default hurdle rate.
func NewOptimizer() *Optimizer {
	return &Optimizer{HurdleRate: DefaultHurdleRate}
}

// Optimize parses the invoice's payment terms (falling back to the
// vendor's default terms) and recommends a payment date. A nil
// recommendation with a nil anomaly means the terms were absent or
// unparseable, which is not an error. A malformed discount window returns
// a nil recommendation with an anomaly instead of dividing by a
// non-positive interval, and parseable terms with no invoice date return
// an anomaly instead of dates anchored to the zero time.
func (o *Optimizer) Optimize(terms, fallbackTerms string, amount decimal.Decimal, invoiceDate time.Time) (*model.PaymentRecommendation, *model.Anomaly) {
	parsed := strings.TrimSpace(terms)
	if rec, anomaly, ok := o.evaluate(parsed, amount, invoiceDate); ok {
		return rec, anomaly
	}

	fallback := strings.TrimSpace(fallbackTerms)
	if rec, anomaly, ok := o.evaluate(fallback, amount, invoiceDate); ok {
		return rec, anomaly
	}

	return nil, nil
}

// evaluate returns ok=false when the string matches no known term shape.
func (o *Optimizer) evaluate(terms string, amount decimal.Decimal, invoiceDate time.Time) (*model.PaymentRecommendation, *model.Anomaly, bool) {
	if terms == "" {
		return nil, nil, false
	}

	if m := discountTermRe.FindStringSubmatch(terms); m != nil {
		if anomaly := missingDateAnomaly(terms, invoiceDate); anomaly != nil {
			return nil, anomaly, true
		}
		rec, anomaly := o.evaluateDiscount(terms, m, amount, invoiceDate)
		return rec, anomaly, true
	}

	if m := netTermRe.FindStringSubmatch(terms); m != nil {
		if anomaly := missingDateAnomaly(terms, invoiceDate); anomaly != nil {
			return nil, anomaly, true
		}
		netDays, _ := strconv.Atoi(m[1])
		due := invoiceDate.AddDate(0, 0, netDays)
		return &model.PaymentRecommendation{
			Terms:          terms,
			DueDate:        due,
			OptimalPayDate: due,
			Savings:        decimal.Zero,
			Reasoning:      fmt.Sprintf("standard Net %d terms; pay on due date", netDays),
		}, nil, true
	}

	return nil, nil, false
}

// missingDateAnomaly reports an absent invoice date for terms that would
// otherwise produce a recommendation. Discount and due dates are anchored
// to the invoice date; without one any schedule would be fiction.
func missingDateAnomaly(terms string, invoiceDate time.Time) *model.Anomaly {
	if !invoiceDate.IsZero() {
		return nil
	}
	return &model.Anomaly{
		Kind:     model.AnomalyMissingField,
		Severity: model.SeverityWarning,
		Detail:   fmt.Sprintf("invoice date is absent; cannot schedule payment for terms %q", terms),
	}
}

func (o *Optimizer) evaluateDiscount(terms string, m []string, amount decimal.Decimal, invoiceDate time.Time) (*model.PaymentRecommendation, *model.Anomaly) {
	discountPercent, err := decimal.NewFromString(m[1])
	if err != nil {
		return nil, nil
	}
	discountDays, _ := strconv.Atoi(m[2])
	netDays, _ := strconv.Atoi(m[3])

	if netDays <= discountDays {
		return nil, &model.Anomaly{
			Kind:     model.AnomalyMissingField,
			Severity: model.SeverityWarning,
			Detail: fmt.Sprintf("malformed payment terms %q: net period (%d days) does not exceed discount window (%d days)",
				terms, netDays, discountDays),
		}
	}

	hundred := decimal.NewFromInt(100)
	if discountPercent.LessThanOrEqual(decimal.Zero) || discountPercent.GreaterThanOrEqual(hundred) {
		return nil, &model.Anomaly{
			Kind:     model.AnomalyMissingField,
			Severity: model.SeverityWarning,
			Detail:   fmt.Sprintf("malformed payment terms %q: discount %s%% out of range", terms, discountPercent),
		}
	}

	// APR = (d% / (100 - d%)) * (365 / (net - discount))
	d, _ := discountPercent.Float64()
	apr := (d / (100 - d)) * (365.0 / float64(netDays-discountDays))

	discountDate := invoiceDate.AddDate(0, 0, discountDays)
	dueDate := invoiceDate.AddDate(0, 0, netDays)
	savings := amount.Mul(discountPercent).Div(hundred).Round(2)

	hurdle := o.HurdleRate
	if hurdle <= 0 {
		hurdle = DefaultHurdleRate
	}

	if apr > hurdle {
		return &model.PaymentRecommendation{
			Terms:           terms,
			DiscountPercent: discountPercent,
			DiscountDate:    discountDate,
			DueDate:         dueDate,
			OptimalPayDate:  discountDate,
			APR:             apr,
			Savings:         savings,
			PayEarly:        true,
			Reasoning: fmt.Sprintf("pay early to capture %s%% discount; implied APR %.1f%% beats %.1f%% hurdle",
				discountPercent, apr*100, hurdle*100),
		}, nil
	}

	return &model.PaymentRecommendation{
		Terms:           terms,
		DiscountPercent: discountPercent,
		DiscountDate:    discountDate,
		DueDate:         dueDate,
		OptimalPayDate:  dueDate,
		APR:             apr,
		Savings:         decimal.Zero,
		Reasoning: fmt.Sprintf("pay on due date; discount APR %.1f%% is below the %.1f%% hurdle",
			apr*100, hurdle*100),
	}, nil
}
