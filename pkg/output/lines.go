package output

import (
	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/iwvelando/lead-budget/internal/config"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/iwvelando/lead-budget/pkg/format"
)

// Kind selects how a metric value is rendered.
type Kind int

// Metric kinds
const (
	KindCount Kind = iota
	KindCurrency
	KindUnitCost
	KindPercent
	KindRatio
)

// Sections
const (
	SectionLeads      = "Lead volume"
	SectionChannels   = "Channel leads"
	SectionBudget     = "Annual budget"
	SectionFinancials = "Return"
)

// Line is one displayable metric of a budget.Result.
type Line struct {
	Key     string
	Section string
	Label   string
	Kind    Kind
	Value   float64
}

// Lines flattens r into its display order.
func Lines(r budget.Result) []Line {
	return []Line{
		{"leads.rmf", SectionLeads, "RMF service leads", KindCount, r.Leads.RMF},
		{"leads.auckland", SectionLeads, "Auckland service leads", KindCount, r.Leads.Auckland},
		{"leads.totalService", SectionLeads, "Total service leads", KindCount, r.Leads.TotalService},
		{"leads.franchise", SectionLeads, "Franchise leads", KindCount, r.Leads.Franchise},
		{"leads.commercial", SectionLeads, "Commercial leads", KindCount, r.Leads.Commercial},
		{"leads.total", SectionLeads, "Total leads", KindCount, r.Leads.Total},

		{"channels.googleService", SectionChannels, "Google service leads", KindCount, r.Channels.GoogleService},
		{"channels.metaService", SectionChannels, "Meta service leads", KindCount, r.Channels.MetaService},
		{"channels.googleFranchise", SectionChannels, "Google franchise leads", KindCount, r.Channels.GoogleFranchise},
		{"channels.metaFranchise", SectionChannels, "Meta franchise leads", KindCount, r.Channels.MetaFranchise},

		{"budget.googleService", SectionBudget, "Google service", KindCurrency, r.Budget.GoogleService},
		{"budget.googleFranchise", SectionBudget, "Google franchise", KindCurrency, r.Budget.GoogleFranchise},
		{"budget.googleTotal", SectionBudget, "Google total", KindCurrency, r.Budget.GoogleTotal},
		{"budget.metaService", SectionBudget, "Meta service", KindCurrency, r.Budget.MetaService},
		{"budget.metaFranchise", SectionBudget, "Meta franchise", KindCurrency, r.Budget.MetaFranchise},
		{"budget.metaTotal", SectionBudget, "Meta total", KindCurrency, r.Budget.MetaTotal},
		{"budget.linkedinTotal", SectionBudget, "LinkedIn commercial", KindCurrency, r.Budget.LinkedInTotal},
		{"budget.total", SectionBudget, "Total annual budget", KindCurrency, r.Budget.Total},
		{"budget.monthly", SectionBudget, "Average monthly budget", KindCurrency, r.Budget.Total / constants.MonthsPerYear},

		{"financials.customerLtv", SectionFinancials, "Customer lifetime value", KindCurrency, r.Financials.CustomerLTV},
		{"financials.convertedCustomers", SectionFinancials, "Converted customers", KindCount, r.Financials.ConvertedCustomers},
		{"financials.projectedRevenue", SectionFinancials, "Projected revenue", KindCurrency, r.Financials.ProjectedRevenue},
		{"financials.roiPercent", SectionFinancials, "ROI", KindPercent, r.Financials.ROIPercent},
		{"financials.costPerAcquisition", SectionFinancials, "Cost per acquisition", KindUnitCost, r.Financials.CostPerAcquisition},
		{"financials.ltvToCac", SectionFinancials, "LTV:CAC", KindRatio, r.Financials.LTVToCAC},
		{"financials.blendedCpl", SectionFinancials, "Blended CPL", KindUnitCost, r.Financials.BlendedCPL},
	}
}

// Options controls how values are rendered.
type Options struct {
	Formatter       *format.Formatter
	PercentDecimals int
}

// DefaultOptions renders with the default locale and one percent decimal.
func DefaultOptions() Options {
	return Options{
		Formatter:       format.Default(),
		PercentDecimals: constants.DefaultPercentDecimals,
	}
}

// NewOptions builds Options from the output section of a configuration.
func NewOptions(conf config.OutputConfig) Options {
	locale := conf.Locale
	if locale == "" {
		locale = constants.DefaultLocale
	}
	symbol := conf.CurrencySymbol
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	return Options{
		Formatter:       format.NewFormatter(locale, symbol),
		PercentDecimals: conf.PercentDecimals,
	}
}

// Value renders one line for display.
func (o Options) Value(l Line) string {
	f := o.Formatter
	if f == nil {
		f = format.Default()
	}
	switch l.Kind {
	case KindCurrency:
		return f.Currency(l.Value)
	case KindUnitCost:
		return f.CurrencyPrecise(l.Value, 2)
	case KindPercent:
		return f.Percent(l.Value, o.PercentDecimals)
	case KindRatio:
		return f.Ratio(l.Value)
	}
	return f.Count(l.Value)
}

// Display returns every formatted metric of r keyed by line key.
func (o Options) Display(r budget.Result) map[string]string {
	lines := Lines(r)
	out := make(map[string]string, len(lines))
	for _, l := range lines {
		out[l.Key] = o.Value(l)
	}
	return out
}
