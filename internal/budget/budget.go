// Package budget defines the marketing budget data structures and the pure
// calculation that turns lead targets and cost assumptions into channel
// budgets and return metrics.
package budget

import (
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/iwvelando/lead-budget/pkg/mathutil"
)

// Inputs holds every assumption the calculation needs. Values are expected to
// be finite and already bounded by the input collector.
type Inputs struct {
	Regions                   int     `json:"regions" yaml:"regions"`
	RMFLeadsPerWeek           float64 `json:"rmfLeadsPerWeek" yaml:"rmfLeadsPerWeek"`
	AucklandLeadsPerWeek      float64 `json:"aucklandLeadsPerWeek" yaml:"aucklandLeadsPerWeek"`
	FranchiseLeadsPerMonth    float64 `json:"franchiseLeadsPerMonth" yaml:"franchiseLeadsPerMonth"`
	CommercialLeadsPerQuarter float64 `json:"commercialLeadsPerQuarter" yaml:"commercialLeadsPerQuarter"`

	GoogleServiceCPL   float64 `json:"googleServiceCpl" yaml:"googleServiceCpl"`
	MetaServiceCPL     float64 `json:"metaServiceCpl" yaml:"metaServiceCpl"`
	GoogleFranchiseCPL float64 `json:"googleFranchiseCpl" yaml:"googleFranchiseCpl"`
	MetaFranchiseCPL   float64 `json:"metaFranchiseCpl" yaml:"metaFranchiseCpl"`
	LinkedInCPL        float64 `json:"linkedinCpl" yaml:"linkedinCpl"`

	MonthlyFee      float64 `json:"monthlyFee" yaml:"monthlyFee"`
	RetentionMonths float64 `json:"retentionMonths" yaml:"retentionMonths"`
	ConversionRate  float64 `json:"conversionRate" yaml:"conversionRate"`
	GoogleSplit     float64 `json:"googleSplit" yaml:"googleSplit"`
}

// Constants is the fixed table of period multipliers and franchise ratios.
type Constants struct {
	WeeksPerYear         float64 `json:"weeksPerYear"`
	MonthsPerYear        float64 `json:"monthsPerYear"`
	QuartersPerYear      float64 `json:"quartersPerYear"`
	FranchiseGoogleRatio float64 `json:"franchiseGoogleRatio"`
	FranchiseMetaRatio   float64 `json:"franchiseMetaRatio"`
}

// DefaultConstants returns the business constants used by every calculation.
func DefaultConstants() Constants {
	return Constants{
		WeeksPerYear:         constants.WeeksPerYear,
		MonthsPerYear:        constants.MonthsPerYear,
		QuartersPerYear:      constants.QuartersPerYear,
		FranchiseGoogleRatio: constants.FranchiseGoogleRatio,
		FranchiseMetaRatio:   constants.FranchiseMetaRatio,
	}
}

// LeadMetrics holds annualized lead counts per segment.
type LeadMetrics struct {
	RMF          float64 `json:"rmf"`
	Auckland     float64 `json:"auckland"`
	TotalService float64 `json:"totalService"`
	Franchise    float64 `json:"franchise"`
	Commercial   float64 `json:"commercial"`
	Total        float64 `json:"total"`
}

// ChannelLeads holds the split of the service and franchise segments across
// Google and Meta.
type ChannelLeads struct {
	GoogleService   float64 `json:"googleService"`
	MetaService     float64 `json:"metaService"`
	GoogleFranchise float64 `json:"googleFranchise"`
	MetaFranchise   float64 `json:"metaFranchise"`
}

// BudgetAllocation holds annual spend per channel and campaign type.
type BudgetAllocation struct {
	GoogleService      float64 `json:"googleService"`
	MetaService        float64 `json:"metaService"`
	GoogleFranchise    float64 `json:"googleFranchise"`
	MetaFranchise      float64 `json:"metaFranchise"`
	LinkedInCommercial float64 `json:"linkedinCommercial"`
	GoogleTotal        float64 `json:"googleTotal"`
	MetaTotal          float64 `json:"metaTotal"`
	LinkedInTotal      float64 `json:"linkedinTotal"`
	Total              float64 `json:"total"`
}

// FinancialMetrics holds customer value and return metrics.
type FinancialMetrics struct {
	CustomerLTV        float64 `json:"customerLtv"`
	ConvertedCustomers float64 `json:"convertedCustomers"`
	ProjectedRevenue   float64 `json:"projectedRevenue"`
	ROIPercent         float64 `json:"roiPercent"`
	CostPerAcquisition float64 `json:"costPerAcquisition"`
	LTVToCAC           float64 `json:"ltvToCac"`
	BlendedCPL         float64 `json:"blendedCpl"`
}

// Result is the full set of derived metrics for one Inputs record.
type Result struct {
	Leads      LeadMetrics      `json:"leads"`
	Channels   ChannelLeads     `json:"channels"`
	Budget     BudgetAllocation `json:"budget"`
	Financials FinancialMetrics `json:"financials"`
}

// Compute derives lead volumes, channel budgets and return metrics from in.
// It has no side effects and returns identical results for identical inputs.
// Values are kept at full precision; rounding is left to the formatter.
func Compute(in Inputs, c Constants) Result {
	var r Result

	// Annualize each segment.
	r.Leads.RMF = float64(in.Regions) * in.RMFLeadsPerWeek * c.WeeksPerYear
	r.Leads.Auckland = in.AucklandLeadsPerWeek * c.WeeksPerYear
	r.Leads.TotalService = r.Leads.RMF + r.Leads.Auckland
	r.Leads.Franchise = in.FranchiseLeadsPerMonth * c.MonthsPerYear
	r.Leads.Commercial = in.CommercialLeadsPerQuarter * c.QuartersPerYear
	r.Leads.Total = r.Leads.TotalService + r.Leads.Franchise + r.Leads.Commercial

	// Service leads follow the user split; franchise leads follow the fixed ratios.
	r.Channels.GoogleService = r.Leads.TotalService * in.GoogleSplit
	r.Channels.MetaService = r.Leads.TotalService * (1 - in.GoogleSplit)
	r.Channels.GoogleFranchise = r.Leads.Franchise * c.FranchiseGoogleRatio
	r.Channels.MetaFranchise = r.Leads.Franchise * c.FranchiseMetaRatio

	r.Budget.GoogleService = r.Channels.GoogleService * in.GoogleServiceCPL
	r.Budget.MetaService = r.Channels.MetaService * in.MetaServiceCPL
	r.Budget.GoogleFranchise = r.Channels.GoogleFranchise * in.GoogleFranchiseCPL
	r.Budget.MetaFranchise = r.Channels.MetaFranchise * in.MetaFranchiseCPL
	r.Budget.LinkedInCommercial = r.Leads.Commercial * in.LinkedInCPL

	r.Budget.GoogleTotal = r.Budget.GoogleService + r.Budget.GoogleFranchise
	r.Budget.MetaTotal = r.Budget.MetaService + r.Budget.MetaFranchise
	r.Budget.LinkedInTotal = r.Budget.LinkedInCommercial
	r.Budget.Total = r.Budget.GoogleTotal + r.Budget.MetaTotal + r.Budget.LinkedInTotal

	// Only service leads convert into recurring customers.
	r.Financials.CustomerLTV = in.MonthlyFee * in.RetentionMonths
	r.Financials.ConvertedCustomers = r.Leads.TotalService * in.ConversionRate
	r.Financials.ProjectedRevenue = r.Financials.ConvertedCustomers * r.Financials.CustomerLTV

	r.Financials.ROIPercent = mathutil.CalculatePercentage(r.Financials.ProjectedRevenue-r.Budget.Total, r.Budget.Total)
	r.Financials.CostPerAcquisition = mathutil.SafeDivide(r.Budget.Total, r.Financials.ConvertedCustomers)
	r.Financials.LTVToCAC = mathutil.SafeDivide(r.Financials.CustomerLTV, r.Financials.CostPerAcquisition)
	// zero leads yield 0 rather than NaN, matching the other ratios
	r.Financials.BlendedCPL = mathutil.SafeDivide(r.Budget.Total, r.Leads.Total)

	return r
}

// Calculator memoizes the most recent computation so that repeated requests
// for unchanged inputs skip the arithmetic. It is not safe for concurrent use.
type Calculator struct {
	constants Constants
	last      *Inputs
	result    Result
	runs      int
}

// NewCalculator returns a Calculator bound to the given constants table.
func NewCalculator(c Constants) *Calculator {
	return &Calculator{constants: c}
}

// Compute returns the result for in, recomputing only when in differs from the
// previous call.
func (calc *Calculator) Compute(in Inputs) Result {
	if calc.last != nil && *calc.last == in {
		return calc.result
	}
	calc.result = Compute(in, calc.constants)
	saved := in
	calc.last = &saved
	calc.runs++
	return calc.result
}

// Runs reports how many times the calculation actually executed.
func (calc *Calculator) Runs() int {
	return calc.runs
}
