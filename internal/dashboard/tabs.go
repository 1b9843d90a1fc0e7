package dashboard

import (
	"fmt"

	"ecotrack/internal/charts"
	"ecotrack/internal/dataset"
	"ecotrack/pkg/contracts/domain"
)

// TabView renders the two charts of one tab for a selected value
type TabView interface {
	ID() domain.TabID
	Label() string
	Dropdown() domain.DropdownKind
	Charts(t *dataset.Table, value string) ([2]charts.Figure, error)
}

// dropdownColumn is the column whose unique values fill a dropdown
func dropdownColumn(kind domain.DropdownKind) string {
	if kind == domain.DropdownIndustries {
		return domain.ColIndustry
	}
	return domain.ColCompanyName
}

// Options returns the dropdown options of a view: the unique values of its
// column in order of first appearance.
func Options(t *dataset.Table, view TabView) ([]string, error) {
	opts, err := t.Unique(dropdownColumn(view.Dropdown()))
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = []string{}
	}
	return opts, nil
}

// filtered returns the rows of t matching value in the view's dropdown column
func filtered(t *dataset.Table, view TabView, value string) (*dataset.Table, error) {
	return t.Where(dropdownColumn(view.Dropdown()), value)
}

type overviewTab struct{}

func (overviewTab) ID() domain.TabID { return domain.TabOverview }
func (overviewTab) Label() string { return "Company Overview" }
func (overviewTab) Dropdown() domain.DropdownKind { return domain.DropdownCompanies }

func (v overviewTab) Charts(t *dataset.Table, company string) ([2]charts.Figure, error) {
	subset, err := filtered(t, v, company)
	if err != nil {
		return [2]charts.Figure{}, err
	}
	financials, err := charts.Line(subset, domain.ColYear, domain.FinancialColumns,
		fmt.Sprintf("%s - Revenue & MarketCap", company))
	if err != nil {
		return [2]charts.Figure{}, err
	}
	performance, err := charts.Bar(subset, domain.ColYear, domain.PerformanceColumns,
		fmt.Sprintf("%s - Profit Margin vs Growth Rate", company), charts.BarModeGroup)
	if err != nil {
		return [2]charts.Figure{}, err
	}
	return [2]charts.Figure{financials, performance}, nil
}

type esgTab struct{}

func (esgTab) ID() domain.TabID { return domain.TabESG }
func (esgTab) Label() string { return "ESG Scores" }
func (esgTab) Dropdown() domain.DropdownKind { return domain.DropdownCompanies }

func (v esgTab) Charts(t *dataset.Table, company string) ([2]charts.Figure, error) {
	subset, err := filtered(t, v, company)
	if err != nil {
		return [2]charts.Figure{}, err
	}
	trend, err := charts.Line(subset, domain.ColYear, []string{domain.ColESGOverall},
		fmt.Sprintf("%s - ESG Overall Trend", company))
	if err != nil {
		return [2]charts.Figure{}, err
	}
	breakdown, err := charts.Bar(subset, domain.ColYear, domain.ESGSubScoreColumns,
		fmt.Sprintf("%s - ESG Breakdown", company), charts.BarModeStack)
	if err != nil {
		return [2]charts.Figure{}, err
	}
	return [2]charts.Figure{trend, breakdown}, nil
}

type resourcesTab struct{}

func (resourcesTab) ID() domain.TabID { return domain.TabResources }
func (resourcesTab) Label() string { return "Resource Utilization" }
func (resourcesTab) Dropdown() domain.DropdownKind { return domain.DropdownCompanies }

// Charts plots the company's resource trends next to a treemap of the
// whole dataset; the treemap ignores the selection.
func (v resourcesTab) Charts(t *dataset.Table, company string) ([2]charts.Figure, error) {
	subset, err := filtered(t, v, company)
	if err != nil {
		return [2]charts.Figure{}, err
	}
	trends, err := charts.Line(subset, domain.ColYear, domain.ResourceColumns,
		fmt.Sprintf("%s - Resource Utilization Trends", company))
	if err != nil {
		return [2]charts.Figure{}, err
	}
	treemap, err := charts.Treemap(t, domain.ColIndustry, domain.ColCompanyName, domain.ColESGOverall,
		"Industry ESG Treemap")
	if err != nil {
		return [2]charts.Figure{}, err
	}
	return [2]charts.Figure{trends, treemap}, nil
}

type industryTab struct{}

func (industryTab) ID() domain.TabID { return domain.TabIndustry }
func (industryTab) Label() string { return "Industry Comparison" }
func (industryTab) Dropdown() domain.DropdownKind { return domain.DropdownIndustries }

func (v industryTab) Charts(t *dataset.Table, industry string) ([2]charts.Figure, error) {
	subset, err := filtered(t, v, industry)
	if err != nil {
		return [2]charts.Figure{}, err
	}
	margins, err := charts.Box(subset, domain.ColIndustry, domain.ColProfitMargin,
		fmt.Sprintf("Profit Margin Distribution - %s", industry))
	if err != nil {
		return [2]charts.Figure{}, err
	}
	bubbles, err := charts.Bubble(subset, domain.ColMarketCap, domain.ColESGOverall, domain.ColGrowthRate,
		domain.ColCompanyName, fmt.Sprintf("%s - MarketCap vs ESG Overall (Bubble = Growth Rate)", industry))
	if err != nil {
		return [2]charts.Figure{}, err
	}
	return [2]charts.Figure{margins, bubbles}, nil
}

// DefaultViews returns the dashboard tabs in display order
func DefaultViews() []TabView {
	return []TabView{overviewTab{}, esgTab{}, resourcesTab{}, industryTab{}}
}
