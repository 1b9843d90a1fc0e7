package eda

import (
	"math"

	"ecotrack/internal/charts"
	"ecotrack/internal/dataset"
	"ecotrack/pkg/contracts/domain"
)

// IndustryESGTrend plots mean ESG_Overall per Year with one line per
// Industry, industries in order of first appearance.
func IndustryESGTrend(t *dataset.Table) (charts.Figure, error) {
	industries, err := t.Unique(domain.ColIndustry)
	if err != nil {
		return charts.Figure{}, err
	}
	groups, err := t.GroupMean([]string{domain.ColIndustry, domain.ColYear}, domain.ColESGOverall)
	if err != nil {
		return charts.Figure{}, err
	}

	byIndustry := make(map[string]*charts.Trace, len(industries))
	fig := charts.NewFigure("Industry ESG Scores Over Time")
	for _, ind := range industries {
		fig.Data = append(fig.Data, charts.Trace{
			Type: charts.TypeScatter,
			Mode: charts.ModeLinesMarkers,
			Name: ind,
			X:    charts.Values{},
			Y:    charts.Values{},
		})
	}
	for i := range fig.Data {
		byIndustry[fig.Data[i].Name] = &fig.Data[i]
	}

	for _, g := range groups {
		trace, ok := byIndustry[g.Keys[0]]
		if !ok {
			continue
		}
		trace.X = append(trace.X.(charts.Values), g.KeyValues[1])
		trace.Y = append(trace.Y.(charts.Values), g.Mean)
	}

	fig.Layout.XAxis = &charts.Axis{Title: &charts.Title{Text: domain.ColYear}}
	fig.Layout.YAxis = &charts.Axis{Title: &charts.Title{Text: domain.ColESGOverall}}
	fig.Layout.Legend = &charts.Legend{Title: &charts.Title{Text: domain.ColIndustry}}
	return fig, nil
}

// WaterUsageByCompany plots mean WaterUsage per CompanyName as bars, in
// order of first appearance.
func WaterUsageByCompany(t *dataset.Table) (charts.Figure, error) {
	companies, err := t.Unique(domain.ColCompanyName)
	if err != nil {
		return charts.Figure{}, err
	}
	groups, err := t.GroupMean([]string{domain.ColCompanyName}, domain.ColWaterUsage)
	if err != nil {
		return charts.Figure{}, err
	}

	means := make(map[string]float64, len(groups))
	for _, g := range groups {
		means[g.Keys[0]] = g.Mean
	}

	y := make(charts.Values, len(companies))
	for i, c := range companies {
		mean, ok := means[c]
		if !ok {
			mean = math.NaN()
		}
		y[i] = mean
	}
	if companies == nil {
		companies = []string{}
	}

	fig := charts.NewFigure("Water Usage by Company")
	fig.Data = append(fig.Data, charts.Trace{
		Type: charts.TypeBar,
		Name: domain.ColWaterUsage,
		X:    companies,
		Y:    y,
	})
	fig.Layout.XAxis = &charts.Axis{Title: &charts.Title{Text: domain.ColCompanyName}}
	fig.Layout.YAxis = &charts.Axis{Title: &charts.Title{Text: domain.ColWaterUsage}}
	return fig, nil
}
