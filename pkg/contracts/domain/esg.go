// Package domain holds the column names and identifiers shared by the
// loader, cleaner, dashboard and API layers.
package domain

// Column names of the company ESG/financial dataset
const (
	ColCompanyName       = "CompanyName"
	ColIndustry          = "Industry"
	ColYear              = "Year"
	ColRevenue           = "Revenue"
	ColMarketCap         = "MarketCap"
	ColProfitMargin      = "ProfitMargin"
	ColGrowthRate        = "GrowthRate"
	ColESGOverall        = "ESG_Overall"
	ColESGEnvironmental  = "ESG_Environmental"
	ColESGSocial         = "ESG_Social"
	ColESGGovernance     = "ESG_Governance"
	ColCarbonEmissions   = "CarbonEmissions"
	ColWaterUsage        = "WaterUsage"
	ColEnergyConsumption = "EnergyConsumption"
)

// Columns lists the expected dataset columns in file order
var Columns = []string{
	ColCompanyName,
	ColIndustry,
	ColYear,
	ColRevenue,
	ColMarketCap,
	ColProfitMargin,
	ColGrowthRate,
	ColESGOverall,
	ColESGEnvironmental,
	ColESGSocial,
	ColESGGovernance,
	ColCarbonEmissions,
	ColWaterUsage,
	ColEnergyConsumption,
}

// Column groups plotted together
var (
	FinancialColumns   = []string{ColRevenue, ColMarketCap}
	PerformanceColumns = []string{ColProfitMargin, ColGrowthRate}
	ESGSubScoreColumns = []string{ColESGEnvironmental, ColESGSocial, ColESGGovernance}
	ResourceColumns    = []string{ColCarbonEmissions, ColWaterUsage, ColEnergyConsumption}
)

// IsKnownColumn reports whether name is one of the dataset columns
func IsKnownColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}
