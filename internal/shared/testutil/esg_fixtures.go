package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ESGHeader is the header row of the company ESG/financial dataset
const ESGHeader = "CompanyName,Industry,Year,Revenue,MarketCap,ProfitMargin,GrowthRate,ESG_Overall,ESG_Environmental,ESG_Social,ESG_Governance,CarbonEmissions,WaterUsage,EnergyConsumption"

// SampleESGCSV is a small clean dataset: three companies in two industries
// over two years. Rows are deliberately not sorted by Year for AlphaCorp.
var SampleESGCSV = strings.Join([]string{
	ESGHeader,
	"AlphaCorp,Technology,2021,120.5,900,12.5,4.2,71.5,70,72,72.5,300,1500,2200",
	"AlphaCorp,Technology,2020,100,800,10,5,70,68,71,71,320,1600,2300",
	"BetaWorks,Technology,2020,80,400,8,-2.5,60,58,61,61,450,2100,3100",
	"BetaWorks,Technology,2021,85,420,8.5,3,62,60,63,63,430,2000,3000",
	"GammaEnergy,Energy,2020,300,1500,15,6,45,40,48,47,1200,5200,9000",
	"GammaEnergy,Energy,2021,310,1550,14,2,47,42,50,49,1150,5100,8800",
}, "\n") + "\n"

// DirtyESGCSV mirrors SampleESGCSV with one exact duplicate row, a missing
// Revenue, a missing Industry and an NA token.
var DirtyESGCSV = strings.Join([]string{
	ESGHeader,
	"AlphaCorp,Technology,2020,100,800,10,5,70,68,71,71,320,1600,2300",
	"AlphaCorp,Technology,2020,100,800,10,5,70,68,71,71,320,1600,2300",
	"AlphaCorp,Technology,2021,,900,12.5,4.2,71.5,70,72,72.5,300,1500,2200",
	"BetaWorks,,2020,80,400,8,-2.5,60,58,61,61,450,2100,3100",
	"BetaWorks,Technology,2021,85,420,8.5,3,NA,60,63,63,430,2000,3000",
	"GammaEnergy,Energy,2020,300,1500,15,6,45,40,48,47,1200,5200,9000",
}, "\n") + "\n"

// WriteFile writes content to name inside a fresh temp directory and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteCSV writes content to data.csv inside a fresh temp directory
func WriteCSV(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, "data.csv", content)
}
