package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotrack/pkg/contracts/domain"
)

func TestGroupMean(t *testing.T) {
	table := sampleTable(t)

	groups, err := table.GroupMean([]string{domain.ColIndustry, domain.ColCompanyName}, domain.ColESGOverall)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, []string{"Energy", "GammaEnergy"}, groups[0].Keys)
	assert.InDelta(t, 46.0, groups[0].Mean, 1e-9)
	assert.Equal(t, []string{"Technology", "AlphaCorp"}, groups[1].Keys)
	assert.InDelta(t, 70.75, groups[1].Mean, 1e-9)
	assert.Equal(t, []string{"Technology", "BetaWorks"}, groups[2].Keys)
	assert.InDelta(t, 61.0, groups[2].Mean, 1e-9)
	assert.Equal(t, 2, groups[2].Count)
}

func TestGroupMeanNumericKeysSortByValue(t *testing.T) {
	table, err := New([]string{"Year", "v"}, [][]string{
		{"1000", "1"},
		{"999", "3"},
		{"1000", "5"},
		{"NA", "7"},
	})
	require.NoError(t, err)

	groups, err := table.GroupMean([]string{"Year"}, "v")
	require.NoError(t, err)
	require.Len(t, groups, 2, "rows with a missing key are dropped")
	assert.Equal(t, "999", groups[0].Keys[0])
	assert.Equal(t, "1000", groups[1].Keys[0])
	assert.Equal(t, 3.0, groups[1].Mean)
}

func TestGroupMeanSkipsMissingValues(t *testing.T) {
	table, err := New([]string{"k", "v"}, [][]string{{"a", "2"}, {"a", "NA"}, {"b", ""}})
	require.NoError(t, err)

	groups, err := table.GroupMean([]string{"k"}, "v")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 2.0, groups[0].Mean)
	assert.Equal(t, 1, groups[0].Count)
	assert.True(t, math.IsNaN(groups[1].Mean))
}

func TestGroupMeanUnknownColumns(t *testing.T) {
	table := sampleTable(t)
	_, err := table.GroupMean([]string{"Ticker"}, domain.ColESGOverall)
	assert.Error(t, err)
	_, err = table.GroupMean([]string{domain.ColIndustry}, "Score")
	assert.Error(t, err)
}
