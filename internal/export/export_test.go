package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 8, 30, 5, 0, time.UTC)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, "JSON": FormatJSON, "txt": FormatText, " text ": FormatText} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSV_QuotesAndRowCount(t *testing.T) {
	tbl := Table{
		Header: []string{"name", "note"},
		Rows: [][]string{
			{"Abebe, Jr.", "plain"},
			{"Almaz", `said "hello"`},
			{"Bekele", "line one\nline two"},
		},
	}
	b, err := CSV(tbl)
	require.NoError(t, err)
	out := string(b)

	assert.Contains(t, out, `"Abebe, Jr."`)
	assert.Contains(t, out, `"said ""hello"""`)
	assert.Contains(t, out, "\"line one\nline two\"")
	assert.True(t, strings.HasPrefix(out, "name,note\n"))

	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, len(tbl.Rows)+1)
	assert.Equal(t, tbl.Rows[0], recs[1])
	assert.Equal(t, tbl.Rows[2], recs[3])
}

func TestCSV_RaggedRow(t *testing.T) {
	_, err := CSV(Table{Header: []string{"a", "b"}, Rows: [][]string{{"1"}}})
	assert.Error(t, err)
}

func TestFarmersTable(t *testing.T) {
	last := fixedNow.Add(-time.Hour)
	rows := []dto.FarmerData{
		{
			Activity:        dto.FarmerActivity{UserID: "u1", Name: "Abebe, Kebede", PhoneNumber: "+251911000001", Location: "Oromia", IsActive: true, TotalLogins: 4, LastLogin: &last},
			Expenses:        &dto.ExpenseMetrics{TotalRevenue: 1200, TotalExpenses: 800, TotalProfit: 400},
			EngagementScore: 42.5,
			RiskLevel:       dto.RiskLow,
		},
		{
			Activity:  dto.FarmerActivity{UserID: "u2", Name: "Almaz"},
			RiskLevel: dto.RiskUnknown,
		},
	}
	tbl := FarmersTable(rows)
	require.Len(t, tbl.Rows, 2)
	for _, r := range tbl.Rows {
		assert.Len(t, r, len(tbl.Header))
	}

	b, err := CSV(tbl)
	require.NoError(t, err)
	recs, err := csv.NewReader(strings.NewReader(string(b))).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Abebe, Kebede", recs[1][1])
	assert.Equal(t, "42.5", recs[1][7])
	assert.Equal(t, "400.00", recs[1][12])
	assert.Equal(t, "", recs[2][12])
}

func TestJSON_TwoSpaceIndent(t *testing.T) {
	b, err := JSON(map[string]any{"a": 1, "b": []int{2}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    2\n  ]\n}\n", string(b))
}

func TestDashboardReport(t *testing.T) {
	s := dto.DashboardSummary{
		TotalFarmers:         10,
		TimeFilter:           dto.TimeMonthly,
		AuthUsage:            dto.AuthUsage{TotalLogins: 3},
		ForecastingUsage:     dto.ForecastingUsage{TotalPredictions: 2},
		TotalSystemRevenue:   1500,
		RegionalDistribution: map[string]int64{"Tigray": 1, "Amhara": 9},
	}
	out := string(Text(DashboardReport(s, fixedNow)))

	assert.True(t, strings.HasPrefix(out, "AgriBizBoost Dashboard Report\n=============================\n"))
	assert.Contains(t, out, "Generated: 2026-10-19T08:30:05Z")
	assert.Contains(t, out, "\nService Usage\n-------------\n")
	assert.Contains(t, out, "Total farmers:      10")
	assert.Contains(t, out, "Revenue:   1500.00")
	assert.Less(t, strings.Index(out, "Amhara"), strings.Index(out, "Tigray"))

	lines := strings.Split(out, "\n")
	var total string
	for _, l := range lines {
		if strings.HasPrefix(l, "Total:") {
			total = l
		}
	}
	assert.True(t, strings.HasSuffix(total, " 5"), total)
}

func TestFarmerReport_OptionalSections(t *testing.T) {
	f := dto.FarmerData{Activity: dto.FarmerActivity{UserID: "u1", Name: "Abebe"}, RiskLevel: dto.RiskHigh}
	out := string(Text(FarmerReport(f, fixedNow)))
	assert.Contains(t, out, "Farmer Report: Abebe")
	assert.NotContains(t, out, "Expenses\n")

	stab := 55.0
	f.Expenses = &dto.ExpenseMetrics{FinancialStabilityAvg: &stab, MostTradedGoods: []dto.NamedCount{{Name: "Teff", Count: 3}}}
	f.Health = &dto.HealthMetrics{CropTypesAssessed: []string{"Teff", "Maize"}}
	out = string(Text(FarmerReport(f, fixedNow)))
	assert.Contains(t, out, "Expenses\n--------")
	assert.Contains(t, out, "Teff (3)")
	assert.Contains(t, out, "55.00")
	assert.Contains(t, out, "Teff, Maize")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "farmers_20261019_083005.csv", Filename("farmers", FormatCSV, fixedNow))
	assert.Equal(t, "farmer_Abebe_K_20261019_083005.txt", Filename("farmer Abebe/K", FormatText, fixedNow))
	assert.Equal(t, "export_20261019_083005.json", Filename("../", FormatJSON, fixedNow))
}

func TestDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	p1, err := Download(dir, "admins", FormatJSON, []byte("{}\n"), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "admins_20261019_083005.json"), p1)
	got, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))

	p2, err := Download(dir, "admins", FormatJSON, []byte("[]\n"), fixedNow)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, "admins_20261019_083005(1).json", filepath.Base(p2))
}
