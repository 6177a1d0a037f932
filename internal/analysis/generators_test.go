package analysis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"phoenix/adapters/llm"
	"phoenix/domain/frame"
	"phoenix/domain/insight"
)

func makeFrame(t *testing.T, headers []string, rows [][]string) *frame.Frame {
	t.Helper()
	f, err := frame.FromRecords(headers, rows)
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	return f
}

// numericFrame builds a frame from float columns given as name -> values
func numericFrame(t *testing.T, names []string, cols [][]float64) *frame.Frame {
	t.Helper()
	rows := make([][]string, len(cols[0]))
	for r := range rows {
		row := make([]string, len(names))
		for c := range names {
			row[c] = strconv.FormatFloat(cols[c][r], 'f', -1, 64)
		}
		rows[r] = row
	}
	return makeFrame(t, names, rows)
}

func TestClusteringNeedsTwoNumericColumns(t *testing.T) {
	f := makeFrame(t, []string{"region", "revenue"}, [][]string{
		{"north", "100"}, {"south", "200"}, {"east", "150"},
	})

	finding, err := NewClusteringGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding != nil {
		t.Errorf("expected no finding with one numeric column, got %+v", finding)
	}
}

func TestClusteringCapsKAtRowCount(t *testing.T) {
	f := numericFrame(t, []string{"x", "y"}, [][]float64{{1, 100}, {2, 200}})

	finding, err := NewClusteringGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cf, ok := finding.(*insight.ClusteringFinding)
	if !ok {
		t.Fatalf("finding = %T, want *ClusteringFinding", finding)
	}
	if cf.ClusterCount > 2 {
		t.Errorf("cluster count %d exceeds row count 2", cf.ClusterCount)
	}

	total := 0
	for _, size := range cf.ClusterSizes {
		total += size
	}
	if total != 2 {
		t.Errorf("cluster sizes sum to %d, want 2", total)
	}
}

func TestClusteringFindsSeparatedGroups(t *testing.T) {
	xs := []float64{1, 2, 1.5, 100, 101, 99, 500, 502, 498}
	ys := []float64{1, 1.5, 2, 100, 99, 101, 500, 501, 499}
	f := numericFrame(t, []string{"x", "y"}, [][]float64{xs, ys})

	finding, err := NewClusteringGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cf := finding.(*insight.ClusteringFinding)
	if cf.ClusterCount != 3 {
		t.Errorf("cluster count = %d, want 3", cf.ClusterCount)
	}
	if cf.Message != "Found 3 natural clusters in the data" {
		t.Errorf("message = %q", cf.Message)
	}
}

func TestClusteringIsDeterministic(t *testing.T) {
	xs := []float64{3, 8, 1, 9, 4, 7, 2, 6, 5, 10}
	ys := []float64{30, 80, 10, 90, 40, 70, 20, 60, 50, 100}
	f := numericFrame(t, []string{"x", "y"}, [][]float64{xs, ys})

	gen := NewClusteringGenerator()
	first, err := gen.Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := gen.Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !reflect.DeepEqual(first.Payload(), second.Payload()) {
		t.Errorf("repeated runs disagree: %v vs %v", first.Payload(), second.Payload())
	}
}

func TestAnomalyUniformDataProducesNoFinding(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 5
	}
	f := numericFrame(t, []string{"a", "b"}, [][]float64{values, values})

	finding, err := NewAnomalyGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding != nil {
		t.Errorf("uniform data must produce no anomaly finding, got %+v", finding)
	}
}

func TestAnomalyFlagsInjectedOutlier(t *testing.T) {
	xs := make([]float64, 61)
	ys := make([]float64, 61)
	for i := 0; i < 60; i++ {
		xs[i] = 10 + float64(i%5)*0.1
		ys[i] = 20 + float64(i%7)*0.1
	}
	xs[60], ys[60] = 1000, -500

	f := numericFrame(t, []string{"x", "y"}, [][]float64{xs, ys})

	finding, err := NewAnomalyGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	af, ok := finding.(*insight.AnomalyFinding)
	if !ok {
		t.Fatalf("finding = %T, want *AnomalyFinding", finding)
	}
	if af.AnomalyCount < 1 || af.AnomalyCount > 7 {
		t.Errorf("anomaly count = %d, want a handful including the outlier", af.AnomalyCount)
	}
	if !strings.Contains(af.Message, "potential anomalies") {
		t.Errorf("message = %q", af.Message)
	}
	wantPct := float64(af.AnomalyCount) / 61 * 100
	if af.AnomalyPercentage != wantPct {
		t.Errorf("percentage = %v, want %v", af.AnomalyPercentage, wantPct)
	}
}

func TestAnomalySkipsWithoutNumericColumns(t *testing.T) {
	f := makeFrame(t, []string{"name"}, [][]string{{"alpha"}, {"beta"}})

	finding, err := NewAnomalyGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding != nil {
		t.Errorf("expected no finding without numeric columns")
	}
}

func TestSeasonalityTriggersOnTimeAxis(t *testing.T) {
	f := makeFrame(t, []string{"day", "sales"}, [][]string{
		{"2024-01-01", "10"}, {"2024-01-02", "12"}, {"2024-01-03", "11"},
	})

	finding, err := NewSeasonalityGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sf, ok := finding.(*insight.SeasonalityFinding)
	if !ok {
		t.Fatalf("finding = %T, want *SeasonalityFinding", finding)
	}
	if !strings.Contains(sf.Message, "Time series data detected") {
		t.Errorf("message = %q", sf.Message)
	}
}

func TestSeasonalitySilentWithoutDates(t *testing.T) {
	f := numericFrame(t, []string{"x", "y"}, [][]float64{{1, 2, 3}, {4, 5, 6}})

	finding, err := NewSeasonalityGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding != nil {
		t.Errorf("expected no finding without a datetime column")
	}
}

func TestCorrelationReportsPairsInColumnOrder(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	b := make([]float64, len(a))
	c := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v   // r(a,b) = 1
		c[i] = -3 * v  // r(a,c) = r(b,c) = -1
	}
	f := numericFrame(t, []string{"a", "b", "c"}, [][]float64{a, b, c})

	finding, err := NewCorrelationGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cf, ok := finding.(*insight.CorrelationFinding)
	if !ok {
		t.Fatalf("finding = %T, want *CorrelationFinding", finding)
	}

	wantPairs := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	if len(cf.StrongCorrelations) != len(wantPairs) {
		t.Fatalf("got %d pairs, want %d", len(cf.StrongCorrelations), len(wantPairs))
	}
	for i, want := range wantPairs {
		if cf.StrongCorrelations[i].Variables != want {
			t.Errorf("pair %d = %v, want %v", i, cf.StrongCorrelations[i].Variables, want)
		}
	}
	if cf.Message != "Found 3 strong correlations between variables" {
		t.Errorf("message = %q", cf.Message)
	}
}

func TestCorrelationIgnoresWeakPairs(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	b := []float64{2, 4, 6, 8, 10, 12, 14, 16} // perfectly tied to a
	c := []float64{5, -5, 6, -6, 7, -7, 8, -8} // weakly tied to both
	f := numericFrame(t, []string{"a", "b", "c"}, [][]float64{a, b, c})

	finding, err := NewCorrelationGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cf := finding.(*insight.CorrelationFinding)
	if len(cf.StrongCorrelations) != 1 {
		t.Fatalf("got %d pairs, want only (a, b): %+v", len(cf.StrongCorrelations), cf.StrongCorrelations)
	}
	if cf.StrongCorrelations[0].Variables != [2]string{"a", "b"} {
		t.Errorf("pair = %v, want (a, b)", cf.StrongCorrelations[0].Variables)
	}
	// The label is fixed: even a perfect correlation reports plain "strong"
	if cf.StrongCorrelations[0].Strength != "strong" {
		t.Errorf("strength = %q, want %q", cf.StrongCorrelations[0].Strength, "strong")
	}
}

func TestCorrelationNeedsTwoNumericColumns(t *testing.T) {
	f := makeFrame(t, []string{"region", "revenue"}, [][]string{
		{"north", "1"}, {"south", "2"},
	})

	finding, err := NewCorrelationGenerator().Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding != nil {
		t.Errorf("expected no finding with one numeric column")
	}
}

func TestStatisticalParsesSectionedReply(t *testing.T) {
	client := &llm.MockClient{Response: `{"patterns": "revenue trends up", "data_quality": "none"}`}
	f := numericFrame(t, []string{"revenue"}, [][]float64{{10, 20, 30}})

	finding, err := NewStatisticalGenerator(client).Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sf, ok := finding.(*insight.StatisticalFinding)
	if !ok {
		t.Fatalf("finding = %T, want *StatisticalFinding", finding)
	}
	if sf.Sections["patterns"] != "revenue trends up" {
		t.Errorf("sections = %+v", sf.Sections)
	}
	if !strings.Contains(client.LastPrompt, "revenue") {
		t.Errorf("prompt should embed the statistical summary, got %q", client.LastPrompt)
	}
}

func TestStatisticalPromptNamesSectionKeys(t *testing.T) {
	client := &llm.MockClient{}
	f := numericFrame(t, []string{"revenue"}, [][]float64{{10, 20, 30}})

	if _, err := NewStatisticalGenerator(client).Generate(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"distribution_insights", "patterns", "data_quality_issues", "statistical_properties"} {
		if !strings.Contains(client.LastPrompt, key) {
			t.Errorf("prompt missing section key %q", key)
		}
	}
}

func TestStatisticalFallsBackToRawText(t *testing.T) {
	client := &llm.MockClient{Response: "The data looks broadly healthy with mild skew."}
	f := numericFrame(t, []string{"revenue"}, [][]float64{{10, 20, 30}})

	finding, err := NewStatisticalGenerator(client).Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sf := finding.(*insight.StatisticalFinding)
	if sf.Analysis != "The data looks broadly healthy with mild skew." {
		t.Errorf("analysis = %q", sf.Analysis)
	}
	payload := sf.Payload()
	if payload["analysis"] != sf.Analysis {
		t.Errorf("payload = %+v, want raw text under analysis", payload)
	}
}

func TestStatisticalUnwrapsFencedReply(t *testing.T) {
	client := &llm.MockClient{Response: "```json\n{\"patterns\": \"stable\"}\n```"}
	f := numericFrame(t, []string{"revenue"}, [][]float64{{10, 20, 30}})

	finding, err := NewStatisticalGenerator(client).Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sf := finding.(*insight.StatisticalFinding)
	if sf.Sections["patterns"] != "stable" {
		t.Errorf("sections = %+v", sf.Sections)
	}
}

func TestStatisticalEmptyReplyProducesNoFinding(t *testing.T) {
	client := &llm.MockClient{Response: "{}"}
	f := numericFrame(t, []string{"revenue"}, [][]float64{{10, 20, 30}})

	finding, err := NewStatisticalGenerator(client).Generate(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finding != nil {
		t.Errorf("empty sections must produce no finding, got %+v", finding)
	}
}

func TestStatisticalSurfacesGatewayError(t *testing.T) {
	client := &llm.MockClient{Err: errors.New("gateway timeout")}
	f := numericFrame(t, []string{"revenue"}, [][]float64{{10, 20, 30}})

	finding, err := NewStatisticalGenerator(client).Generate(context.Background(), f)
	if err == nil {
		t.Fatal("expected gateway error to surface")
	}
	if finding != nil {
		t.Errorf("no finding expected on failure, got %+v", finding)
	}
}

func TestStatisticalWithoutClientFails(t *testing.T) {
	f := numericFrame(t, []string{"revenue"}, [][]float64{{10, 20, 30}})

	if _, err := NewStatisticalGenerator(nil).Generate(context.Background(), f); err == nil {
		t.Fatal("expected error without a configured client")
	}
}

func TestGeneratorKindsMatchDispatchOrder(t *testing.T) {
	agg := NewAggregator(&llm.MockClient{}, testLogger())
	for i, gen := range agg.generators {
		if gen.Kind() != insight.Types()[i] {
			t.Errorf("generator %d kind = %s, want %s", i, gen.Kind(), insight.Types()[i])
		}
	}
	if fmt.Sprint(insight.Types()) != "[statistical clustering anomaly seasonality correlation]" {
		t.Errorf("dispatch order changed: %v", insight.Types())
	}
}
