package analysis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"phoenix/adapters/llm"
	"phoenix/domain/frame"
	"phoenix/domain/insight"
	"phoenix/internal"
	"phoenix/ports"
)

func testLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

// stubGenerator is a scripted analyzer for aggregator tests
type stubGenerator struct {
	kind    insight.Type
	finding insight.Finding
	err     error
	delay   time.Duration
	panics  bool
}

func (s *stubGenerator) Kind() insight.Type { return s.kind }

func (s *stubGenerator) Generate(ctx context.Context, f *frame.Frame) (insight.Finding, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panics {
		panic("scripted failure")
	}
	return s.finding, s.err
}

// stubFinding exposes an arbitrary payload under a chosen kind
type stubFinding struct {
	kind    insight.Type
	payload map[string]interface{}
}

func (s *stubFinding) Kind() insight.Type              { return s.kind }
func (s *stubFinding) Payload() map[string]interface{} { return s.payload }

func TestAnalyzeRanksByConfidenceThenActionability(t *testing.T) {
	// Payload shapes chosen to score (0.5, actionable), (0.8, passive),
	// (0.8, actionable); the ranked order must be the reverse.
	generators := []ports.InsightGenerator{
		&stubGenerator{kind: insight.TypeStatistical, finding: &stubFinding{
			kind:    insight.TypeStatistical,
			payload: map[string]interface{}{"patterns": "we recommend dropping nulls"},
		}},
		&stubGenerator{kind: insight.TypeClustering, finding: &stubFinding{
			kind:    insight.TypeClustering,
			payload: map[string]interface{}{"message": "Found 2 natural clusters in the data"},
		}},
		&stubGenerator{kind: insight.TypeSeasonality, finding: &stubFinding{
			kind:    insight.TypeSeasonality,
			payload: map[string]interface{}{"message": "Consider running time series analysis"},
		}},
	}

	agg := NewAggregatorWith(testLogger(), generators...)
	f := makeFrame(t, []string{"x"}, [][]string{{"1"}})

	insights := agg.Analyze(context.Background(), f)
	if len(insights) != 3 {
		t.Fatalf("got %d insights, want 3", len(insights))
	}

	wantOrder := []struct {
		confidence float64
		actionable bool
	}{
		{0.8, true},
		{0.8, false},
		{0.5, true},
	}
	for i, want := range wantOrder {
		if insights[i].Confidence != want.confidence || insights[i].Actionable != want.actionable {
			t.Errorf("rank %d = (%.1f, %v), want (%.1f, %v)",
				i, insights[i].Confidence, insights[i].Actionable, want.confidence, want.actionable)
		}
	}
}

func TestAnalyzeSurvivesGeneratorFailure(t *testing.T) {
	generators := []ports.InsightGenerator{
		&stubGenerator{kind: insight.TypeStatistical, err: errors.New("gateway timeout")},
		&stubGenerator{kind: insight.TypeClustering, finding: &stubFinding{
			kind:    insight.TypeClustering,
			payload: map[string]interface{}{"message": "Found 2 natural clusters in the data"},
		}},
	}

	agg := NewAggregatorWith(testLogger(), generators...)
	f := makeFrame(t, []string{"x"}, [][]string{{"1"}})

	insights := agg.Analyze(context.Background(), f)
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want the surviving one", len(insights))
	}
	if insights[0].Type != insight.TypeClustering {
		t.Errorf("survivor type = %s", insights[0].Type)
	}
}

func TestAnalyzeRecoversFromGeneratorPanic(t *testing.T) {
	generators := []ports.InsightGenerator{
		&stubGenerator{kind: insight.TypeAnomaly, panics: true},
		&stubGenerator{kind: insight.TypeCorrelation, finding: &stubFinding{
			kind:    insight.TypeCorrelation,
			payload: map[string]interface{}{"message": "Found 1 strong correlations between variables"},
		}},
	}

	agg := NewAggregatorWith(testLogger(), generators...)
	f := makeFrame(t, []string{"x"}, [][]string{{"1"}})

	insights := agg.Analyze(context.Background(), f)
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(insights))
	}
}

func TestAnalyzeSkipsNilAndEmptyFindings(t *testing.T) {
	generators := []ports.InsightGenerator{
		&stubGenerator{kind: insight.TypeStatistical}, // nothing to report
		&stubGenerator{kind: insight.TypeClustering, finding: &stubFinding{
			kind:    insight.TypeClustering,
			payload: map[string]interface{}{},
		}},
	}

	agg := NewAggregatorWith(testLogger(), generators...)
	f := makeFrame(t, []string{"x"}, [][]string{{"1"}})

	if insights := agg.Analyze(context.Background(), f); len(insights) != 0 {
		t.Errorf("got %d insights, want none", len(insights))
	}
}

func TestAnalyzeSlowGeneratorDoesNotBlockResults(t *testing.T) {
	generators := []ports.InsightGenerator{
		&stubGenerator{kind: insight.TypeStatistical, delay: 50 * time.Millisecond, err: errors.New("slow timeout")},
		&stubGenerator{kind: insight.TypeClustering, finding: &stubFinding{
			kind:    insight.TypeClustering,
			payload: map[string]interface{}{"message": "Found 3 natural clusters in the data"},
		}},
	}

	agg := NewAggregatorWith(testLogger(), generators...)
	f := makeFrame(t, []string{"x"}, [][]string{{"1"}})

	insights := agg.Analyze(context.Background(), f)
	if len(insights) != 1 || insights[0].Type != insight.TypeClustering {
		t.Fatalf("deterministic result missing after slow failure: %+v", insights)
	}
}

func TestAnalyzeNormalizesPayloadValues(t *testing.T) {
	generators := []ports.InsightGenerator{
		&stubGenerator{kind: insight.TypeClustering, finding: &insight.ClusteringFinding{
			ClusterCount: 2,
			ClusterSizes: []int{3, 1},
			Message:      "Found 2 natural clusters in the data",
		}},
	}

	agg := NewAggregatorWith(testLogger(), generators...)
	f := makeFrame(t, []string{"x"}, [][]string{{"1"}})

	insights := agg.Analyze(context.Background(), f)
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(insights))
	}

	if insights[0].Payload["cluster_count"] != int64(2) {
		t.Errorf("cluster_count = %v (%T), want int64(2)",
			insights[0].Payload["cluster_count"], insights[0].Payload["cluster_count"])
	}
	sizes, ok := insights[0].Payload["cluster_sizes"].([]interface{})
	if !ok || len(sizes) != 2 || sizes[0] != int64(3) {
		t.Errorf("cluster_sizes = %v", insights[0].Payload["cluster_sizes"])
	}
}

func TestFullPipelineOverMixedDataset(t *testing.T) {
	headers := []string{"day", "revenue", "cost", "region"}
	var rows [][]string
	days := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08"}
	for i, day := range days {
		revenue := 100 + 10*i
		cost := 50 + 5*i // perfectly correlated with revenue
		rows = append(rows, []string{day, strconv.Itoa(revenue), strconv.Itoa(cost), "north"})
	}
	f := makeFrame(t, headers, rows)

	agg := NewAggregator(&llm.MockClient{}, testLogger())
	insights := agg.Analyze(context.Background(), f)

	kinds := make(map[insight.Type]insight.Insight, len(insights))
	for _, ins := range insights {
		kinds[ins.Type] = ins
	}

	for _, want := range []insight.Type{insight.TypeStatistical, insight.TypeClustering, insight.TypeSeasonality, insight.TypeCorrelation} {
		if _, ok := kinds[want]; !ok {
			t.Errorf("missing %s insight", want)
		}
	}
	if _, ok := kinds[insight.TypeAnomaly]; ok {
		t.Errorf("smooth series should flag no anomalies")
	}

	if season, ok := kinds[insight.TypeSeasonality]; ok {
		if season.Confidence != 0.8 || !season.Actionable {
			t.Errorf("seasonality scored (%.1f, %v), want (0.8, true)", season.Confidence, season.Actionable)
		}
	}

	// Ranking is monotonically non-increasing in confidence
	for i := 1; i < len(insights); i++ {
		if insights[i].Confidence > insights[i-1].Confidence {
			t.Errorf("insights out of order at %d: %.1f after %.1f", i, insights[i].Confidence, insights[i-1].Confidence)
		}
	}
}
