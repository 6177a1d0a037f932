// Package insight defines the records produced by the analysis pipeline:
// raw generator findings, scored insights, and question answers.
package insight

// Type enumerates the insight generator variants. The order of the values
// here is the fixed dispatch order of the pipeline; keep it stable so ranking
// ties break deterministically.
type Type string

const (
	TypeStatistical Type = "statistical"
	TypeClustering  Type = "clustering"
	TypeAnomaly     Type = "anomaly"
	TypeSeasonality Type = "seasonality"
	TypeCorrelation Type = "correlation"
)

// Types returns all generator variants in dispatch order
func Types() []Type {
	return []Type{TypeStatistical, TypeClustering, TypeAnomaly, TypeSeasonality, TypeCorrelation}
}

// Finding is the raw structured output of one insight generator before
// scoring. A generator that has nothing to report returns a nil Finding, not
// a Finding with an empty payload.
type Finding interface {
	Kind() Type
	// Payload renders the finding as a keyed structure for scoring,
	// serialization and persistence.
	Payload() map[string]interface{}
}

// StatisticalFinding carries the LLM's reading of the descriptive-statistics
// summary. The section schema is advisory: when the model's reply was not
// valid JSON the raw text lands in Analysis instead.
type StatisticalFinding struct {
	Sections map[string]interface{}
	Analysis string
}

func (f *StatisticalFinding) Kind() Type { return TypeStatistical }

func (f *StatisticalFinding) Payload() map[string]interface{} {
	if f.Analysis != "" {
		return map[string]interface{}{"analysis": f.Analysis}
	}
	return f.Sections
}

// ClusteringFinding reports the natural groupings found in the numeric
// columns.
type ClusteringFinding struct {
	ClusterCount int
	ClusterSizes []int
	Message      string
}

func (f *ClusteringFinding) Kind() Type { return TypeClustering }

func (f *ClusteringFinding) Payload() map[string]interface{} {
	return map[string]interface{}{
		"cluster_count": f.ClusterCount,
		"cluster_sizes": f.ClusterSizes,
		"message":       f.Message,
	}
}

// AnomalyFinding reports flagged outliers. Zero flagged points produce no
// finding at all rather than a zero-count record.
type AnomalyFinding struct {
	AnomalyCount      int
	AnomalyPercentage float64
	Message           string
}

func (f *AnomalyFinding) Kind() Type { return TypeAnomaly }

func (f *AnomalyFinding) Payload() map[string]interface{} {
	return map[string]interface{}{
		"anomaly_count":      f.AnomalyCount,
		"anomaly_percentage": f.AnomalyPercentage,
		"message":            f.Message,
	}
}

// SeasonalityFinding is an advisory trigger, not a decomposition result
type SeasonalityFinding struct {
	Message string
}

func (f *SeasonalityFinding) Kind() Type { return TypeSeasonality }

func (f *SeasonalityFinding) Payload() map[string]interface{} {
	return map[string]interface{}{"message": f.Message}
}

// CorrelationPair is one strongly correlated column pair
type CorrelationPair struct {
	Variables   [2]string `json:"variables"`
	Correlation float64   `json:"correlation"`
	Strength    string    `json:"strength"`
}

// CorrelationFinding lists column pairs whose absolute Pearson correlation
// exceeds the strong threshold, enumerated in column order (i<j).
type CorrelationFinding struct {
	StrongCorrelations []CorrelationPair
	Message            string
}

func (f *CorrelationFinding) Kind() Type { return TypeCorrelation }

func (f *CorrelationFinding) Payload() map[string]interface{} {
	pairs := make([]interface{}, len(f.StrongCorrelations))
	for i, pair := range f.StrongCorrelations {
		pairs[i] = map[string]interface{}{
			"variables":   []interface{}{pair.Variables[0], pair.Variables[1]},
			"correlation": pair.Correlation,
			"strength":    pair.Strength,
		}
	}
	return map[string]interface{}{
		"strong_correlations": pairs,
		"message":             f.Message,
	}
}

// Insight is a finding plus its assigned confidence and actionability,
// ready for ranking and persistence.
type Insight struct {
	Type       Type                   `json:"type"`
	Payload    map[string]interface{} `json:"insight"`
	Confidence float64                `json:"confidence"`
	Actionable bool                   `json:"actionable"`
}

// AnswerSource distinguishes the deterministic answer tier from the
// generative fallback.
type AnswerSource string

const (
	SourceStatistical AnswerSource = "statistical_calculation"
	SourceAI          AnswerSource = "ai_analysis"
)

// Answer is the response to one natural-language question
type Answer struct {
	Answer     string       `json:"answer"`
	Source     AnswerSource `json:"source"`
	Confidence float64      `json:"confidence"`
}
