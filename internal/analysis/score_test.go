package analysis

import "testing"

func TestConfidencePolicy(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    float64
	}{
		{"message key", map[string]interface{}{"message": "Found 3 natural clusters in the data"}, 0.8},
		{"analysis key", map[string]interface{}{"analysis": "raw model text"}, 0.7},
		{"neither", map[string]interface{}{"patterns": "weekly cycle"}, 0.5},
		{"message wins over analysis", map[string]interface{}{"message": "m", "analysis": "a"}, 0.8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := confidenceFor(tc.payload); got != tc.want {
				t.Errorf("confidenceFor = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestActionableKeywords(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    bool
	}{
		{"recommend", map[string]interface{}{"message": "We recommend a deeper look"}, true},
		{"consider capitalized", map[string]interface{}{"message": "Consider running time series analysis"}, true},
		{"next steps", map[string]interface{}{"summary": "Next steps: clean the data"}, true},
		{"plain report", map[string]interface{}{"message": "Found 2 strong correlations between variables"}, false},
		{"nested keyword", map[string]interface{}{"sections": map[string]interface{}{"advice": "you should drop nulls"}}, true},
		{"keyword in slice", map[string]interface{}{"notes": []interface{}{"fine", "suggest a re-run"}}, true},
		{"keyword in key only", map[string]interface{}{"recommendations": "clean the date column"}, true},
		{"keyword in nested key", map[string]interface{}{"sections": map[string]interface{}{"suggested_actions": "none"}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isActionable(tc.payload); got != tc.want {
				t.Errorf("isActionable = %v, want %v", got, tc.want)
			}
		})
	}
}
