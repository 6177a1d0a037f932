package analysis

import (
	"fmt"
	"strings"
)

// actionableKeywords mark an insight as something the reader can act on.
// Matching is substring-based over the flattened payload text.
var actionableKeywords = []string{
	"recommend",
	"suggest",
	"should",
	"consider",
	"action",
	"next steps",
}

// confidenceFor assigns confidence from the payload shape. Deterministic
// generators report through a "message" key and score highest; an LLM reply
// that fell back to raw text sits under "analysis" and scores lower; anything
// else gets the floor.
func confidenceFor(payload map[string]interface{}) float64 {
	if _, ok := payload["message"]; ok {
		return 0.8
	}
	if _, ok := payload["analysis"]; ok {
		return 0.7
	}
	return 0.5
}

// isActionable reports whether the payload text contains an action-oriented
// keyword.
func isActionable(payload map[string]interface{}) bool {
	text := strings.ToLower(flatten(payload))
	for _, keyword := range actionableKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// flatten renders the payload as text, keys included, recursing through
// nested maps and slices. Keys count for the keyword scan: a section named
// "recommendations" is actionable regardless of its text.
func flatten(v interface{}) string {
	var b strings.Builder
	appendText(&b, v)
	return b.String()
}

func appendText(b *strings.Builder, v interface{}) {
	switch x := v.(type) {
	case string:
		b.WriteString(x)
		b.WriteByte(' ')
	case map[string]interface{}:
		for key, value := range x {
			b.WriteString(key)
			b.WriteByte(' ')
			appendText(b, value)
		}
	case []interface{}:
		for _, value := range x {
			appendText(b, value)
		}
	default:
		fmt.Fprintf(b, "%v ", x)
	}
}
