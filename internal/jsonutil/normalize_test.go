package jsonutil

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScalars(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"int", int(7), int64(7)},
		{"int32", int32(-3), int64(-3)},
		{"int64", int64(42), int64(42)},
		{"uint16", uint16(9), int64(9)},
		{"float32", float32(1.5), float64(1.5)},
		{"float64", 2.25, 2.25},
		{"bool", true, true},
		{"string", "revenue", "revenue"},
		{"nil", nil, nil},
		{"json number int", json.Number("42"), int64(42)},
		{"json number float", json.Number("4.2"), 4.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeRecursesNestedStructures(t *testing.T) {
	in := map[string]interface{}{
		"cluster_count": int32(3),
		"cluster_sizes": []int{4, 2, 1},
		"nested": map[string]interface{}{
			"ratio":   float32(0.5),
			"flagged": []bool{true, false},
		},
	}

	want := map[string]interface{}{
		"cluster_count": int64(3),
		"cluster_sizes": []interface{}{int64(4), int64(2), int64(1)},
		"nested": map[string]interface{}{
			"ratio":   0.5,
			"flagged": []interface{}{true, false},
		},
	}

	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01T12:00:00Z", Normalize(ts))
}

// A native 64-bit integer must survive the JSON boundary as an integer,
// not a string and not a fractional number.
func TestNormalizeIntegerRoundTrip(t *testing.T) {
	payload := map[string]interface{}{"anomaly_count": int64(42)}

	encoded, err := json.Marshal(Normalize(payload))
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var decoded map[string]interface{}
	require.NoError(t, dec.Decode(&decoded))

	num, ok := decoded["anomaly_count"].(json.Number)
	require.True(t, ok, "anomaly_count decoded as %T, want json.Number", decoded["anomaly_count"])
	assert.Equal(t, "42", num.String())
}

func TestNormalizeHugeUintFallsBackToFloat(t *testing.T) {
	got := Normalize(uint64(math.MaxUint64))
	assert.IsType(t, float64(0), got)
}
