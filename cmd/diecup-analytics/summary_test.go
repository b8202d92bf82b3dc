package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhaversen/diecup-analytics/internal/optlog"
)

func f(v float64) *float64 { return &v }

func TestPrintSummaryEmpty(t *testing.T) {
	var b strings.Builder
	printSummary(&b, nil)
	assert.Equal(t, "No improvements found.\n", b.String())
}

func TestPrintSummary(t *testing.T) {
	records := []optlog.Record{
		{Generation: 1, Fitness: f(20.0), Mean: f(22.0), Variance: f(4.0),
			Params: map[string]float64{"Weight": 1.0}},
		{Generation: 9, Fitness: f(13.9), Mean: f(15.8), Variance: f(3.1), P95: f(20.5), Max: f(37.0),
			Params: map[string]float64{"Weight": 1.3, "Other": -1.5}},
	}

	var b strings.Builder
	printSummary(&b, records)
	out := b.String()

	assert.Contains(t, out, "Found 2 improvements")
	assert.Contains(t, out, "Improvement 2 (Gen 9, Fitness: 13.9000, Mean: 15.8000, Var: 3.1000, P95: 20.5, Max: 37)")
	assert.Contains(t, out, "Parameter Ranges Across All Improvements")
	assert.Contains(t, out, "Weight")
	assert.Contains(t, out, "Other")
}

func TestParamRanges(t *testing.T) {
	records := []optlog.Record{
		{Params: map[string]float64{"Weight": 1.0}},
		{Params: map[string]float64{"Weight": 0.4}},
		{Params: map[string]float64{"Weight": 1.6}},
	}

	ranges := paramRanges(records)
	r := ranges["Weight"]
	assert.Equal(t, 0.4, r.min)
	assert.Equal(t, 1.6, r.max)
	assert.Equal(t, 1.0, r.first)
	assert.Equal(t, 1.6, r.last)
}
