package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	orig := Logf
	defer SetLogger(orig)

	var captured string
	SetLogger(func(format string, v ...interface{}) {
		captured = fmt.Sprintf(format, v...)
	})
	Logf("processed %d rows", 7)
	if captured != "processed 7 rows" {
		t.Errorf("captured = %q", captured)
	}

	SetLogger(nil)
	Logf("should not panic")
}

func TestMetricsForTesting(t *testing.T) {
	// Two unregistered sets must coexist without registry collisions.
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()
	a.RecordsAggregated.Add(1)
	b.RecordsAggregated.Add(2)
	a.SummaryRowsWritten.WithLabelValues("county_summary").Add(3)
	a.StageDuration.WithLabelValues("counties").Observe(0.5)
	a.StoreOpen.Set(1)
}
