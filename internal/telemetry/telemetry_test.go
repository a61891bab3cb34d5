// SPDX-License-Identifier: MPL-2.0

package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sysbot/chef/pkg/cookbook"
)

func TestMetrics_CookbookResolved(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	m.CookbookResolved(OutcomeLoaded, 10*time.Millisecond)
	m.CookbookResolved(OutcomeLoaded, 20*time.Millisecond)
	m.CookbookResolved(OutcomeEmpty, time.Millisecond)

	if got := testutil.ToFloat64(m.loadsTotal.WithLabelValues("loaded")); got != 2 {
		t.Errorf("loads_total{outcome=loaded} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.loadsTotal.WithLabelValues("empty")); got != 1 {
		t.Errorf("loads_total{outcome=empty} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.loadDuration); got != 1 {
		t.Errorf("load_duration_seconds series = %d, want 1", got)
	}
}

func TestMetrics_FilesScanned(t *testing.T) {
	t.Parallel()

	m := NewMetrics(nil)
	m.FilesScanned(cookbook.SegmentRecipes, 3)
	m.FilesScanned(cookbook.SegmentRecipes, 2)

	if got := testutil.ToFloat64(m.filesScanned.WithLabelValues("recipes")); got != 5 {
		t.Errorf("files_scanned_total{segment=recipes} = %v, want 5", got)
	}
}

func TestMetrics_WriteFile(t *testing.T) {
	t.Parallel()

	m := NewMetrics(nil)
	m.CookbookResolved(OutcomeFailed, time.Millisecond)

	path := filepath.Join(t.TempDir(), "cookbook.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	if !strings.Contains(string(data), `cookbook_loads_total{outcome="failed"} 1`) {
		t.Errorf("metrics file missing failed counter:\n%s", data)
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	r := Nop()
	r.CookbookResolved(OutcomeLoaded, time.Second)
	r.FilesScanned(cookbook.SegmentFiles, 1)
}
