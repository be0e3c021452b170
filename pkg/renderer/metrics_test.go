package renderer

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/genui-dev/genui/pkg/manifest"
)

func TestMetricsRecordPass(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegisterer(promReg))

	env := newTestEnv(t, "text_section")
	env.reg.RegisterFallback("unknown_x", "text_section")
	r := New(env.reg, env.host, WithMetrics(metrics))

	m := validManifest(
		manifest.Component{ID: "c1", Type: "text_section", Priority: 1},
		manifest.Component{ID: "c2", Type: "unknown_x", Priority: 2},
	)
	if err := r.RenderAll(context.Background(), m); err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}

	if got := testutil.ToFloat64(metrics.passesTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("render_passes_total{status=success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.componentsTotal.WithLabelValues("text_section")); got != 2 {
		t.Errorf("components_rendered_total{type=text_section} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.fallbacksTotal); got != 1 {
		t.Errorf("fallbacks_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.activeInstances); got != 2 {
		t.Errorf("active_instances = %v, want 2", got)
	}

	r.DestroyAll()
	if got := testutil.ToFloat64(metrics.activeInstances); got != 0 {
		t.Errorf("active_instances after DestroyAll = %v, want 0", got)
	}
}

func TestMetricsRecordFailure(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegisterer(promReg))

	env := newTestEnv(t) // empty registry: configuration error
	r := New(env.reg, env.host, WithMetrics(metrics))

	m := validManifest(manifest.Component{ID: "c1", Type: "mystery", Priority: 1})
	if err := r.RenderAll(context.Background(), m); err == nil {
		t.Fatal("RenderAll() error = nil, want failure")
	}

	if got := testutil.ToFloat64(metrics.passesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("render_passes_total{status=error} = %v, want 1", got)
	}
}

func TestMetricsRecordEvents(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegisterer(promReg))

	env := newTestEnv(t, "item_list")
	r := New(env.reg, env.host, WithMetrics(metrics))

	w := renderOne(t, r, env, manifest.Component{ID: "c1", Type: "item_list", Priority: 1})
	w.emitInteraction("click", nil)
	w.emitDataChange(map[string]any{"v": 1})

	if got := testutil.ToFloat64(metrics.interactionsTotal.WithLabelValues("click")); got != 1 {
		t.Errorf("interactions_total{event_type=click} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.dataChangesTotal); got != 1 {
		t.Errorf("data_changes_total = %v, want 1", got)
	}
}
