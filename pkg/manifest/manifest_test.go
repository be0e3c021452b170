package manifest

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sampleManifest() *Manifest {
	return &Manifest{
		Version:   SupportedVersion,
		Kind:      KindComponentManifest,
		SessionID: "sess-42",
		Timestamp: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Components: []Component{
			{
				ID:       "c1",
				Type:     "text_section",
				Title:    "Summary",
				Priority: 1,
				Category: "content",
				Data:     map[string]any{"text": "hello"},
				Spec:     Spec{Style: "plain", ShowHeader: true},
			},
			{
				ID:       "c2",
				Type:     "item_list",
				Title:    "Findings",
				Priority: 2,
				Category: "data",
				Data:     map[string]any{"items": []any{"a", "b"}},
				Spec:     Spec{Collapsible: true},
			},
		},
		Metadata: &Metadata{FollowUpSuggestions: []string{"Ask about b"}},
	}
}

func TestRoundTrip(t *testing.T) {
	m := sampleManifest()

	data, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if diff := cmp.Diff(m, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("Parse() expected error for malformed JSON")
	}
}

func TestVersionSupported(t *testing.T) {
	tests := []struct {
		name string
		m    *Manifest
		want bool
	}{
		{"nil manifest", nil, false},
		{"supported", &Manifest{Version: SupportedVersion}, true},
		{"mismatch", &Manifest{Version: "2.0"}, false},
		{"empty", &Manifest{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.VersionSupported(); got != tt.want {
				t.Errorf("VersionSupported() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		m    *Manifest
		want bool
	}{
		{"nil manifest", nil, true},
		{"no components", &Manifest{Version: SupportedVersion}, true},
		{"with components", sampleManifest(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Manifest)
		wantErr bool
	}{
		{"valid", func(m *Manifest) {}, false},
		{"empty id", func(m *Manifest) { m.Components[1].ID = "" }, true},
		{"empty type", func(m *Manifest) { m.Components[0].Type = "" }, true},
		{"duplicate id", func(m *Manifest) { m.Components[1].ID = "c1" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleManifest()
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	var m *Manifest
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() on nil = %v, want nil", err)
	}
}

func TestCloneDataIsolation(t *testing.T) {
	c := Component{ID: "c1", Type: "text_section", Data: map[string]any{"text": "original"}}

	clone := c.CloneData()
	clone["text"] = "mutated"
	clone["extra"] = true

	if got := c.Data["text"]; got != "original" {
		t.Errorf("original data mutated: text = %v", got)
	}
	if _, ok := c.Data["extra"]; ok {
		t.Error("original data gained key from clone")
	}
}
