package registry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/genui-dev/genui/pkg/widget"
)

// fakeWidget records lifecycle calls for assertions.
type fakeWidget struct {
	typ       string
	data      map[string]any
	refreshes int
	destroyed bool
}

func (f *fakeWidget) Type() string { return f.typ }

func (f *fakeWidget) SetData(data map[string]any) { f.data = data }

func (f *fakeWidget) Data() map[string]any { return f.data }

func (f *fakeWidget) Refresh() { f.refreshes++ }

func (f *fakeWidget) Destroy() { f.destroyed = true }

func factoryFor(typ string) widget.Factory {
	return func(host widget.Host) (widget.Instance, error) {
		return &fakeWidget{typ: typ}, nil
	}
}

func TestRegisterResolve(t *testing.T) {
	reg := New()
	meta := Metadata{Category: "content", DisplayName: "Text"}
	if err := reg.Register("text_section", factoryFor("text_section"), meta); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := reg.Resolve("text_section")
	if !ok {
		t.Fatal("Resolve() = absent, want present")
	}
	if got.DisplayName != "Text" || got.Category != "content" {
		t.Errorf("Resolve() metadata = %+v", got)
	}

	if _, ok := reg.Resolve("unknown"); ok {
		t.Error("Resolve(unknown) = present, want absent")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	reg := New()
	reg.Register("t", factoryFor("t"), Metadata{DisplayName: "first"})
	reg.Register("t", factoryFor("t"), Metadata{DisplayName: "second"})

	got, _ := reg.Resolve("t")
	if got.DisplayName != "second" {
		t.Errorf("DisplayName = %q, want %q", got.DisplayName, "second")
	}
}

func TestRegisterNilFactory(t *testing.T) {
	reg := New()
	if err := reg.Register("t", nil, Metadata{}); !errors.Is(err, ErrNilFactory) {
		t.Errorf("Register(nil factory) error = %v, want ErrNilFactory", err)
	}
}

func TestCreateOriginalType(t *testing.T) {
	reg := New()
	reg.Register("text_section", factoryFor("text_section"), Metadata{Category: "content"})

	host := widget.NewHeadlessHost()
	data := map[string]any{"text": "hi"}
	res, err := reg.Create("text_section", host, data)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !res.WasOriginalType {
		t.Error("WasOriginalType = false, want true")
	}
	if res.ActualType != "text_section" {
		t.Errorf("ActualType = %q, want %q", res.ActualType, "text_section")
	}

	fw := res.Instance.(*fakeWidget)
	if diff := cmp.Diff(data, fw.data); diff != "" {
		t.Errorf("injected data mismatch (-want +got):\n%s", diff)
	}
	if fw.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1 (synchronous refresh after creation)", fw.refreshes)
	}
	if host.Len() != 1 {
		t.Errorf("host.Len() = %d, want 1", host.Len())
	}
}

func TestCreateStaticFallback(t *testing.T) {
	reg := New()
	reg.Register("text_section", factoryFor("text_section"), Metadata{})
	reg.RegisterFallback("unknown_x", "text_section")

	res, err := reg.Create("unknown_x", widget.NewHeadlessHost(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.WasOriginalType {
		t.Error("WasOriginalType = true, want false")
	}
	if res.ActualType != "text_section" {
		t.Errorf("ActualType = %q, want %q", res.ActualType, "text_section")
	}
}

func TestCreateDefaultFallback(t *testing.T) {
	reg := New()
	reg.Register(DefaultType, factoryFor(DefaultType), Metadata{})

	// No static mapping at all: second hop lands on the default.
	res, err := reg.Create("never_seen", widget.NewHeadlessHost(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.ActualType != DefaultType {
		t.Errorf("ActualType = %q, want %q", res.ActualType, DefaultType)
	}
	if res.WasOriginalType {
		t.Error("WasOriginalType = true, want false")
	}
}

func TestCreateFallbackTargetUnregistered(t *testing.T) {
	reg := New()
	reg.Register(DefaultType, factoryFor(DefaultType), Metadata{})
	reg.RegisterFallback("unknown_x", "also_unregistered")

	// Mapping points nowhere; the chain still ends at the default and
	// never recurses through the mapping again.
	res, err := reg.Create("unknown_x", widget.NewHeadlessHost(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.ActualType != DefaultType {
		t.Errorf("ActualType = %q, want %q", res.ActualType, DefaultType)
	}
}

func TestCreateConfigurationError(t *testing.T) {
	reg := New()

	_, err := reg.Create("anything", widget.NewHeadlessHost(), nil)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Create() error = %v, want *ConfigurationError", err)
	}
	if cfgErr.RequestedType != "anything" {
		t.Errorf("RequestedType = %q, want %q", cfgErr.RequestedType, "anything")
	}
	if cfgErr.DefaultType != DefaultType {
		t.Errorf("DefaultType = %q, want %q", cfgErr.DefaultType, DefaultType)
	}
}

func TestCreateFactoryFailure(t *testing.T) {
	reg := New()
	cause := fmt.Errorf("widget exploded")
	reg.Register("boom", func(host widget.Host) (widget.Instance, error) {
		return nil, cause
	}, Metadata{})

	host := widget.NewHeadlessHost()
	_, err := reg.Create("boom", host, nil)

	var crErr *CreationError
	if !errors.As(err, &crErr) {
		t.Fatalf("Create() error = %v, want *CreationError", err)
	}
	if crErr.Type != "boom" {
		t.Errorf("Type = %q, want %q", crErr.Type, "boom")
	}
	if crErr.Host != host {
		t.Error("Host not carried on CreationError")
	}
	if !errors.Is(err, cause) {
		t.Error("underlying cause not reachable via errors.Is")
	}
}

func TestCreateHostRejection(t *testing.T) {
	reg := New()
	reg.Register("t", factoryFor("t"), Metadata{})

	host := widget.NewHeadlessHost()
	host.AttachHook = func(inst widget.Instance) error {
		return fmt.Errorf("container full")
	}

	_, err := reg.Create("t", host, nil)
	var crErr *CreationError
	if !errors.As(err, &crErr) {
		t.Fatalf("Create() error = %v, want *CreationError", err)
	}
	if host.Len() != 0 {
		t.Errorf("host.Len() = %d, want 0 after rejection", host.Len())
	}
}

func TestUnregisterAndClear(t *testing.T) {
	reg := New()
	reg.Register("a", factoryFor("a"), Metadata{Fallback: "b"})
	reg.Register("b", factoryFor("b"), Metadata{})

	reg.Unregister("a")
	if reg.Has("a") {
		t.Error("Has(a) = true after Unregister")
	}
	if !reg.Has("b") {
		t.Error("Has(b) = false, want true")
	}

	reg.Clear()
	if got := reg.Types(); len(got) != 0 {
		t.Errorf("Types() after Clear = %v, want empty", got)
	}
}

func TestTypesSorted(t *testing.T) {
	reg := New()
	for _, typ := range []string{"zeta", "alpha", "mid"} {
		reg.Register(typ, factoryFor(typ), Metadata{})
	}

	want := []string{"alpha", "mid", "zeta"}
	if diff := cmp.Diff(want, reg.Types()); diff != "" {
		t.Errorf("Types() mismatch (-want +got):\n%s", diff)
	}
}

func TestWithDefaultType(t *testing.T) {
	reg := New(WithDefaultType("custom_default"))
	reg.Register("custom_default", factoryFor("custom_default"), Metadata{})

	res, err := reg.Create("missing", widget.NewHeadlessHost(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.ActualType != "custom_default" {
		t.Errorf("ActualType = %q, want %q", res.ActualType, "custom_default")
	}
}
