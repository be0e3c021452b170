package widgets

import (
	"github.com/genui-dev/genui/pkg/registry"
	"github.com/genui-dev/genui/pkg/widget"
)

// knownFallbacks maps upstream component types the pipeline is known to
// emit but this build does not ship. Each resolves to the foundational
// text section rather than falling through to the registry default, so
// resolution stays a single hop for the common cases.
var knownFallbacks = map[string]string{
	"summary_card": TypeTextSection,
	"chart":        TypeTextSection,
	"timeline":     TypeTextSection,
	"data_table":   TypeKeyValueTable,
}

// RegisterBuiltins registers the built-in widget types and the static
// fallback mappings for known upstream types.
func RegisterBuiltins(reg *registry.Registry) error {
	if err := reg.Register(TypeTextSection, func(host widget.Host) (widget.Instance, error) {
		return NewTextSection(), nil
	}, registry.Metadata{
		Category:    "content",
		DisplayName: "Text Section",
		Description: "Plain text block; the foundational fallback target",
	}); err != nil {
		return err
	}

	if err := reg.Register(TypeKeyValueTable, func(host widget.Host) (widget.Instance, error) {
		return NewKeyValueTable(), nil
	}, registry.Metadata{
		Fallback:    TypeTextSection,
		Category:    "data",
		DisplayName: "Key-Value Table",
		Description: "Aligned label/value rows",
	}); err != nil {
		return err
	}

	if err := reg.Register(TypeItemList, func(host widget.Host) (widget.Instance, error) {
		return NewItemList(), nil
	}, registry.Metadata{
		Fallback:            TypeTextSection,
		RequiresInteraction: true,
		Category:            "data",
		DisplayName:         "Item List",
		Description:         "Bulleted list with item selection",
	}); err != nil {
		return err
	}

	for typ, target := range knownFallbacks {
		reg.RegisterFallback(typ, target)
	}
	return nil
}
