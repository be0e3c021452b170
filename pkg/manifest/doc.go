// Package manifest defines the component manifest data model.
//
// A manifest is the structured payload produced by the upstream analysis
// pipeline for one response. It describes, in order, the components the
// renderer should materialize as live widgets: their types, titles,
// priorities, data payloads, and presentation hints.
//
// The manifest is pure data. Behavior lives in pkg/registry (type
// resolution) and pkg/renderer (orchestration). Entries are immutable once
// received: the renderer merges them with derived context before handing
// them to a widget but never mutates the original.
//
// # Wire Contract
//
// Manifests travel as JSON. Serializing then parsing a manifest reproduces
// identical ids, types, priorities, and payloads for every entry:
//
//	data, _ := m.Encode()
//	parsed, _ := manifest.Parse(data)
//
// A manifest whose Version does not match SupportedVersion is valid JSON
// but must not be rendered; callers check VersionSupported.
//
// # Sources
//
// The Source interface abstracts where manifests come from. FileSource,
// HTTPSource, and S3Source cover local files, the upstream HTTP pipeline,
// and S3 drop buckets respectively.
package manifest
