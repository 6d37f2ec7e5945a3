// Package naming generates Azure resource names that satisfy per-type
// length and charset constraints.
package naming

import "strings"

// Spec describes the naming constraints for one resource type.
type Spec struct {
	TypeCode  string
	MaxLength int
	Prefix    string
	Lowercase bool
	NoHyphens bool
}

// specs maps resource type codes to their Azure naming constraints.
var specs = map[string]Spec{
	"rg":   {TypeCode: "rg", MaxLength: 90, Prefix: "rg"},
	"st":   {TypeCode: "st", MaxLength: 24, Prefix: "st", Lowercase: true, NoHyphens: true},
	"kv":   {TypeCode: "kv", MaxLength: 24, Prefix: "kv"},
	"vnet": {TypeCode: "vnet", MaxLength: 64, Prefix: "vnet"},
	"snet": {TypeCode: "snet", MaxLength: 80, Prefix: "snet"},
	"nsg":  {TypeCode: "nsg", MaxLength: 80, Prefix: "nsg"},
	"pip":  {TypeCode: "pip", MaxLength: 80, Prefix: "pip"},
	"nic":  {TypeCode: "nic", MaxLength: 80, Prefix: "nic"},
	"vm":   {TypeCode: "vm", MaxLength: 64, Prefix: "vm"},
	"aks":  {TypeCode: "aks", MaxLength: 63, Prefix: "aks"},
	"acr":  {TypeCode: "acr", MaxLength: 50, Prefix: "acr", Lowercase: true, NoHyphens: true},
	"law":  {TypeCode: "law", MaxLength: 63, Prefix: "law"},
	"appi": {TypeCode: "appi", MaxLength: 260, Prefix: "appi"},
	"id":   {TypeCode: "id", MaxLength: 128, Prefix: "id"},
	"sql":  {TypeCode: "sql", MaxLength: 63, Prefix: "sql"},
	"psql": {TypeCode: "psql", MaxLength: 63, Prefix: "psql"},
}

// genericMaxLength is used for resource types not present in the spec table.
const genericMaxLength = 80

// LookupSpec returns the naming spec for a type code. Unknown codes are not an
// error: they get a generic spec whose prefix is the code itself, and the
// second return value reports whether the code was known.
func LookupSpec(code string) (Spec, bool) {
	if s, ok := specs[code]; ok {
		return s, true
	}
	return Spec{TypeCode: code, MaxLength: genericMaxLength, Prefix: code}, false
}

// Request carries the inputs for one name generation.
type Request struct {
	ResourceType string
	Name         string
	Environment  string
	RegionCode   string // optional
	Instance     string // optional
}

// Generate builds a canonical resource name.
//
// Format: {prefix}-{name}-{environment}-{region}-{instance}, for example
// rg-webapp-dev-wus2-001. Types that forbid hyphens join segments directly.
// The name is lowercased if the type requires it and then hard-truncated to
// the type's maximum length. Truncation happens after joining and case
// transformation, so a truncated name can end mid-segment; no uniqueness
// check is performed.
func Generate(req Request) string {
	spec, _ := LookupSpec(req.ResourceType)

	parts := []string{spec.Prefix, req.Name, req.Environment}
	if req.RegionCode != "" {
		parts = append(parts, req.RegionCode)
	}
	if req.Instance != "" {
		parts = append(parts, req.Instance)
	}

	sep := "-"
	if spec.NoHyphens {
		sep = ""
	}
	full := strings.Join(parts, sep)

	if spec.Lowercase {
		full = strings.ToLower(full)
	}

	if len(full) > spec.MaxLength {
		full = full[:spec.MaxLength]
	}

	return full
}
