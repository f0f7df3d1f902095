// Package variant discovers a module's build variants and picks the variant
// to resolve against, both for the primary module and for every other module
// relative to one reference variant.
package variant

import (
	"strings"

	"gradlens/internal/core/errors"
	"gradlens/internal/engine/model"
)

// BuildVariant is one named build configuration of a module. IsDefault is
// tri-state: nil means "no information available", which is distinct from an
// explicit false.
type BuildVariant struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IsDefault   *bool  `json:"isDefault,omitempty"`
}

// ResolveCatalog enumerates the build variants of an application or library
// module. When a DSL model is available, a variant is flagged as default iff
// its name contains (case-insensitively) at least one product flavor whose
// DSL default flag is true. Without DSL information the flag stays nil.
//
// Known limitation, preserved on purpose: containment matching means a short
// flavor name ("pro") also matches variants produced by a longer flavor whose
// name contains it ("professional"). The DSL model does not expose the exact
// variant decomposition, so this stays a best-effort heuristic.
func ResolveCatalog(project *model.AndroidProject, dsl *model.AndroidDsl) model.Outcome[[]BuildVariant] {
	if project == nil {
		return model.FailNote[[]BuildVariant](
			errors.New(errors.CodeVariantResolution, "nil project model"),
			"variant catalog requires a project model",
		)
	}

	defaultFlavors := defaultFlavorNames(dsl)

	variants := make([]BuildVariant, 0, len(project.Variants))
	for _, raw := range project.Variants {
		v := BuildVariant{Name: raw.Name, DisplayName: raw.DisplayName}
		if v.DisplayName == "" {
			v.DisplayName = raw.Name
		}
		if len(defaultFlavors) > 0 {
			if containsAnyFold(raw.Name, defaultFlavors) {
				v.IsDefault = boolPtr(true)
			}
		}
		variants = append(variants, v)
	}
	return model.Ok(variants)
}

func defaultFlavorNames(dsl *model.AndroidDsl) []string {
	if dsl == nil {
		return nil
	}
	names := make([]string, 0, len(dsl.ProductFlavors))
	for _, flavor := range dsl.ProductFlavors {
		if flavor.IsDefault != nil && *flavor.IsDefault && flavor.Name != "" {
			names = append(names, flavor.Name)
		}
	}
	return names
}

func containsAnyFold(name string, needles []string) bool {
	lower := strings.ToLower(name)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}
