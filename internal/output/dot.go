package output

import (
	"fmt"
	"sort"
	"strings"

	"gradlens/internal/engine/deps"
	"gradlens/internal/engine/resolver"
)

type DOTGenerator struct {
	project *resolver.Project
}

func NewDOTGenerator(project *resolver.Project) *DOTGenerator {
	return &DOTGenerator{project: project}
}

// Generate renders the inter-module project-dependency graph. Cycle edges are
// highlighted.
func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	if d.project == nil {
		return "", fmt.Errorf("nil project")
	}

	var buf strings.Builder
	buf.WriteString("digraph modules {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8];\n\n")

	cycleEdges := cycleEdgeSet(cycles)

	edges := make(map[string][]string)
	for _, mod := range d.project.Modules {
		label := fmt.Sprintf("%s\\n(%s)", mod.ModulePath(), resolver.ModuleKindName(mod))
		android, isAndroid := mod.(resolver.AndroidModule)
		if isAndroid {
			label = fmt.Sprintf("%s\\n(%s, %s)", android.Path, android.Kind, android.SelectedVariant.Name)
			for _, dep := range android.Dependencies {
				if to, ok := projectEdgeTarget(dep); ok {
					edges[android.Path] = append(edges[android.Path], to)
				}
			}
		}
		attrs := ""
		if _, failed := mod.(resolver.FailedModule); failed {
			attrs = ", color=red"
		}
		fmt.Fprintf(&buf, "  %q [label=\"%s\"%s];\n", mod.ModulePath(), label, attrs)
	}

	buf.WriteString("\n")
	froms := make([]string, 0, len(edges))
	for from := range edges {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		targets := edges[from]
		sort.Strings(targets)
		for _, to := range targets {
			if cycleEdges[from][to] {
				fmt.Fprintf(&buf, "  %q -> %q [color=red, label=\"CYCLE\"];\n", from, to)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func projectEdgeTarget(dep deps.Dependency) (string, bool) {
	switch d := dep.(type) {
	case deps.ProjectVariantDependency:
		return d.ProjectPath, true
	case deps.ProjectDependency:
		return d.ProjectPath, true
	}
	return "", false
}

func cycleEdgeSet(cycles [][]string) map[string]map[string]bool {
	set := make(map[string]map[string]bool)
	for _, cycle := range cycles {
		for i := 0; i+1 < len(cycle); i++ {
			from, to := cycle[i], cycle[i+1]
			if set[from] == nil {
				set[from] = make(map[string]bool)
			}
			set[from][to] = true
		}
	}
	return set
}
