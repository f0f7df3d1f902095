package output

import (
	"fmt"
	"sort"
	"strings"

	"gradlens/internal/engine/resolver"
)

type MermaidGenerator struct {
	project *resolver.Project
}

func NewMermaidGenerator(project *resolver.Project) *MermaidGenerator {
	return &MermaidGenerator{project: project}
}

// Generate renders the module graph as a mermaid flowchart. Failed modules
// are styled, cycle edges annotated.
func (m *MermaidGenerator) Generate(cycles [][]string) (string, error) {
	if m.project == nil {
		return "", fmt.Errorf("nil project")
	}

	var b strings.Builder
	b.WriteString("flowchart LR\n")

	cycleEdges := cycleEdgeSet(cycles)
	var failed []string

	for _, mod := range m.project.Modules {
		id := mermaidID(mod.ModulePath())
		switch concrete := mod.(type) {
		case resolver.AndroidModule:
			fmt.Fprintf(&b, "    %s[\"%s<br/>%s %s\"]\n", id, concrete.Path, concrete.Kind, concrete.SelectedVariant.Name)
		case resolver.FailedModule:
			fmt.Fprintf(&b, "    %s[\"%s (failed)\"]\n", id, concrete.Path)
			failed = append(failed, id)
		default:
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, mod.ModulePath())
		}
	}

	type edge struct{ from, to string }
	var edges []edge
	for _, mod := range m.project.Modules {
		android, ok := mod.(resolver.AndroidModule)
		if !ok {
			continue
		}
		for _, dep := range android.Dependencies {
			if to, ok := projectEdgeTarget(dep); ok {
				edges = append(edges, edge{android.Path, to})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	for _, e := range edges {
		if cycleEdges[e.from][e.to] {
			fmt.Fprintf(&b, "    %s -->|cycle| %s\n", mermaidID(e.from), mermaidID(e.to))
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", mermaidID(e.from), mermaidID(e.to))
		}
	}

	for _, id := range failed {
		fmt.Fprintf(&b, "    style %s fill:#f99,stroke:#900\n", id)
	}

	return b.String(), nil
}

// mermaidID sanitizes a gradle project path into a mermaid node id.
func mermaidID(path string) string {
	replacer := strings.NewReplacer(":", "_", "-", "_", ".", "_")
	id := replacer.Replace(path)
	id = strings.Trim(id, "_")
	if id == "" {
		id = "root"
	}
	return "m_" + id
}
