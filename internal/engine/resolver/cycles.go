package resolver

import (
	"sort"
	"strings"

	"gradlens/internal/engine/deps"
)

// ProjectCycles finds cycles in the inter-module project-dependency graph of
// a resolved project. Each cycle is returned as the node list along the chain
// with the entry node repeated last. Informational only: the resolve itself
// does not care.
func ProjectCycles(project *Project) [][]string {
	adjacency := make(map[string][]string)
	for _, mod := range project.Modules {
		android, ok := mod.(AndroidModule)
		if !ok {
			continue
		}
		for _, dep := range android.Dependencies {
			switch d := dep.(type) {
			case deps.ProjectVariantDependency:
				adjacency[android.Path] = append(adjacency[android.Path], d.ProjectPath)
			case deps.ProjectDependency:
				adjacency[android.Path] = append(adjacency[android.Path], d.ProjectPath)
			}
		}
	}

	var cycles [][]string
	seen := make(map[string]bool)

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int)
	var stack []string

	var visit func(node string)
	visit = func(node string) {
		state[node] = inStack
		stack = append(stack, node)
		for _, next := range adjacency[node] {
			switch state[next] {
			case unvisited:
				visit(next)
			case inStack:
				cycle := extractCycle(stack, next)
				key := strings.Join(cycle, "\x00")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
	}

	nodes := make([]string, 0, len(adjacency))
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if state[node] == unvisited {
			visit(node)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], " ") < strings.Join(cycles[j], " ")
	})
	return cycles
}

// RenderCycle renders a cycle node list as ":a -> :b -> :a".
func RenderCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}

func extractCycle(stack []string, entry string) []string {
	start := 0
	for i, node := range stack {
		if node == entry {
			start = i
			break
		}
	}
	return append(append([]string{}, stack[start:]...), entry)
}
