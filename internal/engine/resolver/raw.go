package resolver

import (
	"context"

	"gradlens/internal/core/errors"
	"gradlens/internal/engine/model"
)

// RawNode is one module in the diagnostic traversal: every model kind the
// service offers for the node, nesting preserved, no variant selection.
type RawNode struct {
	Name     string
	Path     string
	Models   map[model.Kind]any
	Missing  []model.Kind
	Failures map[model.Kind]string
	Children []RawNode
}

// ResolveRaw performs the nesting-preserving walk used for raw export. It is
// eager: every available model kind is fetched per node. Not used by the
// primary resolve path.
func (o *Orchestrator) ResolveRaw(ctx context.Context, session model.Session, rootDir string) (*RawNode, error) {
	buildOut := o.fetcher.GradleBuild(ctx, session, model.Handle{Dir: rootDir})
	if !buildOut.OK() {
		return nil, errors.Wrap(buildOut.Err(), errors.CodeConnectionFailure, "fetch project tree")
	}
	build := buildOut.Value()

	root := o.rawNode(ctx, session, build.Root)
	root.Name = build.ProjectName
	return &root, nil
}

func (o *Orchestrator) rawNode(ctx context.Context, session model.Session, handle model.Handle) RawNode {
	node := RawNode{
		Name:     handle.Name,
		Path:     handle.ProjectPath,
		Models:   make(map[model.Kind]any),
		Failures: make(map[model.Kind]string),
	}

	for _, kind := range model.AllKinds {
		out := o.fetcher.Fetch(ctx, session, handle, kind, nil)
		switch {
		case out.OK():
			node.Models[kind] = out.Value()
		case errors.IsCode(out.Cause(), errors.CodeModelNotFound):
			node.Missing = append(node.Missing, kind)
		default:
			node.Failures[kind] = out.Detail()
		}
	}

	for _, child := range handle.Children {
		node.Children = append(node.Children, o.rawNode(ctx, session, child))
	}
	return node
}
