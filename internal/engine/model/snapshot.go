package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotClient serves models from a directory of captured JSON dumps,
// letting a resolve run against a build whose model service is not reachable.
//
// Layout:
//
//	<dir>/build.json                          GradleBuild
//	<dir>/<module>/<Kind>.json                per-module models
//	<dir>/<module>/VariantDependencies.<variant>.json
//
// where <module> is the project path with ':' replaced by '_' (the root
// project ":" becomes "_").
type SnapshotClient struct {
	Dir string
}

func (c *SnapshotClient) Connect(ctx context.Context, rootDir string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snapshot path %s is not a directory", c.Dir)
	}
	if _, err := os.Stat(filepath.Join(c.Dir, "build.json")); err != nil {
		return nil, fmt.Errorf("snapshot dir %s has no build.json: %w", c.Dir, err)
	}
	return &snapshotSession{dir: c.Dir}, nil
}

type snapshotSession struct {
	dir string
}

func (s *snapshotSession) Fetch(ctx context.Context, handle Handle, kind Kind, params *Params) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.modelPath(handle, kind, params))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s for %s", ErrNoModel, kind, handle.ProjectPath)
	}
	if err != nil {
		return nil, err
	}
	return decodeModel(kind, data)
}

func (s *snapshotSession) Close() error { return nil }

func (s *snapshotSession) modelPath(handle Handle, kind Kind, params *Params) string {
	if kind == KindGradleBuild {
		return filepath.Join(s.dir, "build.json")
	}

	name := string(kind) + ".json"
	if kind == KindVariantDependencies && params != nil && params.VariantName != "" {
		name = fmt.Sprintf("%s.%s.json", kind, params.VariantName)
	}
	return filepath.Join(s.dir, moduleDirName(handle.ProjectPath), name)
}

func moduleDirName(projectPath string) string {
	return strings.ReplaceAll(projectPath, ":", "_")
}

func decodeModel(kind Kind, data []byte) (any, error) {
	var target any
	switch kind {
	case KindGradleBuild:
		target = &GradleBuild{}
	case KindAndroidProject:
		target = &AndroidProject{}
	case KindBasicAndroidProject:
		target = &BasicAndroidProject{}
	case KindAndroidDsl:
		target = &AndroidDsl{}
	case KindVariantDependencies:
		target = &VariantDependencies{}
	case KindGradleModule:
		target = &GradleModule{}
	default:
		return nil, fmt.Errorf("unsupported model kind %q", kind)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return target, nil
}
