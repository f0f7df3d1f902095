package model

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshotFile(t *testing.T, dir, name string, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func snapshotFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSnapshotFile(t, dir, "build.json", GradleBuild{
		ProjectName: "sample",
		RootDir:     "/work/sample",
		Root: Handle{
			Name:        "sample",
			ProjectPath: ":",
			Children: []Handle{
				{Name: "app", ProjectPath: ":app"},
			},
		},
	})
	writeSnapshotFile(t, dir, "_app/AndroidProject.json", AndroidProject{
		Namespace: "com.example.app",
		Variants:  []VariantModel{{Name: "debug"}},
	})
	writeSnapshotFile(t, dir, "_app/VariantDependencies.debug.json", VariantDependencies{Name: "debug"})
	return dir
}

func TestSnapshotClientConnect(t *testing.T) {
	client := &SnapshotClient{Dir: snapshotFixture(t)}
	session, err := client.Connect(context.Background(), "/work/sample")
	require.NoError(t, err)
	defer session.Close()

	got, err := session.Fetch(context.Background(), Handle{}, KindGradleBuild, nil)
	require.NoError(t, err)
	build, ok := got.(*GradleBuild)
	require.True(t, ok)
	assert.Equal(t, "sample", build.ProjectName)
	require.Len(t, build.Root.Children, 1)
	assert.Equal(t, ":app", build.Root.Children[0].ProjectPath)
}

func TestSnapshotClientConnectRejectsBadDir(t *testing.T) {
	client := &SnapshotClient{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := client.Connect(context.Background(), "")
	assert.Error(t, err)

	client = &SnapshotClient{Dir: t.TempDir()} // no build.json
	_, err = client.Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestSnapshotSessionFetchModule(t *testing.T) {
	client := &SnapshotClient{Dir: snapshotFixture(t)}
	session, err := client.Connect(context.Background(), "")
	require.NoError(t, err)
	defer session.Close()

	app := Handle{Name: "app", ProjectPath: ":app"}

	got, err := session.Fetch(context.Background(), app, KindAndroidProject, nil)
	require.NoError(t, err)
	project := got.(*AndroidProject)
	assert.Equal(t, "com.example.app", project.Namespace)

	got, err = session.Fetch(context.Background(), app, KindVariantDependencies, &Params{VariantName: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", got.(*VariantDependencies).Name)
}

func TestSnapshotSessionMissingModel(t *testing.T) {
	client := &SnapshotClient{Dir: snapshotFixture(t)}
	session, err := client.Connect(context.Background(), "")
	require.NoError(t, err)
	defer session.Close()

	_, err = session.Fetch(context.Background(), Handle{ProjectPath: ":app"}, KindAndroidDsl, nil)
	assert.True(t, errors.Is(err, ErrNoModel))

	_, err = session.Fetch(context.Background(), Handle{ProjectPath: ":gone"}, KindAndroidProject, nil)
	assert.True(t, errors.Is(err, ErrNoModel))
}

func TestSnapshotSessionCorruptModel(t *testing.T) {
	dir := snapshotFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_app", "AndroidDsl.json"), []byte("{not json"), 0o644))

	client := &SnapshotClient{Dir: dir}
	session, err := client.Connect(context.Background(), "")
	require.NoError(t, err)
	defer session.Close()

	_, err = session.Fetch(context.Background(), Handle{ProjectPath: ":app"}, KindAndroidDsl, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoModel))
}

func TestSnapshotSessionCanceledContext(t *testing.T) {
	client := &SnapshotClient{Dir: snapshotFixture(t)}
	session, err := client.Connect(context.Background(), "")
	require.NoError(t, err)
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = session.Fetch(ctx, Handle{ProjectPath: ":app"}, KindAndroidProject, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModuleDirName(t *testing.T) {
	assert.Equal(t, "_", moduleDirName(":"))
	assert.Equal(t, "_app", moduleDirName(":app"))
	assert.Equal(t, "_feature_login", moduleDirName(":feature:login"))
}
