package video

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
	"spaceworks/internal/app/spaces"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

// TestRunRefusesExistingOutput: the output name is derived from the space,
// so a second render without the overwrite option must refuse instead of
// clobbering the previous video.
func TestRunRefusesExistingOutput(t *testing.T) {
	spacesDir := t.TempDir()
	workDir := t.TempDir()
	writeFile(t, filepath.Join(spacesDir, "space-1.mp3"))
	writeFile(t, filepath.Join(workDir, "space-1.mp4"))

	r := NewRenderer(spaces.NewLocator(spacesDir), workDir)
	job := &model.Job{ID: "job-1", Kind: model.KindVideo, SpaceID: "space-1"}

	_, err := r.Run(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

// TestRunMissingSource: a space with no audio asset fails with the source
// sentinel before any work directory is touched.
func TestRunMissingSource(t *testing.T) {
	r := NewRenderer(spaces.NewLocator(t.TempDir()), t.TempDir())
	job := &model.Job{ID: "job-1", Kind: model.KindVideo, SpaceID: "space-none"}

	_, err := r.Run(context.Background(), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSourceMissing)
}
