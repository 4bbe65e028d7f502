package spaces

import (
	"os"
	"path/filepath"

	"spaceworks/internal/app/errors"
)

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg"}

// Locator resolves a space_id to its recorded audio file. Spaces are owned
// by the content subsystem; this core only reads them.
type Locator struct {
	dir string
}

// NewLocator creates a Locator rooted at the spaces directory.
func NewLocator(dir string) *Locator {
	return &Locator{dir: dir}
}

// AudioPath returns the path of the space's audio file, trying the known
// extensions in order. A missing asset is job-fatal, not retriable.
func (l *Locator) AudioPath(spaceID string) (string, error) {
	for _, ext := range audioExtensions {
		path := filepath.Join(l.dir, spaceID+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Wrapf(errors.ErrSourceMissing, "space %s", spaceID)
}
