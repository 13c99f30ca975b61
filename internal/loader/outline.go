package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Outline is the parsed input of the create variant.
type Outline struct {
	Path    string
	Content string
}

// ReadOutline loads a Markdown outline. Unexpected extensions are accepted
// with a warning; a missing or empty file is an error.
func ReadOutline(path string, log *zap.Logger) (Outline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return Outline{}, errors.Wrapf(err, "unable to read outline %s", path)
	}
	if info.IsDir() {
		return Outline{}, errors.Errorf("outline %s is a directory", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" {
		log.Warn("unexpected outline extension", zap.String("path", path), zap.String("ext", ext))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Outline{}, errors.Wrapf(err, "unable to read outline %s", path)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return Outline{}, errors.Errorf("outline %s is empty", path)
	}

	return Outline{Path: path, Content: string(content)}, nil
}
