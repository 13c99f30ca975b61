package loader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Registered for image.DecodeConfig; decoding itself stays external.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// DirSource yields the images of a directory as units, in lexical file
// order. Files are read lazily, one per Next call.
type DirSource struct {
	dir   string
	files []string
	idx   int
}

// NewDirSource lists the supported images under dir. An empty directory is
// an error: a conversion with nothing to convert is a caller mistake.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list input directory %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := imageMIMEs[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no supported images in %s", dir)
	}
	sort.Strings(files)

	return &DirSource{dir: dir, files: files}, nil
}

// Len returns the number of units the source will yield.
func (s *DirSource) Len() int { return len(s.files) }

func (s *DirSource) Next(ctx context.Context) (Unit, bool, error) {
	if err := ctx.Err(); err != nil {
		return Unit{}, false, err
	}
	if s.idx >= len(s.files) {
		return Unit{}, false, nil
	}

	name := s.files[s.idx]
	index := s.idx
	s.idx++

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return Unit{}, false, errors.Wrapf(err, "unable to read image %s", path)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Unit{}, false, errors.Wrapf(err, "unable to decode image %s", path)
	}

	return Unit{
		ID:    fmt.Sprintf("unit-%03d", index),
		Index: index,
		Space: deck.Space{Width: cfg.Width, Height: cfg.Height},
		Data:  data,
		MIME:  imageMIMEs[strings.ToLower(filepath.Ext(name))],
	}, true, nil
}
