package layouts

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"embed"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed data/*.yaml
var builtin embed.FS

// Source resolves layout ids to layout documents. A file named <id>.yaml in
// dir takes precedence over the built-in copy.
type Source struct {
	dir string
	log *zap.SugaredLogger
}

func NewSource(dir string, log *zap.SugaredLogger) *Source {
	return &Source{
		dir: dir,
		log: log,
	}
}

func (s *Source) Read(id string) ([]byte, error) {
	if !Known(id) {
		return nil, fmt.Errorf("%w: %q", ongeul.ErrUnknownLayout, id)
	}

	if s.dir != "" {
		path := filepath.Join(s.dir, id+".yaml")
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			s.log.Debugw("using layout override", "id", id, "path", path)
			return data, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read layout override: %w", err)
		}
	}

	data, err := builtin.ReadFile("data/" + id + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("read built-in layout: %w", err)
	}
	return data, nil
}

func (s *Source) Describe(id string) (Header, error) {
	data, err := s.Read(id)
	if err != nil {
		return Header{}, err
	}

	var header Header
	if err := yaml.Unmarshal(data, &header); err != nil {
		return Header{}, fmt.Errorf("decode yaml: %w", err)
	}
	if header.ID != id {
		return header, fmt.Errorf("layout %q declares id %q", id, header.ID)
	}

	return header, nil
}

// List describes every known layout. A layout that cannot be described is
// logged and left out, it only matters once it becomes the active one.
func (s *Source) List() []Header {
	headers := make([]Header, 0, len(IDs))
	for _, id := range IDs {
		header, err := s.Describe(id)
		if err != nil {
			s.log.Warnw("skipping layout", "id", id, "error", err)
			continue
		}
		headers = append(headers, header)
	}
	return headers
}
