package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/manav03panchal/pfsheet/internal/logging"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/storage"
	"github.com/manav03panchal/pfsheet/internal/validate"
)

// AllLegajos is the file name component used when an export is not
// restricted to one person.
const AllLegajos = "todos"

// Artifact describes a saved export.
type Artifact struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"saved_path"`
	Content  string `json:"content"`
	Count    int    `json:"count"`
}

// Writer persists codec output under Dir.
type Writer struct {
	Dir   string
	Codec *Codec
	Now   func() time.Time

	mu sync.Mutex
}

// DefaultDir returns the default export directory under the XDG base directories.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, storage.AppName, "exports")
}

// NewWriter creates a writer into dir. An empty dir uses DefaultDir and a nil
// codec uses DefaultCodec.
func NewWriter(dir string, codec *Codec) *Writer {
	if dir == "" {
		dir = DefaultDir()
	}
	if codec == nil {
		codec = DefaultCodec()
	}
	return &Writer{Dir: dir, Codec: codec, Now: time.Now}
}

// BaseName returns the artifact name without collision suffix or extension:
// PF_PlantillaRegTiempos_<YYYYMM>_<legajo|todos>. The month comes from the
// canonical dateFrom, or the current date when dateFrom is empty.
func (w *Writer) BaseName(dateFrom, legajo string) string {
	month := w.Now().Format("200601")
	if t, err := time.Parse("2006-01-02", dateFrom); err == nil {
		month = t.Format("200601")
	}

	leg := validate.SafeFilename(legajo)
	if leg == "" {
		leg = AllLegajos
	}
	return strings.Join([]string{TemplateName, month, leg}, "_")
}

// Write renders rows and saves them atomically. If the target name is taken,
// a _2, _3, ... suffix is appended until a free name is found. Existing files
// are never overwritten.
func (w *Writer) Write(ctx context.Context, rows []*model.Timesheet, dateFrom, legajo string) (*Artifact, error) {
	content := w.Codec.Marshal(rows)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := storage.EnsureDirectory(w.Dir); err != nil {
		return nil, err
	}

	filename, err := w.reserveName(w.BaseName(dateFrom, legajo))
	if err != nil {
		return nil, err
	}
	path := filepath.Join(w.Dir, filename)

	if err := storage.SafeWrite(path, content, 0644); err != nil {
		os.Remove(path)
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "export written",
		logging.KeyFile, path,
		logging.KeyCount, len(rows),
	)

	return &Artifact{
		ID:       id.String(),
		Filename: filename,
		Path:     path,
		Content:  string(content),
		Count:    len(rows),
	}, nil
}

// reserveName creates an empty file under the first free name so that another
// writer on the same directory, in this process or not, cannot claim it too.
// The caller replaces the placeholder with the real content.
func (w *Writer) reserveName(base string) (string, error) {
	name := base + ".csv"
	for n := 2; ; n++ {
		f, err := os.OpenFile(filepath.Join(w.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			if err := f.Close(); err != nil {
				return "", fmt.Errorf("reserve export file: %w", err)
			}
			return name, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("reserve export file: %w", err)
		}
		name = fmt.Sprintf("%s_%d.csv", base, n)
	}
}
