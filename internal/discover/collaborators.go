package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Venipa/taiga/internal/anime"
)

// Library is the anime record store the season view is built from.
type Library interface {
	FindByExternalID(ctx context.Context, externalID string, service anime.ServiceID) (anime.ID, bool, error)
	// FindByID returns nil when the record does not exist.
	FindByID(ctx context.Context, id anime.ID) (*anime.Item, error)
	Insert(ctx context.Context, item *anime.Item) (anime.ID, error)
	UpdateExisting(ctx context.Context, id anime.ID, item *anime.Item) error
	Save(ctx context.Context) error
	// All returns every record in insertion order.
	All(ctx context.Context) ([]*anime.Item, error)
}

// DocumentSource reads season files by name. A missing file is reported
// with an error wrapping fs.ErrNotExist.
type DocumentSource interface {
	ReadLocal(name string) ([]byte, error)
}

// Dispatcher starts downloads without waiting for them.
type Dispatcher interface {
	Enqueue(url string)
}

// Services maps service names to identifiers.
type Services interface {
	IDForName(name string) anime.ServiceID
	Name(id anime.ServiceID) string
	Active() anime.ServiceID
}

// Notifier receives user-facing status lines and errors.
type Notifier interface {
	ReportStatus(text string)
	ReportError(text, detail string)
}

// DirSource reads season files from a directory.
type DirSource struct {
	Dir string
}

// ReadLocal reads name from the directory. Absolute names are read as is.
func (s DirSource) ReadLocal(name string) ([]byte, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read season file: %w", err)
	}
	return data, nil
}

type nopNotifier struct{}

func (nopNotifier) ReportStatus(string)         {}
func (nopNotifier) ReportError(string, string) {}

type nopDispatcher struct{}

func (nopDispatcher) Enqueue(string) {}
