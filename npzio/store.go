package npzio

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
)

// A ByteStore opens byte streams for archive paths. Remote stores register
// themselves under a URI scheme; the local filesystem handles plain paths.
type ByteStore interface {
	Open(path string) (io.ReadCloser, error)   // Open opens a path for reading
	Create(path string) (io.WriteCloser, error) // Create opens a path for writing, truncating any existing content
}

var (
	storesMu sync.RWMutex
	stores   = map[string]ByteStore{"file": localStore{}}
)

// RegisterStore makes a ByteStore available under a URI scheme, replacing
// any previous store for that scheme
func RegisterStore(scheme string, store ByteStore) {
	storesMu.Lock()
	defer storesMu.Unlock()
	stores[scheme] = store
}

// localStore reads and writes the local filesystem
type localStore struct{}

func (localStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (localStore) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// resolve splits a path into its store and the store-relative remainder.
// Paths without a scheme go to the local filesystem.
func resolve(path string) (ByteStore, string, error) {
	i := strings.Index(path, "://")
	if i < 0 {
		return localStore{}, path, nil
	}
	scheme := path[:i]
	storesMu.RLock()
	store, ok := stores[scheme]
	storesMu.RUnlock()
	if !ok {
		return nil, "", errors.ParameterError{Msg: fmt.Sprintf("no byte store registered for scheme %s", scheme)}
	}
	return store, path[i+3:], nil
}

// Write persists a frame archive to a path, local or scheme-addressed
func Write(path string, f sparsity.Frame) error {
	store, rest, err := resolve(path)
	if err != nil {
		return err
	}
	w, err := store.Create(rest)
	if err != nil {
		return err
	}
	if err := WriteFrame(w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Read loads a frame archive from a path, local or scheme-addressed
func Read(path string) (sparsity.Frame, error) {
	store, rest, err := resolve(path)
	if err != nil {
		return nil, err
	}
	r, err := store.Open(rest)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadFrame(r)
}
