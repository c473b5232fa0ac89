package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/contact"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/rotisserie/eris"
)

// Storage handles persistence of the output document and contact cache
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, eris.Wrap(err, "creating data directory")
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "getting home directory")
	}
	return filepath.Join(home, path[2:]), nil
}

// Path resolves name against the data directory. Absolute paths and
// home-relative paths are used as given.
func (s *Storage) Path(name string) string {
	if expanded, err := expandHome(name); err == nil && expanded != name {
		return expanded
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// LoadContactCache reads the contact cache, dropping entries that are
// expired at now. A missing file yields an empty cache. An unreadable or
// corrupt file is logged and also yields an empty cache.
func (s *Storage) LoadContactCache(name string, now time.Time) *contact.Cache {
	path := s.Path(name)
	cache := contact.NewCache()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Ignoring unreadable contact cache", logger.Fields{
				"path":  path,
				"error": err.Error(),
			})
		}
		return cache
	}

	var entries map[string]contact.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("Ignoring corrupt contact cache", logger.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return cache
	}

	dropped := 0
	for bioPath, e := range entries {
		if e.Expired(now) {
			dropped++
			continue
		}
		cache.Restore(bioPath, e)
	}

	logger.Debug("Loaded contact cache", logger.Fields{
		"path":    path,
		"entries": cache.Len(),
		"expired": dropped,
	})

	return cache
}

// SaveContactCache writes every cache entry with its original timestamp.
func (s *Storage) SaveContactCache(name string, cache *contact.Cache) error {
	data, err := json.MarshalIndent(cache.Entries(), "", "  ")
	if err != nil {
		return eris.Wrap(err, "encoding contact cache")
	}
	return writeAtomic(s.Path(name), data)
}

// WriteDocument writes the dashboard document.
func (s *Storage) WriteDocument(name string, doc *bill.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encoding document")
	}
	return writeAtomic(s.Path(name), data)
}

// ReadDocument reads a document previously written by WriteDocument.
func (s *Storage) ReadDocument(name string) (*bill.Document, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, eris.Wrap(err, "reading document")
	}

	var doc bill.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "parsing document")
	}
	return &doc, nil
}

// LoadPreviousDocument returns the document left by an earlier run, or nil
// when there is none. An unreadable document is logged and treated as absent.
func (s *Storage) LoadPreviousDocument(name string) *bill.Document {
	path := s.Path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	doc, err := s.ReadDocument(name)
	if err != nil {
		logger.Warn("Ignoring previous document", logger.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}
	return doc
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrapf(err, "creating directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nolint:errcheck

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close() // nolint:errcheck
		return eris.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "replacing %s", path)
	}
	return nil
}
