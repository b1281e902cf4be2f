// pattern: Imperative Shell

// Package docs stores documents as markdown files with a yaml frontmatter
// header, one file per document, named after the document id.
package docs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"panedit/internal/layout"
	"panedit/internal/logging"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

const ext = ".md"

var delim = []byte("---\n")

// Document is one stored document.
type Document struct {
	ID      string      `yaml:"id"`
	Title   string      `yaml:"title"`
	Kind    layout.Kind `yaml:"type"`
	Parent  string      `yaml:"parent,omitempty"`
	Created time.Time   `yaml:"created"`
	Body    string      `yaml:"-"`
}

// Tab returns the tab that shows this document.
func (d Document) Tab() layout.TabItem {
	kind := d.Kind
	if kind == layout.KindNone {
		kind = layout.KindNote
	}
	return layout.NewTab(kind, d.ID)
}

// Store reads and writes documents in a directory.
type Store struct {
	dir    string
	now    func() time.Time
	logger *logging.ScopedLogger
}

// NewStore returns a store rooted at dir. The directory is created on first
// write.
func NewStore(dir string, logger *logging.ScopedLogger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Store{dir: dir, now: time.Now, logger: logger}
}

// Dir returns the directory documents are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a document id is stored in.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+ext)
}

// Open reads a document by id.
func (s *Store) Open(id string) (Document, error) {
	if err := validID(id); err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("read document %s: %w", id, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("parse document %s: %w", id, err)
	}
	doc.ID = id
	return doc, nil
}

// Create writes a new empty note with a fresh id under an optional parent.
func (s *Store) Create(title, parentID string) (Document, error) {
	if parentID != "" {
		if _, err := s.Open(parentID); err != nil {
			return Document{}, fmt.Errorf("parent: %w", err)
		}
	}
	doc := Document{
		ID:      uuid.NewString(),
		Title:   strings.TrimSpace(title),
		Kind:    layout.KindNote,
		Parent:  parentID,
		Created: s.now().UTC().Truncate(time.Second),
	}
	if doc.Title == "" {
		doc.Title = "Untitled"
	}
	if err := s.Save(doc); err != nil {
		return Document{}, err
	}
	s.logger.Info("document created", "id", doc.ID, "title", doc.Title)
	return doc, nil
}

// Save writes a document, replacing any previous version.
func (s *Store) Save(doc Document) error {
	if err := validID(doc.ID); err != nil {
		return err
	}
	data, err := Format(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}
	tmp := s.Path(doc.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write document %s: %w", doc.ID, err)
	}
	if err := os.Rename(tmp, s.Path(doc.ID)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write document %s: %w", doc.ID, err)
	}
	return nil
}

// List returns all readable documents, oldest first. Unparseable files are
// skipped and logged.
func (s *Store) List() ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list notes directory: %w", err)
	}

	var out []Document
	for _, e := range entries {
		id, ok := IDFromPath(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		doc, err := s.Open(id)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "id", id, "error", err)
			continue
		}
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// IDFromPath returns the document id for a file name, or false if the file
// is not a document.
func IDFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ext) || strings.HasPrefix(name, ".") {
		return "", false
	}
	id := strings.TrimSuffix(name, ext)
	return id, id != ""
}

// Parse decodes a document file. A file without a frontmatter header is a
// note whose body is the whole file.
func Parse(data []byte) (Document, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, delim) {
		return Document{Kind: layout.KindNote, Body: string(data)}, nil
	}
	rest := data[len(delim):]
	end := bytes.Index(rest, append([]byte("\n"), delim...))
	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, delim):
		body = rest[len(delim):]
	case end >= 0:
		header = rest[:end+1]
		body = rest[end+1+len(delim):]
	default:
		return Document{}, errors.New("unterminated frontmatter")
	}

	var doc Document
	if err := yaml.Unmarshal(header, &doc); err != nil {
		return Document{}, fmt.Errorf("frontmatter: %w", err)
	}
	if doc.Kind == layout.KindNone {
		doc.Kind = layout.KindNote
	}
	doc.Body = string(body)
	return doc, nil
}

// Format encodes a document as frontmatter followed by its body.
func Format(doc Document) ([]byte, error) {
	header, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.Write(delim)
	buf.Write(header)
	buf.Write(delim)
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}

func validID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid document id %q", id)
	}
	return nil
}
