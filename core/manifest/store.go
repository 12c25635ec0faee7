package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"agents-manager/core/document"
	"agents-manager/core/faults"
	"agents-manager/core/filename"
	"agents-manager/core/resource"
)

var (
	// ErrConfigMissing is wrapped when a referenced config file does not exist.
	ErrConfigMissing = errors.New("config file missing")
	// ErrConfigInvalid is wrapped when a config file is not a JSON object.
	ErrConfigInvalid = errors.New("config file invalid")
)

// Store reads and writes manifests and config files under an explicit project root.
type Store struct {
	root string
}

// NewStore roots a store at dir, which is made absolute.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %q: %w", dir, err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute project root.
func (s *Store) Root() string {
	return s.root
}

// ManifestPath returns the absolute path of kind's manifest.
func (s *Store) ManifestPath(kind resource.Kind) string {
	return filepath.Join(s.root, kind.ManifestFile())
}

// ConfigDir returns the absolute config directory of kind.
func (s *Store) ConfigDir(kind resource.Kind) string {
	return filepath.Join(s.root, kind.ConfigDir())
}

// Exists reports whether kind's manifest file is present.
func (s *Store) Exists(kind resource.Kind) bool {
	info, err := os.Stat(s.ManifestPath(kind))
	return err == nil && !info.IsDir()
}

// Load reads kind's manifest. When the file is absent and init is true an empty
// manifest is written and returned.
func (s *Store) Load(kind resource.Kind, init bool) (*Manifest, error) {
	path := s.ManifestPath(kind)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if !init {
			return nil, faults.New(faults.Configuration, fmt.Sprintf("%s not found (run init first)", kind.ManifestFile()), ErrNotFound)
		}
		m := New(kind)
		if err := s.Save(m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err != nil {
		return nil, faults.New(faults.Configuration, "failed to read "+kind.ManifestFile(), err)
	}

	m, err := Parse(kind, raw)
	if err != nil {
		return nil, faults.New(faults.Configuration, kind.ManifestFile(), err)
	}
	return m, nil
}

// Add scaffolds a config file named after name in kind's config directory and
// appends an untracked entry for it. The manifest must exist.
func (s *Store) Add(kind resource.Kind, name, env string) (Entry, error) {
	if strings.TrimSpace(name) == "" {
		return Entry{}, faults.New(faults.Configuration, "a name is required", nil)
	}
	m, err := s.Load(kind, false)
	if err != nil {
		return Entry{}, err
	}

	abs, err := filename.Allocate(s.ConfigDir(kind), name, "")
	if err != nil {
		return Entry{}, err
	}
	rel, err := s.Relative(abs)
	if err != nil {
		return Entry{}, err
	}
	if err := s.WriteConfig(rel, document.Document{"name": name}); err != nil {
		return Entry{}, err
	}

	entry := Entry{ConfigPath: rel, Environment: env}
	m.Append(entry)
	if err := s.Save(m); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Save replaces the manifest file as a whole.
func (s *Store) Save(m *Manifest) error {
	raw, err := document.EncodeValue(m)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", m.Kind.ManifestFile(), err)
	}
	if err := writeFileAtomic(s.ManifestPath(m.Kind), raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.Kind.ManifestFile(), err)
	}
	return nil
}

// Resolve turns a project-relative path into an absolute one.
func (s *Store) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Relative turns an absolute path into the slash-separated form stored in manifests.
func (s *Store) Relative(abs string) (string, error) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", abs, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the project root", abs)
	}
	return filepath.ToSlash(rel), nil
}

// ConfigExists reports whether rel names an existing regular file.
func (s *Store) ConfigExists(rel string) bool {
	if rel == "" {
		return false
	}
	info, err := os.Stat(s.Resolve(rel))
	return err == nil && !info.IsDir()
}

// ReadConfig loads and decodes a config file.
func (s *Store) ReadConfig(rel string) (document.Document, error) {
	if rel == "" {
		return nil, faults.New(faults.Configuration, "entry has no config path", ErrConfigMissing)
	}
	raw, err := os.ReadFile(s.Resolve(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, faults.New(faults.Configuration, "missing config "+rel, ErrConfigMissing)
	}
	if err != nil {
		return nil, faults.New(faults.Configuration, "failed to read config "+rel, err)
	}
	doc, err := document.Decode(raw)
	if err != nil {
		return nil, faults.New(faults.Configuration, "invalid config "+rel, errors.Join(ErrConfigInvalid, err))
	}
	return doc, nil
}

// WriteConfig replaces a config file, creating parent directories.
func (s *Store) WriteConfig(rel string, doc document.Document) error {
	raw, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode config %s: %w", rel, err)
	}
	if err := writeFileAtomic(s.Resolve(rel), raw); err != nil {
		return fmt.Errorf("failed to write config %s: %w", rel, err)
	}
	return nil
}

// RemoveConfig deletes a config file. A missing file is not an error.
func (s *Store) RemoveConfig(rel string) error {
	if rel == "" {
		return nil
	}
	if err := os.Remove(s.Resolve(rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove config %s: %w", rel, err)
	}
	return nil
}

func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".agents-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
