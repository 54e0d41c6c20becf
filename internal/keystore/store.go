package keystore

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"

	"github.com/xmazu/cl-agent/internal/storage"
)

const KeysFileName = "keys.json"

var ErrNotFound = errors.New("key not found")

// NotFoundError names the key that was looked up. It matches ErrNotFound
// under errors.Is.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No key found with name '%s'", e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Snapshot is the result of reading the keys file. Corrupt is set when the
// file exists but is not a JSON object of strings; Keys is then empty.
type Snapshot struct {
	Keys    map[string]string
	Corrupt error
}

type Option func(*Store)

// WithWarn sets the hook that receives the corrupt-file warning.
func WithWarn(fn func(msg string)) Option {
	return func(s *Store) {
		s.warn = fn
	}
}

// Store is the name to secret mapping kept in keys.json. Nothing is cached:
// every call reads the file again.
type Store struct {
	file *storage.File
	warn func(msg string)
}

// New returns a Store backed by keys.json inside dir. dir must already exist.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		file: storage.NewJSONFile(filepath.Join(dir, KeysFileName)),
		warn: func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.file.Path()
}

func (s *Store) Load() (Snapshot, error) {
	keys := make(map[string]string)
	_, err := s.file.Load(&keys)
	if err != nil {
		var perr *storage.ParseError
		if errors.As(err, &perr) {
			return Snapshot{Keys: make(map[string]string), Corrupt: perr}, nil
		}
		return Snapshot{}, fmt.Errorf("load keys: %w", err)
	}
	if keys == nil {
		keys = make(map[string]string)
	}
	return Snapshot{Keys: keys}, nil
}

// Keys loads the mapping, turning a corrupt file into a warning and an empty
// mapping.
func (s *Store) Keys() (map[string]string, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	if snap.Corrupt != nil {
		s.warn(fmt.Sprintf("Keys file at %s is corrupt. Using empty keys.", s.Path()))
	}
	return snap.Keys, nil
}

func (s *Store) Save(keys map[string]string) error {
	if keys == nil {
		keys = map[string]string{}
	}
	if err := s.file.Save(keys); err != nil {
		return fmt.Errorf("save keys: %w", err)
	}
	return nil
}

func (s *Store) Set(name, value string) error {
	if name == "" {
		return fmt.Errorf("key name must not be empty")
	}
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	keys[name] = value
	return s.Save(keys)
}

func (s *Store) Get(name string) (string, error) {
	keys, err := s.Keys()
	if err != nil {
		return "", err
	}
	value, ok := keys[name]
	if !ok {
		return "", &NotFoundError{Name: name}
	}
	return value, nil
}

func (s *Store) Delete(name string) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	if _, ok := keys[name]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(keys, name)
	return s.Save(keys)
}

// List returns every key name in ascending order.
func (s *Store) List() ([]string, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	return sortedNames(keys), nil
}

// Match returns the sorted names matching a doublestar glob such as "open*"
// or "{github,gitlab}-*".
func (s *Store) Match(pattern string) ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	matched := make([]string, 0, len(names))
	for _, name := range names {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

// Export renders the whole store as dotenv lines.
func (s *Store) Export() (string, error) {
	keys, err := s.Keys()
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", nil
	}
	out, err := godotenv.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("render dotenv: %w", err)
	}
	return out, nil
}

func sortedNames(keys map[string]string) []string {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mask hides all but the tail of value. Lengths are counted in runes.
func Mask(value string) string {
	r := []rune(value)
	length := len(r)
	switch {
	case length == 0:
		return ""
	case length <= 4:
		return strings.Repeat("*", length)
	case length <= 8:
		return strings.Repeat("*", length-2) + string(r[length-2:])
	default:
		return strings.Repeat("*", length-4) + string(r[length-4:])
	}
}
