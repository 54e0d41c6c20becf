package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ParseError reports a file that exists but does not decode.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type File struct {
	path      string
	marshal   func(v interface{}) ([]byte, error)
	unmarshal func(data []byte, v interface{}) error
}

// NewJSONFile returns a file that is written as two-space indented JSON.
func NewJSONFile(path string) *File {
	return &File{
		path: path,
		marshal: func(v interface{}) ([]byte, error) {
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(out, '\n'), nil
		},
		unmarshal: json.Unmarshal,
	}
}

func NewYAMLFile(path string) *File {
	return &File{
		path:      path,
		marshal:   yaml.Marshal,
		unmarshal: yaml.Unmarshal,
	}
}

func (f *File) Path() string {
	return f.path
}

// Load decodes the file into dest. found is false when the file does not
// exist, in which case dest is left alone. Undecodable content is returned as
// a *ParseError and the file is not modified.
func (f *File) Load(dest interface{}) (found bool, err error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read file: %w", err)
	}

	if err := f.unmarshal(data, dest); err != nil {
		return true, &ParseError{Path: f.path, Err: err}
	}

	return true, nil
}

func (f *File) Save(data interface{}) error {
	return f.SaveWithPerm(data, 0600)
}

// SaveWithPerm replaces the whole file. perm is enforced even when the file
// already existed with looser bits, except on Windows where it is skipped.
func (f *File) SaveWithPerm(data interface{}, perm os.FileMode) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	out, err := f.marshal(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := os.WriteFile(f.path, out, perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(f.path, perm); err != nil {
			return fmt.Errorf("set permissions: %w", err)
		}
	}

	return nil
}
