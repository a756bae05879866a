// Package sysfs provides read/write access to kernel hwmon and CPLD sysfs
// nodes. Values are plain text, one line per node.
package sysfs

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ErrEmptyNode is returned when a node exists but its first line is empty.
var ErrEmptyNode = errors.New("sysfs node is empty")

// containerMarker is present when running inside a container (e.g. the pmon
// monitoring container) rather than on the switch host.
const containerMarker = "/.dockerenv"

// FS reads and writes sysfs nodes. Node paths may contain glob wildcards to
// tolerate driver enumeration jitter (e.g. "hwmon/hwmon*/temp1_input"); the
// lexically first match is used.
type FS struct {
	fs afero.Fs
}

// New returns an FS backed by the real filesystem.
func New() *FS {
	return &FS{fs: afero.NewOsFs()}
}

// NewWithFs returns an FS backed by the given filesystem. Tests use this with
// an afero.MemMapFs populated with fake sysfs trees.
func NewWithFs(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// resolve expands glob wildcards in path. If the pattern matches nothing the
// original path is returned and the subsequent read fails normally.
func (s *FS) resolve(path string) string {
	if !strings.ContainsAny(path, "*?[") {
		return path
	}
	matches, err := afero.Glob(s.fs, path)
	if err != nil || len(matches) == 0 {
		return path
	}
	sort.Strings(matches)
	return matches[0]
}

// ReadLine returns the first line of the node, whitespace-stripped.
// An existing but empty node yields ErrEmptyNode, never an empty string.
func (s *FS) ReadLine(path string) (string, error) {
	resolved := s.resolve(path)
	data, err := afero.ReadFile(s.fs, resolved)
	if err != nil {
		return "", err
	}
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyNode, resolved)
	}
	return line, nil
}

// ReadInt reads the node as a base-10 integer.
func (s *FS) ReadInt(path string) (int, error) {
	line, err := s.ReadLine(path)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return val, nil
}

// ReadFloat reads the node as a float.
func (s *FS) ReadFloat(path string) (float64, error) {
	line, err := s.ReadLine(path)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return val, nil
}

// ReadFile returns the whole content of a regular file (threshold override
// files and similar, not single-line sensor nodes).
func (s *FS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, s.resolve(path))
}

// WriteString writes val to the node, replacing its content.
func (s *FS) WriteString(path, val string) error {
	return afero.WriteFile(s.fs, s.resolve(path), []byte(val), 0o644)
}

// WriteInt writes val to the node in base 10.
func (s *FS) WriteInt(path string, val int) error {
	return s.WriteString(path, strconv.Itoa(val))
}

// Exists reports whether the node (after glob resolution) exists.
func (s *FS) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, s.resolve(path))
	return err == nil && ok
}

// IsHost reports whether the process runs on the switch host as opposed to
// inside the monitoring container.
func (s *FS) IsHost() bool {
	return !s.Exists(containerMarker)
}
