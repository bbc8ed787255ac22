// Package profile discovers the simulator profiles in a profile directory.
//
// A profile is a Lua script run after the base script when the runtime
// context is created. Its first line, when it is a "--" comment, is the
// profile's description.
package profile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the file extension of profile scripts.
const Ext = ".lua"

// Profile describes one profile script.
type Profile struct {
	Name        string
	Path        string
	Description string
}

// List returns the profiles in dir sorted by name. The base script is
// not a profile and is skipped. A missing directory yields no profiles.
func List(dir, baseScript string) ([]Profile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile: cannot read %s: %w", dir, err)
	}

	var profiles []Profile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != Ext || strings.EqualFold(name, baseScript) {
			continue
		}
		path := filepath.Join(dir, name)
		desc, err := description(path)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, Profile{
			Name:        strings.TrimSuffix(name, Ext),
			Path:        path,
			Description: desc,
		})
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// Find returns the profile called name from list.
func Find(list []Profile, name string) (Profile, bool) {
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// description returns the text of a leading "--" comment line.
func description(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("profile: cannot open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") || strings.HasPrefix(line, "--[[") {
			return "", nil
		}
		return strings.TrimSpace(strings.TrimLeft(line, "-")), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("profile: cannot read %s: %w", path, err)
	}
	return "", nil
}
