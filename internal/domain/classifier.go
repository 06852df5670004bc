package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// FolderExtensionFilter tells whether files inside a folder-like unit must
// carry one of the configured extensions. It is off: every file under a
// matching directory belongs to the unit, whatever its extension.
const FolderExtensionFilter = false

// desktopIni is written by Windows Explorer into customized folders.
const desktopIni = "desktop.ini"

// Classifier decides which paths are raw data and which unit they belong to.
type Classifier struct {
	mode       m.Mode
	templates  []*regexp.Regexp
	extensions []string
}

// NewClassifier compiles the templates of cfg.
func NewClassifier(cfg m.ScanConfig) (*Classifier, error) {
	templates, err := CompileTemplates(cfg.Templates)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		mode:       cfg.Mode,
		templates:  templates,
		extensions: cfg.Extensions,
	}, nil
}

// CompileTemplates compiles name templates. A template must match a whole
// base name, not a substring of it.
func CompileTemplates(templates []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(templates))

	for _, t := range templates {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		re, err := regexp.Compile("^(?:" + t + ")$")
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

// Matches reports whether name matches one of the templates.
func (c *Classifier) Matches(name string) bool {
	for _, re := range c.templates {
		if re.MatchString(name) {
			return true
		}
	}

	return false
}

// IsRawData reports whether path, described by info, is part of a raw data unit.
func (c *Classifier) IsRawData(path m.Path, info os.FileInfo) bool {
	name := filepath.Base(string(path))

	if c.mode == m.ModeFileLike {
		return info.Mode().IsRegular() && c.Matches(name)
	}

	if info.IsDir() {
		return c.Matches(name)
	}

	if !info.Mode().IsRegular() || name == desktopIni {
		return false
	}

	if FolderExtensionFilter && !c.hasExtension(name) {
		return false
	}

	return c.UnitName(path) != ""
}

// UnitName returns the name of the unit path belongs to. In folder-like mode
// it is the nearest path element, path itself included, whose name matches a
// template. The walk goes up to the filesystem root, past the raw data root
// if needed; "" means path belongs to no unit.
func (c *Classifier) UnitName(path m.Path) string {
	p := filepath.Clean(string(path))

	if c.mode == m.ModeFileLike {
		return filepath.Base(p)
	}

	for {
		name := filepath.Base(p)
		if c.Matches(name) {
			return name
		}

		parent := filepath.Dir(p)
		if parent == p {
			return ""
		}

		p = parent
	}
}

func (c *Classifier) hasExtension(name string) bool {
	if len(c.extensions) == 0 {
		return true
	}

	for _, ext := range c.extensions {
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			return true
		}
	}

	return false
}
