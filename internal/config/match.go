package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/shirou/gopsutil/v4/process"
)

type MatchKind string

const (
	MatchTitle   MatchKind = "title"
	MatchClass   MatchKind = "class"
	MatchProcess MatchKind = "process"
)

type MatchStrategy string

const (
	MatchEquals   MatchStrategy = "equals"
	MatchContains MatchStrategy = "contains"
	MatchRegex    MatchStrategy = "regex"
	MatchGlob     MatchStrategy = "glob"
)

// Match selects windows for a window rule. Comparison is case-insensitive.
type Match struct {
	Kind     MatchKind     `yaml:"kind"`
	Value    string        `yaml:"value"`
	Strategy MatchStrategy `yaml:"strategy"`

	test func(string) bool
}

// WindowInfo is what rules match against.
type WindowInfo struct {
	Title string
	Class string
	PID   int
}

// processName is replaced in tests.
var processName = func(pid int) (string, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", err
	}
	return p.Name()
}

func (m Match) validate() error {
	return m.compile()
}

func (m *Match) compile() error {
	switch m.Kind {
	case MatchTitle, MatchClass, MatchProcess:
	default:
		return fmt.Errorf("kind must be one of: title, class, process")
	}
	if m.Strategy == "" {
		m.Strategy = MatchEquals
	}
	if m.Value == "" {
		return fmt.Errorf("value is required")
	}

	value := strings.ToLower(m.Value)
	switch m.Strategy {
	case MatchEquals:
		m.test = func(s string) bool { return s == value }
	case MatchContains:
		m.test = func(s string) bool { return strings.Contains(s, value) }
	case MatchRegex:
		re, err := regexp.Compile("(?i)" + m.Value)
		if err != nil {
			return fmt.Errorf("invalid regex %q: %w", m.Value, err)
		}
		m.test = re.MatchString
	case MatchGlob:
		g, err := glob.Compile(value)
		if err != nil {
			return fmt.Errorf("invalid glob %q: %w", m.Value, err)
		}
		m.test = func(s string) bool { return g.Match(s) }
	default:
		return fmt.Errorf("strategy must be one of: equals, contains, regex, glob")
	}
	return nil
}

// Matches reports whether w satisfies m. An invalid match never matches.
func (m Match) Matches(w WindowInfo) bool {
	if m.test == nil {
		if err := m.compile(); err != nil {
			return false
		}
	}

	var subject string
	switch m.Kind {
	case MatchTitle:
		subject = w.Title
	case MatchClass:
		subject = w.Class
	case MatchProcess:
		if w.PID <= 0 {
			return false
		}
		name, err := processName(w.PID)
		if err != nil {
			return false
		}
		subject = name
	}
	return m.test(strings.ToLower(subject))
}
