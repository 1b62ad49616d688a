package x11

import (
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil/xprop"
)

const defaultDPI = 96

// accentKeys are tried in order when looking up the accent color.
var accentKeys = []string{"bordertile.accent", "*.accent", "*accent", "*.color4", "*color4"}

// Resources is the parsed X resource database from RESOURCE_MANAGER.
type Resources map[string]string

// ParseResources parses "name:\tvalue" lines. Later duplicates win.
func ParseResources(db string) Resources {
	res := make(Resources)
	for _, line := range strings.Split(db, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		res[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return res
}

// DPI returns Xft.dpi, or 96 when unset or invalid.
func (r Resources) DPI() float64 {
	v, ok := r["Xft.dpi"]
	if !ok {
		return defaultDPI
	}
	dpi, err := strconv.ParseFloat(v, 64)
	if err != nil || dpi <= 0 {
		return defaultDPI
	}
	return dpi
}

// Accent returns the first accent color resource that is set.
func (r Resources) Accent() (string, bool) {
	for _, k := range accentKeys {
		if v, ok := r[k]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Resources reads the root window's RESOURCE_MANAGER property. A missing
// property yields an empty database.
func (c *Connection) Resources() Resources {
	db, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return Resources{}
	}
	return ParseResources(db)
}
