package colors

import "strings"

var ansiColors = map[string]Color{
	"black":          {0, 0, 0, 1},
	"red":            {1, 0, 0, 1},
	"green":          {0, 1, 0, 1},
	"yellow":         {1, 1, 0, 1},
	"blue":           {0, 0, 1, 1},
	"magenta":        {1, 0, 1, 1},
	"cyan":           {0, 1, 1, 1},
	"white":          {1, 1, 1, 1},
	"bright_black":   {0.5, 0.5, 0.5, 1},
	"bright_red":     {1, 0.5, 0.5, 1},
	"bright_green":   {0.5, 1, 0.5, 1},
	"bright_yellow":  {1, 1, 0.5, 1},
	"bright_blue":    {0.5, 0.5, 1, 1},
	"bright_magenta": {1, 0.5, 1, 1},
	"bright_cyan":    {0.5, 1, 1, 1},
	"bright_white":   {1, 1, 1, 1},
}

// ansiColor accepts "bright red", "bright_red" and "bright-red".
func ansiColor(name string) (Color, bool) {
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(name)))
	c, ok := ansiColors[key]
	return c, ok
}
