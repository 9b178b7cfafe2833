package config

import "fmt"

// Change is one setting whose effective value differs between two configs.
// Before is nil for a setting that only exists in the new config, After for
// one that was removed.
type Change struct {
	Path   string
	Before any
	After  any
}

var exceptionFields = []string{
	"type", "pattern", "enabled", "hide_title_bar", "opaque_title_bar", "opacity_override",
}

// SettingPaths lists every leaf path Explain accepts for cfg, in file order.
func SettingPaths(cfg *Config) []string {
	paths := []string{
		"title_alignment",
		"animations_enabled",
		"animations_duration",
		"background_opacity",
		"shadow_size",
		"shadow_strength",
		"shadow_color",
		"log_level",
		"palette.base",
	}
	for _, group := range []string{"active", "inactive"} {
		paths = append(paths, "palette."+group+".title_bar", "palette."+group+".foreground")
	}
	if cfg == nil {
		return paths
	}
	for i := range cfg.Exceptions {
		for _, field := range exceptionFields {
			paths = append(paths, fmt.Sprintf("exceptions.%d.%s", i, field))
		}
	}
	return paths
}

// Diff compares two configs setting by setting. Exceptions are compared by
// position.
func Diff(before, after *Config) []Change {
	if before == nil || after == nil {
		return nil
	}
	longer := after
	if len(before.Exceptions) > len(after.Exceptions) {
		longer = before
	}

	var changes []Change
	for _, path := range SettingPaths(longer) {
		old, oldErr := lookupValue(before, path)
		cur, curErr := lookupValue(after, path)
		switch {
		case oldErr != nil && curErr != nil:
		case oldErr != nil:
			changes = append(changes, Change{Path: path, After: cur})
		case curErr != nil:
			changes = append(changes, Change{Path: path, Before: old})
		case old != cur:
			changes = append(changes, Change{Path: path, Before: old, After: cur})
		}
	}
	return changes
}
