package config

import "sort"

// BuiltinPalettes returns the built-in title bar palettes.
//
// A user palette names one of these as its base and overrides single colors
// on top of it.
func BuiltinPalettes() map[string]Palette {
	return map[string]Palette{
		"light": {
			Base: "light",
			Active: ColorSet{
				TitleBar:   MustParseColor("#f3f3f3"),
				Foreground: MustParseColor("#1b1b1b"),
			},
			Inactive: ColorSet{
				TitleBar:   MustParseColor("#fafafa"),
				Foreground: MustParseColor("#8a8a8a"),
			},
		},
		"dark": {
			Base: "dark",
			Active: ColorSet{
				TitleBar:   MustParseColor("#202020"),
				Foreground: MustParseColor("#ffffff"),
			},
			Inactive: ColorSet{
				TitleBar:   MustParseColor("#2b2b2b"),
				Foreground: MustParseColor("#8a8a8a"),
			},
		},
	}
}

// BuiltinPaletteNames lists the built-in palettes in sorted order.
func BuiltinPaletteNames() []string {
	return sortedKeys(BuiltinPalettes())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
