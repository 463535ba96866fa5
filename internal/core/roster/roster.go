// Package roster resolves the list of tracked display names
package roster

import (
	"fmt"
	"os"
	"strings"
)

// Default returns the built in roster of tracked mappers
func Default() []string {
	return []string{
		"Amac239", "AndromedaL", "bmrushing", "brikin", "caitnahc", "clayded",
		"conordoremus", "dsmith10", "DuckDuckCat", "geographywizard123", "haycam",
		"I-Izzo", "isamah", "JacobLovesMaps", "joecalta", "katherineherlihy",
		"kengaroo5445", "KQWilson", "livmakesmaps", "Lendekat001", "lucycrino",
		"maps4lyfe1304", "meghanstengel", "merritt_car22", "mmann1123", "norabutter",
		"o_paq", "ryleeisosm", "Sai_Dontukurti", "Sasank Chaganti",
		"Manojkumar Yerraguntla", "Waltuh",
	}
}

// FromCSV splits a comma separated roster, trimming blanks
// display names may contain spaces so only commas separate entries
func FromCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Resolve picks the roster source: explicit names win, then a file, then the default list
func Resolve(names []string, file string) ([]string, error) {
	if len(names) > 0 {
		return names, nil
	}
	if file != "" {
		return FromFile(file)
	}
	return Default(), nil
}

// FromFile reads one display name per line, skipping blanks and # comments
func FromFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}
	var out []string
	for _, line := range strings.Split(string(raw), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("roster: %s has no names", path)
	}
	return out, nil
}
