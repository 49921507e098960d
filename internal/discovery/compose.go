package discovery

import (
	"strings"
	"unicode"
)

// servicesMarker opens the section the scanner extracts names from.
const servicesMarker = "services:"

// ExtractServices pulls top-level service names out of compose file
// content with a single linear pass over lines.
//
// This is an indentation heuristic, not a YAML parser: it is only
// guaranteed correct for the conventional two-space nested layout of
// compose files. Keys one level below the services: marker yield names;
// deeper keys are service config; a shallower key/value line closes the
// section.
func ExtractServices(content string) []string {
	var services []string

	inServices := false
	markerIndent := 0
	serviceIndent := -1

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, servicesMarker) {
			inServices = true
			markerIndent = len(line) - len(trimmed)
			serviceIndent = -1
			continue
		}

		if !inServices {
			continue
		}

		indent := len(line) - len(trimmed)

		// A key at or above the marker's indentation ends the section,
		// unless it still looks like a service-level entry.
		if indent <= markerIndent && strings.Contains(trimmed, ":") && !strings.HasPrefix(trimmed, "-") {
			if !startsWithLetter(trimmed) || indent < markerIndent {
				inServices = false
				continue
			}
		}

		// Service names sit one level below the marker. The first key
		// seen fixes that level; anything deeper is service config.
		if indent > markerIndent && strings.Contains(trimmed, ":") {
			if serviceIndent < 0 {
				serviceIndent = indent
			}
			if indent != serviceIndent {
				continue
			}
			name := strings.TrimSpace(strings.SplitN(trimmed, ":", 2)[0])
			if name != "" && !strings.HasPrefix(name, "-") {
				services = append(services, name)
			}
		}
	}

	return services
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}
