package device

import "fmt"

// Vulkan consumes C strings; every name crossing the boundary needs an
// explicit NUL terminator.
func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(names []string) []string {
	safe := make([]string, 0, len(names))
	for _, name := range names {
		safe = append(safe, safeString(name))
	}
	return safe
}
