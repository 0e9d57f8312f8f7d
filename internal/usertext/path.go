package usertext

import "strings"

// Delimiter separates a section from its entry inside a composite key.
const Delimiter = `\`

// SplitKey splits key on the first Delimiter. ok is false for root keys.
func SplitKey(key string) (section, entry string, ok bool) {
	return strings.Cut(key, Delimiter)
}

// JoinKey builds the composite key for section and entry.
func JoinKey(section, entry string) string {
	return section + Delimiter + entry
}
