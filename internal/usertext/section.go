package usertext

import "fmt"

// Row is one section query match.
type Row struct {
	Key   string // composite key, section\entry
	Entry string
	Value string
}

// Mode identifies which section query form a (section, entries) pair selects.
type Mode int

const (
	// ModeNone: no section and no entries. Queries return nothing.
	ModeNone Mode = iota
	// ModeSection: a section without entries selects the whole section.
	ModeSection
	// ModeSectionEntries: named entries inside one section.
	ModeSectionEntries
	// ModeEntries: named entries searched across every section.
	ModeEntries
)

// Classify picks the query mode. An empty section counts as absent.
func Classify(section string, entries []string) Mode {
	switch {
	case section != "" && len(entries) == 0:
		return ModeSection
	case section != "" && len(entries) > 0:
		return ModeSectionEntries
	case section == "" && len(entries) > 0:
		return ModeEntries
	default:
		return ModeNone
	}
}

func (m Mode) String() string {
	switch m {
	case ModeSection:
		return "section"
	case ModeSectionEntries:
		return "section-entries"
	case ModeEntries:
		return "entries"
	default:
		return "none"
	}
}

// Explain describes a query outcome so an empty result is never silent.
func (m Mode) Explain(section string, entries []string, matched int) string {
	switch {
	case m == ModeNone:
		return "No section and no entries given; nothing to do."
	case matched > 0:
		return fmt.Sprintf("Matched %d entry(s).", matched)
	case m == ModeSection:
		return fmt.Sprintf("Section %q has no entries.", section)
	case m == ModeSectionEntries:
		return fmt.Sprintf("None of the %d requested entry(s) exist in section %q.", len(entries), section)
	default:
		return fmt.Sprintf("None of the %d requested entry(s) exist in any section.", len(entries))
	}
}

// GetBySection runs a section query. Row order is deterministic:
//   - ModeSection: store order within the section.
//   - ModeSectionEntries: request order; missing entries are skipped.
//   - ModeEntries: sections in derived order, then request order inside each.
//   - ModeNone: no rows.
func (s *Store) GetBySection(section string, entries []string) []Row {
	rows := []Row{}

	switch Classify(section, entries) {
	case ModeSection:
		for _, entry := range s.EntryNames(section) {
			rows = s.appendRow(rows, section, entry)
		}
	case ModeSectionEntries:
		rows = s.appendExisting(rows, section, entries)
	case ModeEntries:
		for _, sec := range s.Sections() {
			rows = s.appendExisting(rows, sec, entries)
		}
	}
	return rows
}

// appendExisting appends a row for every requested entry present in section,
// in request order.
func (s *Store) appendExisting(rows []Row, section string, entries []string) []Row {
	present := make(map[string]struct{})
	for _, entry := range s.EntryNames(section) {
		present[entry] = struct{}{}
	}
	for _, entry := range entries {
		if _, ok := present[entry]; ok {
			rows = s.appendRow(rows, section, entry)
		}
	}
	return rows
}

func (s *Store) appendRow(rows []Row, section, entry string) []Row {
	key := JoinKey(section, entry)
	value, _ := s.backing.Get(key)
	return append(rows, Row{Key: key, Entry: entry, Value: value})
}

// DeleteBySection deletes the keys a matching GetBySection would return:
//   - ModeNone: nothing.
//   - ModeEntries: the named entries from every section.
//   - ModeSectionEntries: the named entries of section that exist.
//   - ModeSection: the whole section.
//
// It returns the number of keys removed.
func (s *Store) DeleteBySection(section string, entries []string) (int, error) {
	deleted := 0
	seen := make(map[string]struct{})
	for _, row := range s.GetBySection(section, entries) {
		if _, dup := seen[row.Key]; dup {
			continue
		}
		seen[row.Key] = struct{}{}
		if err := s.DeleteKey(row.Key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
