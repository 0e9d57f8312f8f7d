package usertext

import "fmt"

// Result describes the outcome, or the preview, of an Action.
type Result struct {
	Summary  string
	Affected int
	Failed   []string
	Fired    bool
}

// Action is a store mutation that can be validated and previewed before it
// is applied.
type Action interface {
	Name() string
	// Validate must not mutate the store.
	Validate(s *Store) error
	// Preview reports what Apply would do without doing it.
	Preview(s *Store) Result
	Apply(s *Store) (Result, error)
}

// Run validates a and, when fire is true, applies it. An unfired run returns
// the preview and leaves the store untouched.
func Run(s *Store, a Action, fire bool) (Result, error) {
	if err := a.Validate(s); err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.Name(), err)
	}
	if !fire {
		return a.Preview(s), nil
	}
	res, err := a.Apply(s)
	if err != nil {
		return res, fmt.Errorf("%s: %w", a.Name(), err)
	}
	res.Fired = true
	return res, nil
}

// SetKeys upserts Keys[i] to Values[i].
type SetKeys struct {
	Keys   []string
	Values []string
}

func (SetKeys) Name() string { return "set" }

func (a SetKeys) Validate(*Store) error {
	if len(a.Keys) != len(a.Values) {
		return arityError("keys", len(a.Keys), len(a.Values))
	}
	return nil
}

func (a SetKeys) Preview(*Store) Result {
	return Result{
		Summary:  fmt.Sprintf("Ready to set %d key(s).", len(a.Keys)),
		Affected: len(a.Keys),
	}
}

func (a SetKeys) Apply(s *Store) (Result, error) {
	if err := s.SetMany(a.Keys, a.Values); err != nil {
		return Result{}, err
	}
	return Result{
		Summary:  fmt.Sprintf("Set %d key(s).", len(a.Keys)),
		Affected: len(a.Keys),
	}, nil
}

// SetSection upserts Section\Entries[i] to Values[i].
type SetSection struct {
	Section string
	Entries []string
	Values  []string
}

func (SetSection) Name() string { return "set section" }

func (a SetSection) Validate(*Store) error {
	if len(a.Entries) != len(a.Values) {
		return arityError("entries", len(a.Entries), len(a.Values))
	}
	return nil
}

func (a SetSection) Preview(*Store) Result {
	return Result{
		Summary:  fmt.Sprintf("Ready to set %d entry(s) in section %q.", len(a.Entries), a.Section),
		Affected: len(a.Entries),
	}
}

func (a SetSection) Apply(s *Store) (Result, error) {
	if err := s.SetSectionMany(a.Section, a.Entries, a.Values); err != nil {
		return Result{}, err
	}
	return Result{
		Summary:  fmt.Sprintf("Set %d entry(s) in section %q.", len(a.Entries), a.Section),
		Affected: len(a.Entries),
	}, nil
}

// DeleteKeys removes exact keys. Missing keys are skipped.
type DeleteKeys struct {
	Keys []string
}

func (DeleteKeys) Name() string { return "delete" }

func (DeleteKeys) Validate(*Store) error { return nil }

func (a DeleteKeys) existing(s *Store) int {
	n := 0
	seen := make(map[string]struct{})
	for _, key := range a.Keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := s.Get(key); ok {
			n++
		}
	}
	return n
}

func (a DeleteKeys) Preview(s *Store) Result {
	n := a.existing(s)
	return Result{
		Summary:  fmt.Sprintf("Ready to delete %d of %d key(s).", n, len(a.Keys)),
		Affected: n,
	}
}

func (a DeleteKeys) Apply(s *Store) (Result, error) {
	n := a.existing(s)
	for _, key := range a.Keys {
		if err := s.DeleteKey(key); err != nil {
			return Result{}, err
		}
	}
	return Result{
		Summary:  fmt.Sprintf("Deleted %d key(s).", n),
		Affected: n,
	}, nil
}

// DeleteSection removes entries selected the same way GetBySection selects
// them.
type DeleteSection struct {
	Section string
	Entries []string
}

func (DeleteSection) Name() string { return "delete section" }

func (DeleteSection) Validate(*Store) error { return nil }

func (a DeleteSection) Preview(s *Store) Result {
	mode := Classify(a.Section, a.Entries)
	if mode == ModeNone {
		return Result{Summary: mode.Explain(a.Section, a.Entries, 0)}
	}
	n := countKeys(s.GetBySection(a.Section, a.Entries))
	return Result{
		Summary:  fmt.Sprintf("Ready to delete %d key(s).", n),
		Affected: n,
	}
}

func (a DeleteSection) Apply(s *Store) (Result, error) {
	mode := Classify(a.Section, a.Entries)
	n, err := s.DeleteBySection(a.Section, a.Entries)
	if err != nil {
		return Result{Affected: n}, err
	}
	if n == 0 {
		return Result{Summary: mode.Explain(a.Section, a.Entries, 0)}, nil
	}
	return Result{
		Summary:  fmt.Sprintf("Deleted %d key(s).", n),
		Affected: n,
	}, nil
}

func countKeys(rows []Row) int {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[row.Key] = struct{}{}
	}
	return len(seen)
}

// ImportText imports export-formatted text.
type ImportText struct {
	Text string
}

func (ImportText) Name() string { return "import" }

func (ImportText) Validate(*Store) error { return nil }

func (ImportText) Preview(*Store) Result {
	return Result{Summary: "Ready to import."}
}

func (a ImportText) Apply(s *Store) (Result, error) {
	imported, failed := s.Import(a.Text)
	summary := fmt.Sprintf("Imported %d item(s).", imported)
	if len(failed) > 0 {
		summary += fmt.Sprintf(" Failed to import %d line(s).", len(failed))
	}
	return Result{
		Summary:  summary,
		Affected: imported,
		Failed:   failed,
	}, nil
}
