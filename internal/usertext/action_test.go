package usertext_test

import (
	"testing"

	"github.com/heysubinoy/pyaztext/internal/usertext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunUnfiredDoesNotMutate(t *testing.T) {
	actions := []usertext.Action{
		usertext.SetKeys{Keys: []string{"new"}, Values: []string{"v"}},
		usertext.SetSection{Section: "S1", Entries: []string{"x"}, Values: []string{"changed"}},
		usertext.DeleteKeys{Keys: []string{"root"}},
		usertext.DeleteSection{Section: "S1"},
		usertext.ImportText{Text: `"imported","v"`},
	}
	for _, a := range actions {
		s := sampleStore(t)
		before := s.Export()

		res, err := usertext.Run(s, a, false)
		require.NoError(t, err, a.Name())
		assert.False(t, res.Fired, a.Name())
		assert.NotEmpty(t, res.Summary, a.Name())
		assert.Equal(t, before, s.Export(), a.Name())
	}
}

func TestRunPreviewCounts(t *testing.T) {
	s := sampleStore(t)

	res, err := usertext.Run(s, usertext.DeleteSection{Entries: []string{"x"}}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, "Ready to delete 2 key(s).", res.Summary)

	res, err = usertext.Run(s, usertext.DeleteKeys{Keys: []string{"root", "missing"}}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Affected)
}

func TestRunArityMismatchNeverApplies(t *testing.T) {
	s := sampleStore(t)
	before := s.Export()

	for _, fire := range []bool{false, true} {
		_, err := usertext.Run(s, usertext.SetKeys{Keys: []string{"a", "b"}, Values: []string{"1"}}, fire)
		assert.ErrorIs(t, err, usertext.ErrArityMismatch)

		_, err = usertext.Run(s, usertext.SetSection{Section: "S", Entries: []string{"a"}}, fire)
		assert.ErrorIs(t, err, usertext.ErrArityMismatch)
	}
	assert.Equal(t, before, s.Export())
}

func TestRunFired(t *testing.T) {
	s := sampleStore(t)

	res, err := usertext.Run(s, usertext.SetSection{
		Section: "S3",
		Entries: []string{"a", "b"},
		Values:  []string{"1", "2"},
	}, true)
	require.NoError(t, err)
	assert.True(t, res.Fired)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, []string{"S1", "S2", "S3"}, s.Sections())

	res, err = usertext.Run(s, usertext.DeleteSection{Section: "S1"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)
	assert.Empty(t, s.EntryNames("S1"))

	res, err = usertext.Run(s, usertext.DeleteKeys{Keys: []string{"root", "root"}}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Affected)
	_, ok := s.Get("root")
	assert.False(t, ok)
}

func TestRunDeleteSectionInertExplains(t *testing.T) {
	s := sampleStore(t)
	res, err := usertext.Run(s, usertext.DeleteSection{}, true)
	require.NoError(t, err)
	assert.Zero(t, res.Affected)
	assert.Contains(t, res.Summary, "nothing to do")
	assert.Equal(t, 5, s.Len())
}

func TestRunImportReportsFailures(t *testing.T) {
	s := newStore(t)
	res, err := usertext.Run(s, usertext.ImportText{Text: "\"a\",\"1\"\n\"b\",\"2\"\n\"c\",\"3\"\nbroken line"}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Affected)
	assert.Equal(t, []string{"broken line"}, res.Failed)
	assert.Equal(t, "Imported 3 item(s). Failed to import 1 line(s).", res.Summary)
}

func TestRunUnfiredReturnsPreview(t *testing.T) {
	actions := []usertext.Action{
		usertext.SetKeys{Keys: []string{"a", "b"}, Values: []string{"1", "2"}},
		usertext.SetSection{Section: "S1", Entries: []string{"x"}, Values: []string{"v"}},
		usertext.DeleteKeys{Keys: []string{"root"}},
		usertext.DeleteSection{Section: "S2"},
		usertext.ImportText{Text: `"k","v"`},
	}
	for _, a := range actions {
		s := sampleStore(t)
		res, err := usertext.Run(s, a, false)
		require.NoError(t, err, a.Name())
		assert.Equal(t, a.Preview(s), res, a.Name())
	}
}
