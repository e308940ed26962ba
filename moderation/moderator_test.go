package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T, words ...string) Moderator {
	t.Helper()
	m, err := NewModerator(words, '*')
	require.NoError(t, err)
	return m
}

func TestCensor_Replaces_Exact_Word(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, "idiot")

	censored, found := m.Censor("you are an idiot sometimes")

	req.Equal("you are an ***** sometimes", censored)
	req.Equal([]string{"idiot"}, found)
}

func TestCensor_Catches_Leet_Speak(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, "idiot")

	censored, found := m.Censor("what an 1d10t")

	req.Equal("what an *****", censored)
	req.Len(found, 1)
}

func TestCensor_Ignores_Punctuation_Between_Letters(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, "idiot")

	censored, _ := m.Censor("i.d.i.o.t")

	req.NotContains(censored, "d")
}

func TestCensor_Clean_Text_Is_Untouched(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, "idiot")

	original := "a perfectly polite sentence"
	censored, found := m.Censor(original)

	req.Equal(original, censored)
	req.Empty(found)
}

func TestCensor_Preserves_Case_Outside_Matches(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t, "idiot")

	censored, _ := m.Censor("Hello IDIOT World")

	req.Equal("Hello ***** World", censored)
}

func TestLoadWordLists_Embedded_Dictionaries(t *testing.T) {
	req := require.New(t)

	lists, err := LoadWordLists()
	req.NoError(err)
	req.Contains(lists.Languages, "en")
	req.Contains(lists.Languages, "fr")
	req.Contains(lists.Words, "idiot")
	req.NotContains(lists.Words, "")
}
