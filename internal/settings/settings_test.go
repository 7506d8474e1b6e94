package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
)

type memPersister struct {
	prefs   model.Preferences
	saves   int
	failErr error
}

func (m *memPersister) Preferences() model.Preferences { return m.prefs }

func (m *memPersister) SavePreferences(p model.Preferences) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.prefs = p
	return nil
}

func TestStoreSetters(t *testing.T) {
	repo := &memPersister{prefs: model.DefaultPreferences()}
	s := NewStore(repo, nil)

	p, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, p.Theme)

	p, err = s.SetLanguage("ar")
	require.NoError(t, err)
	assert.Equal(t, model.LangArabic, p.Language)

	p, err = s.ToggleCriticalNotifications()
	require.NoError(t, err)
	assert.False(t, p.CriticalNotifications)

	assert.Equal(t, 3, repo.saves)
	assert.Equal(t, s.Get(), repo.prefs)
}

func TestStoreRejectsInvalidValues(t *testing.T) {
	repo := &memPersister{prefs: model.DefaultPreferences()}
	s := NewStore(repo, nil)

	_, err := s.SetLanguage("fr")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = s.SetTheme("sepia")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	assert.Equal(t, 0, repo.saves)
	assert.Equal(t, model.DefaultPreferences(), s.Get())
}

func TestStoreKeepsStateOnSaveFailure(t *testing.T) {
	repo := &memPersister{prefs: model.DefaultPreferences(), failErr: errors.New("disk full")}
	s := NewStore(repo, nil)

	_, err := s.ToggleTheme()
	require.Error(t, err)
	assert.Equal(t, model.ThemeLight, s.Get().Theme)
}

func TestSubscribeReceivesLatest(t *testing.T) {
	s := NewStore(&memPersister{prefs: model.DefaultPreferences()}, nil)
	ch := s.Subscribe()

	_, err := s.ToggleTheme()
	require.NoError(t, err)
	_, err = s.SetLanguage("ar")
	require.NoError(t, err)

	got := <-ch
	assert.Equal(t, model.ThemeDark, got.Theme)
	assert.Equal(t, model.LangArabic, got.Language)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued value %+v", extra)
	default:
	}
}

func TestUnchangedValueIsNotSaved(t *testing.T) {
	repo := &memPersister{prefs: model.DefaultPreferences()}
	s := NewStore(repo, nil)

	_, err := s.SetLanguage("en")
	require.NoError(t, err)
	assert.Equal(t, 0, repo.saves)
}
