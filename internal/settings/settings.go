// Package settings holds the user preferences for the lifetime of a
// command. Values change only through the setters, every change is
// persisted, and observers can subscribe to updates.
package settings

import (
	"sync"

	"go.uber.org/zap"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
)

// Persister stores preferences. *storage.Repository satisfies it.
type Persister interface {
	Preferences() model.Preferences
	SavePreferences(model.Preferences) error
}

// Store is the single owner of the current preferences.
type Store struct {
	mu     sync.RWMutex
	prefs  model.Preferences
	repo   Persister
	logger *zap.Logger
	subs   []chan model.Preferences
}

// NewStore loads the stored preferences once.
func NewStore(repo Persister, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{prefs: repo.Preferences(), repo: repo, logger: logger}
}

// Get returns a copy of the current preferences.
func (s *Store) Get() model.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// ToggleTheme switches between light and dark.
func (s *Store) ToggleTheme() (model.Preferences, error) {
	return s.update(func(p *model.Preferences) error {
		if p.Theme == model.ThemeDark {
			p.Theme = model.ThemeLight
		} else {
			p.Theme = model.ThemeDark
		}
		return nil
	})
}

// SetTheme sets the theme explicitly.
func (s *Store) SetTheme(theme string) (model.Preferences, error) {
	return s.update(func(p *model.Preferences) error {
		if theme != model.ThemeLight && theme != model.ThemeDark {
			return apperr.Invalid(apperr.ErrInvalidInput, "theme must be light or dark, got %q", theme)
		}
		p.Theme = theme
		return nil
	})
}

// SetLanguage accepts "en" or "ar".
func (s *Store) SetLanguage(lang string) (model.Preferences, error) {
	return s.update(func(p *model.Preferences) error {
		if lang != model.LangEnglish && lang != model.LangArabic {
			return apperr.Invalid(apperr.ErrInvalidInput, "language must be en or ar, got %q", lang)
		}
		p.Language = lang
		return nil
	})
}

// ToggleCriticalNotifications flips whether overdue alerts are presented.
func (s *Store) ToggleCriticalNotifications() (model.Preferences, error) {
	return s.update(func(p *model.Preferences) error {
		p.CriticalNotifications = !p.CriticalNotifications
		return nil
	})
}

// Subscribe returns a channel that receives the preferences after every
// change. The channel holds only the latest value; a subscriber that falls
// behind skips intermediate states.
func (s *Store) Subscribe() <-chan model.Preferences {
	ch := make(chan model.Preferences, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) update(fn func(*model.Preferences) error) (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	if err := fn(&next); err != nil {
		return s.prefs, err
	}
	if next == s.prefs {
		return next, nil
	}
	if err := s.repo.SavePreferences(next); err != nil {
		return s.prefs, err
	}
	s.prefs = next
	s.logger.Debug("Preferences updated",
		zap.String("theme", next.Theme),
		zap.String("language", next.Language),
		zap.Bool("critical_notifications", next.CriticalNotifications),
	)

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
	return next, nil
}
