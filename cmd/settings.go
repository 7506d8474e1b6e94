package cmd

import (
	"github.com/spf13/cobra"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/settings"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
			printSettings(p, t.Settings().Get())
			return nil
		})
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Set the color theme (toggles without an argument)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{model.ThemeLight, model.ThemeDark},
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettings(cmd, func(s *settings.Store) error {
			var err error
			if len(args) == 0 {
				_, err = s.ToggleTheme()
			} else {
				_, err = s.SetTheme(args[0])
			}
			return err
		})
	},
}

var settingsLanguageCmd = &cobra.Command{
	Use:       "language <en|ar>",
	Short:     "Set the display language",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{model.LangEnglish, model.LangArabic},
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettings(cmd, func(s *settings.Store) error {
			_, err := s.SetLanguage(args[0])
			return err
		})
	},
}

var settingsNotificationsCmd = &cobra.Command{
	Use:       "notifications [on|off]",
	Short:     "Enable or disable critical overdue alerts (toggles without an argument)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettings(cmd, func(s *settings.Store) error {
			if len(args) == 1 {
				want, err := parseOnOff(args[0])
				if err != nil {
					return err
				}
				if s.Get().CriticalNotifications == want {
					return nil
				}
			}
			_, err := s.ToggleCriticalNotifications()
			return err
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsLanguageCmd)
	settingsCmd.AddCommand(settingsNotificationsCmd)
}

// updateSettings applies fn and prints the resulting preferences. The
// printer follows the store, so a language change shows up at once.
func updateSettings(cmd *cobra.Command, fn func(*settings.Store) error) error {
	t, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	store := t.Settings()
	p := render.New(cmd.OutOrStdout(), store.Get()).Follow(store.Subscribe())
	if err := fn(store); err != nil {
		return err
	}
	printSettings(p, store.Get())
	return nil
}

func printSettings(p *render.Printer, prefs model.Preferences) {
	p.Heading(p.T(render.KeySettings))
	p.Printf("theme:         %s\n", prefs.Theme)
	p.Printf("language:      %s\n", prefs.Language)
	p.Printf("notifications: %s\n", onOff(prefs.CriticalNotifications))
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, apperr.Invalid(apperr.ErrInvalidInput, "expected on or off, got %q", s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
