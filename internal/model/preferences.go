package model

// Preferences are the user settings persisted in the preferences bucket.
type Preferences struct {
	Theme                 string `json:"theme" yaml:"theme"`
	Language              string `json:"language" yaml:"language"`
	CriticalNotifications bool   `json:"critical_notifications" yaml:"critical_notifications"`
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	LangEnglish = "en"
	LangArabic  = "ar"
)

// DefaultPreferences returns the settings of a fresh installation.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                 ThemeLight,
		Language:              LangEnglish,
		CriticalNotifications: true,
	}
}
