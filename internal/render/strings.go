package render

import "github.com/Tiliavir/trivial-dose-tracker/internal/model"

// Key names a translatable label.
type Key string

const (
	KeyToday          Key = "today"
	KeyTaken          Key = "taken"
	KeyOverdue        Key = "overdue"
	KeyDueSoon        Key = "due-soon"
	KeyUpcoming       Key = "upcoming"
	KeyMissed         Key = "missed"
	KeyCompletion     Key = "completion"
	KeyStreak         Key = "streak"
	KeyDays           Key = "days"
	KeyMinutesLate    Key = "minutes-late"
	KeyHoursLate      Key = "hours-late"
	KeyCriticalAlert  Key = "critical-alert"
	KeyNoMedicines    Key = "no-medicines"
	KeyAllOnTrack     Key = "all-on-track"
	KeyAdherence      Key = "adherence"
	KeyOverall        Key = "overall"
	KeyMedicines      Key = "medicines"
	KeyDosesPerDay    Key = "doses-per-day"
	KeyByType         Key = "by-type"
	KeyLatest         Key = "latest"
	KeyAverage        Key = "average"
	KeyTrend          Key = "trend"
	KeyNoMeasurements Key = "no-measurements"
	KeySettings       Key = "settings"
)

var messages = map[string]map[Key]string{
	model.LangEnglish: {
		KeyToday:          "Today",
		KeyTaken:          "taken",
		KeyOverdue:        "overdue",
		KeyDueSoon:        "due soon",
		KeyUpcoming:       "upcoming",
		KeyMissed:         "missed",
		KeyCompletion:     "Completed",
		KeyStreak:         "Streak",
		KeyDays:           "days",
		KeyMinutesLate:    "minutes late",
		KeyHoursLate:      "hours late",
		KeyCriticalAlert:  "Critical alert: missed doses",
		KeyNoMedicines:    "No medicines yet. Add one with 'tdt add'.",
		KeyAllOnTrack:     "No critical overdue doses.",
		KeyAdherence:      "Adherence",
		KeyOverall:        "Overall",
		KeyMedicines:      "Medicines",
		KeyDosesPerDay:    "Doses per day",
		KeyByType:         "By type",
		KeyLatest:         "Latest",
		KeyAverage:        "Average",
		KeyTrend:          "Trend",
		KeyNoMeasurements: "No measurements recorded.",
		KeySettings:       "Settings",
	},
	model.LangArabic: {
		KeyToday:          "اليوم",
		KeyTaken:          "تم التناول",
		KeyOverdue:        "متأخر",
		KeyDueSoon:        "قريباً",
		KeyUpcoming:       "قادم",
		KeyMissed:         "فائت",
		KeyCompletion:     "مكتمل",
		KeyStreak:         "أيام متتالية",
		KeyDays:           "أيام",
		KeyMinutesLate:    "دقيقة تأخير",
		KeyHoursLate:      "ساعة تأخير",
		KeyCriticalAlert:  "تنبيه هام: جرعات فائتة",
		KeyNoMedicines:    "لا توجد أدوية بعد. أضف دواء باستخدام 'tdt add'.",
		KeyAllOnTrack:     "لا توجد جرعات متأخرة.",
		KeyAdherence:      "الالتزام",
		KeyOverall:        "الإجمالي",
		KeyMedicines:      "الأدوية",
		KeyDosesPerDay:    "الجرعات يومياً",
		KeyByType:         "حسب النوع",
		KeyLatest:         "الأحدث",
		KeyAverage:        "المتوسط",
		KeyTrend:          "الاتجاه",
		KeyNoMeasurements: "لا توجد قياسات.",
		KeySettings:       "الإعدادات",
	},
}

// T returns the label for key in lang, falling back to English.
func T(lang string, key Key) string {
	if s, ok := messages[lang][key]; ok {
		return s
	}
	if s, ok := messages[model.LangEnglish][key]; ok {
		return s
	}
	return string(key)
}
