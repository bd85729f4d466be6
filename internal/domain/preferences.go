package domain

const (
	CalendarGregorian = "gregorian"
	CalendarJalali    = "jalali"
)

// Preferences holds per-user display settings. Every user has exactly one
// row; reads fall back to defaults when none exists yet.
type Preferences struct {
	UserID    int64  `db:"user_id" json:"-"`
	Theme     string `db:"theme" json:"theme"`
	Calendar  string `db:"calendar" json:"calendar"`
	WeekStart int    `db:"week_start" json:"week_start"`
	Timezone  string `db:"timezone" json:"timezone"`
}

// DefaultPreferences returns the settings applied to a user who has never
// saved any.
func DefaultPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:    userID,
		Theme:     "system",
		Calendar:  CalendarGregorian,
		WeekStart: 1,
		Timezone:  "UTC",
	}
}
