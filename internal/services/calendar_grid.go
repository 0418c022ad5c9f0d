package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/habitdiary/internal/models"
)

// CalendarGridCells is six weeks of seven days.
const CalendarGridCells = 42

type CalendarEntry struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Reflection string `json:"reflection"`
	Mark       string `json:"mark"`
}

// CalendarCell is one slot of the month grid. Leading filler cells have a nil
// Day. Trailing filler cells number the following month's days from 1.
type CalendarCell struct {
	Day     *int           `json:"day"`
	Entry   *CalendarEntry `json:"entry"`
	InMonth bool           `json:"is_current_month"`
	Date    string         `json:"date,omitempty"`
}

func ReflectionMark(reflection string) string {
	switch reflection {
	case models.ReflectionVeryGood:
		return "◎"
	case models.ReflectionGood:
		return "◯"
	case models.ReflectionMore:
		return "➚"
	default:
		return ""
	}
}

func NewCalendarEntry(entry models.DiaryEntry) CalendarEntry {
	return CalendarEntry{
		ID:         entry.ID,
		Date:       entry.Day,
		Reflection: entry.Reflection,
		Mark:       ReflectionMark(entry.Reflection),
	}
}

// BuildCalendarGrid projects a month's entries onto a Sunday-first grid of
// exactly CalendarGridCells cells. Entries outside the month are ignored.
func BuildCalendarGrid(year int, month time.Month, entries []models.DiaryEntry) []CalendarCell {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	leading := int(monthStart.Weekday())
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()

	entryByDay := make(map[string]models.DiaryEntry, len(entries))
	for _, entry := range entries {
		existing, exists := entryByDay[entry.Day]
		if !exists || entry.ID > existing.ID {
			entryByDay[entry.Day] = entry
		}
	}

	cells := make([]CalendarCell, 0, CalendarGridCells)
	for index := 0; index < leading; index++ {
		cells = append(cells, CalendarCell{})
	}

	for day := 1; day <= daysInMonth; day++ {
		dayNumber := day
		key := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		cell := CalendarCell{
			Day:     &dayNumber,
			InMonth: true,
			Date:    key,
		}
		if entry, ok := entryByDay[key]; ok {
			calendarEntry := NewCalendarEntry(entry)
			cell.Entry = &calendarEntry
		}
		cells = append(cells, cell)
	}

	for filler := 1; len(cells) < CalendarGridCells; filler++ {
		dayNumber := filler
		cells = append(cells, CalendarCell{Day: &dayNumber})
	}

	return cells
}
