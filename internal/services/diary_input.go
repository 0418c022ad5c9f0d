package services

import (
	"strings"

	"github.com/terraincognita07/habitdiary/internal/models"
)

const (
	MaxEntryNotesLength = 2000
	MaxPraiseLength     = 500
	MinPraisesPerEntry  = 3
	MaxPraisesPerEntry  = 10
)

type DiaryEntryInput struct {
	Reflection      string
	AdditionalNotes string
	Praises         []string
}

// DiaryEntryUpdate carries optional changes. A nil Praises slice leaves the
// stored praises untouched. A non-nil slice replaces all of them.
type DiaryEntryUpdate struct {
	Reflection      *string
	AdditionalNotes *string
	Praises         []string
}

func NormalizeDiaryEntryInput(input DiaryEntryInput) (DiaryEntryInput, error) {
	reflection, err := NormalizeReflection(input.Reflection)
	if err != nil {
		return input, err
	}
	praises, err := NormalizePraises(input.Praises)
	if err != nil {
		return input, err
	}

	input.Reflection = reflection
	input.AdditionalNotes = TrimEntryNotes(input.AdditionalNotes)
	input.Praises = praises
	return input, nil
}

func NormalizeReflection(value string) (string, error) {
	reflection := strings.ToUpper(strings.TrimSpace(value))
	if !IsValidReflection(reflection) {
		return "", ErrInvalidReflection
	}
	return reflection, nil
}

func IsValidReflection(reflection string) bool {
	switch reflection {
	case models.ReflectionVeryGood, models.ReflectionGood, models.ReflectionMore:
		return true
	default:
		return false
	}
}

func TrimEntryNotes(value string) string {
	return truncateRunes(strings.TrimSpace(value), MaxEntryNotesLength)
}

// NormalizePraises trims every praise and drops the empty ones. It does not
// enforce the minimum count, see ValidatePraiseCount.
func NormalizePraises(values []string) ([]string, error) {
	praises := make([]string, 0, len(values))
	for _, value := range values {
		text := strings.TrimSpace(value)
		if text == "" {
			continue
		}
		praises = append(praises, truncateRunes(text, MaxPraiseLength))
	}
	if len(praises) > MaxPraisesPerEntry {
		return nil, ErrTooManyPraises
	}
	return praises, nil
}

// ValidatePraiseCount is the form-level rule applied before an entry is
// submitted for admission.
func ValidatePraiseCount(values []string) error {
	count := 0
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			count++
		}
	}
	if count < MinPraisesPerEntry {
		return ErrTooFewPraises
	}
	return nil
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
