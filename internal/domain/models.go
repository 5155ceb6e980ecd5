package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// BirthDateLayout is the accepted birth date format (YYYY-MM-DD).
const BirthDateLayout = "2006-01-02"

// MaxNameRunes caps the length of a querent's name.
const MaxNameRunes = 64

// Source identifies which path produced a fortune.
type Source string

const (
	SourceOracle   Source = "oracle"
	SourceFallback Source = "fallback"
)

// FortuneRequest is a validated divination request.
type FortuneRequest struct {
	Name      string
	BirthDate string
}

// NewFortuneRequest trims and validates the raw inputs.
func NewFortuneRequest(name, birthDate string) (FortuneRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FortuneRequest{}, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameRunes {
		return FortuneRequest{}, ErrNameTooLong
	}
	birthDate = strings.TrimSpace(birthDate)
	if _, err := ParseBirthDate(birthDate); err != nil {
		return FortuneRequest{}, err
	}
	return FortuneRequest{Name: name, BirthDate: birthDate}, nil
}

// ParseBirthDate parses a YYYY-MM-DD date as UTC midnight.
func ParseBirthDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(BirthDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBirthDate, s)
	}
	return t, nil
}

// FortuneResult is the six-field divination record.
type FortuneResult struct {
	SpiritRoot    string `json:"spiritRoot"`
	Realm         string `json:"realm"`
	Element       string `json:"element"`
	Poem          string `json:"poem"`
	Analysis      string `json:"analysis"`
	LuckyArtifact string `json:"luckyArtifact"`
}

// Validate reports the first empty field, if any.
func (r FortuneResult) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"spiritRoot", r.SpiritRoot},
		{"realm", r.Realm},
		{"element", r.Element},
		{"poem", r.Poem},
		{"analysis", r.Analysis},
		{"luckyArtifact", r.LuckyArtifact},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is empty", ErrIncompleteFortune, f.name)
		}
	}
	return nil
}
