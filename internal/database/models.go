package database

import (
	"time"
)

// ImportKind names the data set an import run loaded.
type ImportKind string

const (
	ImportKindHolidays ImportKind = "holidays"
	ImportKindAlmanac  ImportKind = "almanac"
)

// ValidImportKinds returns all valid import kinds.
func ValidImportKinds() []ImportKind {
	return []ImportKind{ImportKindHolidays, ImportKindAlmanac}
}

// IsValid checks if an import kind is valid.
func (k ImportKind) IsValid() bool {
	for _, valid := range ValidImportKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// ImportLogEntry is one recorded import run.
type ImportLogEntry struct {
	ID           int64      `json:"id"`
	Kind         ImportKind `json:"kind"`
	Year         int        `json:"year"`
	Source       string     `json:"source"`
	Records      int        `json:"records"`
	Success      bool       `json:"success"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	ImportedAt   *time.Time `json:"imported_at,omitempty"`
}

// YearCoverage reports how much stored data a year has.
type YearCoverage struct {
	Year     int `json:"year"`
	Holidays int `json:"holidays"`
	Almanac  int `json:"almanac"`
}
