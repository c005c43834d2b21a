package contracts

import "time"

// FilingType identifies the kind of SEC filing a document came from.
type FilingType string

const (
	FilingAnnual    FilingType = "10-K"
	FilingQuarterly FilingType = "10-Q"
	FilingCurrent   FilingType = "8-K"
)

// Valid reports whether the filing type is one of the supported forms.
func (ft FilingType) Valid() bool {
	switch ft {
	case FilingAnnual, FilingQuarterly, FilingCurrent:
		return true
	}
	return false
}

// Document is an immutable regulatory filing as ingested.
// Created at ingestion and never mutated afterwards.
type Document struct {
	ID         string     `json:"id"`
	Ticker     string     `json:"ticker"`
	FilingType FilingType `json:"filing_type"`
	FilingDate time.Time  `json:"filing_date"`
	RawText    string     `json:"raw_text"`
}
