package domain

import (
	"fmt"
	"strings"
	"time"
)

// ScrapedRecord is one fetched source page as written by the external
// collector. Records are immutable once written; re-collection overwrites
// the record for the same URL.
type ScrapedRecord struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
	Timestamp   float64 `json:"timestamp"`
}

// FetchedAt converts the collector's Unix-seconds timestamp to a time.Time.
func (r ScrapedRecord) FetchedAt() time.Time {
	sec := int64(r.Timestamp)
	nsec := int64((r.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// IsEmpty reports whether the record carries no indexable content.
func (r ScrapedRecord) IsEmpty() bool {
	return strings.TrimSpace(r.Content) == ""
}

// ValidateScrapedRecord validates a ScrapedRecord instance.
func ValidateScrapedRecord(r *ScrapedRecord) error {
	if r == nil {
		return fmt.Errorf("scraped record cannot be nil")
	}
	if r.URL == "" {
		return fmt.Errorf("scraped record URL is required")
	}
	return nil
}
