package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// NewDate truncates t to its calendar day
func NewDate(t time.Time) *datatypes.Date {
	y, m, d := t.Date()
	date := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &date
}

// ParseDate parses a YYYY-MM-DD string; an empty string yields nil
func ParseDate(value string) (*datatypes.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected %s", value, DateLayout)
	}
	return NewDate(t), nil
}

// FormatDate renders a date as YYYY-MM-DD, or "" when nil
func FormatDate(date *datatypes.Date) string {
	if date == nil {
		return ""
	}
	return time.Time(*date).Format(DateLayout)
}
