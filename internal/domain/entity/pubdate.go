package entity

import (
	"regexp"
	"strconv"
	"time"
)

// PublicationDateFormat is the accepted request format for publication dates.
const PublicationDateFormat = "MM/DD/YYYY HH:mm"

// 2桁月/2桁日/4桁年 半角スペース 24時間表記
var pubDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4}) (\d{2}):(\d{2})$`)

// ParsePublicationDate parses a publication date string in MM/DD/YYYY HH:mm
// format into a UTC timestamp at the given wall-clock fields. No timezone
// offset is accepted or inferred.
//
// It rejects strings that do not match the pattern, field values outside
// their calendar ranges (month 1-12, day 1-31, year 1900-2100, hour 0-23,
// minute 0-59), and combinations that do not form a real calendar date such
// as 02/30. The overflow check works by constructing the date in UTC and
// verifying the round-tripped year/month/day still match the input, since
// time.Date silently normalizes out-of-range days into the next month.
func ParsePublicationDate(s string) (time.Time, error) {
	m := pubDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, &ValidationError{
			Field:   "publicationDate",
			Message: "publication date must be in format " + PublicationDateFormat,
		}
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	switch {
	case month < 1 || month > 12:
		return time.Time{}, &ValidationError{Field: "publicationDate", Message: "month must be between 01 and 12"}
	case day < 1 || day > 31:
		return time.Time{}, &ValidationError{Field: "publicationDate", Message: "day must be between 01 and 31"}
	case year < 1900 || year > 2100:
		return time.Time{}, &ValidationError{Field: "publicationDate", Message: "year must be between 1900 and 2100"}
	case hour > 23:
		return time.Time{}, &ValidationError{Field: "publicationDate", Message: "hour must be between 00 and 23"}
	case minute > 59:
		return time.Time{}, &ValidationError{Field: "publicationDate", Message: "minute must be between 00 and 59"}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)

	// time.Date が月跨ぎに正規化していないか確認（例: 02/30 → 03/01）
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, &ValidationError{
			Field:   "publicationDate",
			Message: "publication date is not a real calendar date",
		}
	}

	return t, nil
}
