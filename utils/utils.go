package utils

import (
	"net/http"
	"regexp"
	"strconv"

	"vitrine/globals"
)

// GetUserIDFromRequest pulls the authenticated user id out of the request
// context, or returns "" when the request is anonymous.
func GetUserIDFromRequest(r *http.Request) string {
	if v, ok := r.Context().Value(globals.UserIDKey).(string); ok {
		return v
	}
	return ""
}

var phoneRe = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// ValidPhone accepts local and international digit-only numbers. The phone is
// the rate-limit key, so anything that does not look like a number is rejected
// at the door.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// FormatAmount renders a currency amount the shortest exact way (1000 not
// 1000.00, 9.99 not 9.990000), matching how amounts appear in validation
// messages and invoices.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParsePagination reads ?limit= and ?skip= with sane caps for admin listings.
func ParsePagination(r *http.Request) (limit int64, skip int64) {
	limit = 50
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && v > 0 {
		skip = v
	}
	return limit, skip
}
