package utils

import (
	"reflect"
	"strings"
	"time"
)

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

// FormatLocal renders epoch millis as a short local date-time in loc.
func FormatLocal(millis int64, loc *time.Location) string {
	return time.UnixMilli(millis).
		In(loc).
		Format("2006-01-02 03:04 PM MST")
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

func ToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func FromMillis(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

// Sanitize trims every string (and []string element) field of the struct o points to.
func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
