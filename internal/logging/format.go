package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(consoleTimeLayout)
}

// attrString renders a value without quoting, for subject composition.
func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return plainValue(v)
}

// formatValue renders a value for the key=value tail of a console line.
func formatValue(v slog.Value) string {
	return quoteIfNeeded(plainValue(v.Resolve()))
}

func plainValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindAny:
		switch value := v.Any().(type) {
		case error:
			return value.Error()
		case fmt.Stringer:
			return value.String()
		case []string:
			return strings.Join(value, ",")
		default:
			return fmt.Sprint(value)
		}
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}
