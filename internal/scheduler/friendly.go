package scheduler

import "fmt"

var friendlyNames = map[string]string{
	"*/15 * * * *": "every 15 minutes",
	"0,30 * * * *": "every 30 minutes",
	"0 * * * *":    "hourly",
	"0 */2 * * *":  "every 2 hours",
	"0 2 * * *":    "daily at 02:00",
}

// Friendly describes a cron expression for humans.
func Friendly(expr string) string {
	if name, ok := friendlyNames[expr]; ok {
		return name
	}
	return fmt.Sprintf("custom (%s)", expr)
}

// Interval is the shorter form used as the reported backup interval.
func Interval(expr string) string {
	if expr == DefaultExpression {
		return "30 minutes"
	}
	return Friendly(expr)
}

// Validate reports whether expr is a valid five-field cron expression.
func Validate(expr string) error {
	if _, err := newParser().Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
