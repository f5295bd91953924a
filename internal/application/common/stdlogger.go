package common

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// levelRank orders log levels for threshold filtering
var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// StdLogger writes log entries through the standard library logger. It is
// the default logger for CLI invocations.
type StdLogger struct {
	minLevel int
}

// NewStdLogger creates a logger that drops entries below minLevel
// (debug, info, warn, error)
func NewStdLogger(minLevel string) *StdLogger {
	rank, ok := levelRank[strings.ToUpper(minLevel)]
	if !ok {
		rank = levelRank["INFO"]
	}
	return &StdLogger{minLevel: rank}
}

func (l *StdLogger) Log(level, message string, fields map[string]interface{}) {
	rank, ok := levelRank[strings.ToUpper(level)]
	if !ok {
		rank = levelRank["INFO"]
	}
	if rank < l.minLevel {
		return
	}

	if len(fields) == 0 {
		log.Printf("[%s] %s", strings.ToUpper(level), message)
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	log.Printf("[%s] %s %s", strings.ToUpper(level), message, strings.Join(parts, " "))
}
