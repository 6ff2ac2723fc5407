package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	kb = 1024
	mb = kb * 1024
	gb = mb * 1024
	tb = gb * 1024
	pb = tb * 1024
)

// sizeUnits maps the unit suffixes Elasticsearch uses in cat APIs to their
// byte multipliers. ES always means binary (1024) multiples.
var sizeUnits = map[string]float64{
	"":   1,
	"b":  1,
	"kb": kb,
	"mb": mb,
	"gb": gb,
	"tb": tb,
	"pb": pb,
}

// ParseError reports a size string that could not be converted to bytes.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse size %q: %s", e.Input, e.Reason)
}

// ParseSize converts a human-readable size such as "1.5kb", "20mb" or
// "2.1 GB" into bytes. Empty input and "0b" yield 0 with no error. Malformed
// input yields 0 and a *ParseError.
func ParseSize(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "0b" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, " ", "")

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	numPart, unitPart := s, ""
	if split >= 0 {
		numPart, unitPart = s[:split], s[split:]
	}
	if numPart == "" {
		return 0, &ParseError{Input: s, Reason: "missing number"}
	}
	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "invalid number"}
	}
	mult, ok := sizeUnits[unitPart]
	if !ok {
		return 0, &ParseError{Input: s, Reason: "unknown unit " + strconv.Quote(unitPart)}
	}
	v := math.Round(n * mult)
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if v >= float64(math.MaxInt64) {
		return 0, &ParseError{Input: s, Reason: "size out of range"}
	}
	return int64(v), nil
}

// SizeOrZero parses s and logs a warning instead of failing. Malformed sizes
// count as 0 bytes.
func SizeOrZero(log zerolog.Logger, s string) int64 {
	n, err := ParseSize(s)
	if err != nil {
		log.Warn().Err(err).Msg("unparseable size, treating as 0")
		return 0
	}
	return n
}

// FormatBytes formats a byte count into a human-readable string with 1 decimal place.
// Thresholds: <1KB → B, <1MB → KB, <1GB → MB, <1TB → GB, else TB.
func FormatBytes(bytes int64) string {
	switch {
	case bytes < kb:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	case bytes < gb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes < tb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	default:
		return fmt.Sprintf("%.1f TB", float64(bytes)/tb)
	}
}

// FormatThroughput formats a bytes-per-second rate, e.g. "12.3 MB/s".
// Negative rates are shown as "---".
func FormatThroughput(bytesPerSec float64) string {
	if bytesPerSec < 0 {
		return "---"
	}
	return FormatBytes(int64(bytesPerSec)) + "/s"
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatElapsed formats a duration with one decimal of seconds below a
// minute and as "XmYs" above it.
func FormatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
