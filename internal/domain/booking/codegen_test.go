package booking

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateCodeFormat(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	code := GenerateCode(now)

	if !strings.HasPrefix(code, "BK") {
		t.Fatalf("code %q missing BK prefix", code)
	}
	pattern := regexp.MustCompile(`^BK[0-9A-Z]+[0-9A-F]{4}$`)
	if !pattern.MatchString(code) {
		t.Errorf("code %q does not match expected format", code)
	}
}

func TestGenerateCodeSortsByTime(t *testing.T) {
	early := GenerateCode(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	late := GenerateCode(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	// strip prefix and random tail, compare the timestamp parts
	earlyTS := early[2 : len(early)-4]
	lateTS := late[2 : len(late)-4]
	if len(earlyTS) == len(lateTS) && earlyTS >= lateTS {
		t.Errorf("timestamp part not increasing: %s >= %s", earlyTS, lateTS)
	}
}
