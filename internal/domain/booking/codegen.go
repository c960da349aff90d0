package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GenerateCode produces a customer-facing booking reference of the form
// BK<base36 unix seconds><4 hex chars>, e.g. BK1F3K9T2A3F. The timestamp
// keeps codes roughly sortable; the random tail avoids collisions for
// bookings created in the same second.
func GenerateCode(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.Unix(), 36))
	tail := make([]byte, 2)
	rand.Read(tail)
	return fmt.Sprintf("BK%s%s", ts, strings.ToUpper(hex.EncodeToString(tail)))
}
