package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTrackingID returns a client facing reference such as DEC-20261019-4F9A1C
func NewTrackingID(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "DEC-" + at.Format("20060102") + "-" + suffix
}
