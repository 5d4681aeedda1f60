package app

import (
	"fmt"
	"time"
)

// FormatDuration renders d as HH:MM:SS, flooring negatives at zero. Hours are
// not wrapped, so a 30h interval reads 30:00:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
