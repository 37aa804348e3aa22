package normalize

import (
	"fmt"
	"time"
)

// PostedDisplay renders postedAt relative to now.
func PostedDisplay(postedAt, now time.Time) string {
	if postedAt.IsZero() {
		return "Recently"
	}
	days := int(now.Sub(postedAt).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days <= 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		return postedAt.Format("Jan 2, 2006")
	}
}
