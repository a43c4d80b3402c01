package assistant

import (
	"time"

	"github.com/xinv4sionx/marketplace/server/internal/models"
)

// backAtLayouts are tried in order. Zoneless date-times are read in the
// engine's location; a bare date means midnight UTC.
var backAtLayouts = []struct {
	layout string
	utc    bool
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05"},
	{layout: "2006-01-02T15:04"},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02 15:04"},
	{layout: time.RFC1123Z},
	{layout: time.RFC1123},
	{layout: "2006-01-02", utc: true},
}

// describeAvailability narrates the target seller's presence. Unknown
// sellers and sellers without an availability record produce nothing.
func describeAvailability(cat models.Catalog, sellerID string, loc *time.Location) string {
	if sellerID == "" {
		return ""
	}
	seller, ok := cat.FindUser(sellerID)
	if !ok || seller.Availability == nil {
		return ""
	}

	status := seller.Availability.Status
	if status == "" {
		status = models.StatusOnline
	}
	switch status {
	case models.StatusOffline:
		back := "later"
		if seller.Availability.BackAt != nil {
			if t, ok := parseBackAt(*seller.Availability.BackAt, loc); ok {
				back = t.In(loc).Format("15:04")
			}
		}
		return " This seller is currently offline. Expected back at " + back + "."
	case models.StatusBusy:
		return " This seller is currently busy. You can still leave a message or try similar items."
	default:
		return " Seller is online now."
	}
}

func parseBackAt(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range backAtLayouts {
		in := loc
		if l.utc {
			in = time.UTC
		}
		if t, err := time.ParseInLocation(l.layout, s, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
