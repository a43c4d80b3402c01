// Package assistant implements Airi, the rule-based marketplace assistant.
//
// The engine is a pure function of its request: it reads the catalog snapshot
// it is given, never mutates it, performs no I/O and keeps no state between
// calls, so a single Engine can serve any number of goroutines.
package assistant

import (
	"strings"
	"time"

	"github.com/xinv4sionx/marketplace/server/internal/models"
)

// Requester is the profile of the user asking the question.
type Requester struct {
	Name      string
	Town      string
	StoreName string
}

// Request bundles everything a single reply depends on.
type Request struct {
	Question  string
	Mode      string
	Role      models.Role
	Requester Requester
	Catalog   models.Catalog
	SellerID  string // optional
}

// Reply is the generated answer plus the signals it was built from.
type Reply struct {
	Text      string
	Town      string
	Commodity Commodity
	Window    *PriceWindow
}

// Options tune presentation details that do not change the rule set.
type Options struct {
	// Location is used to render a seller's expected return time.
	// Defaults to time.Local.
	Location *time.Location
	// SignOff appends a personalised closing line addressed to the
	// requester's display name.
	SignOff bool
}

// Engine produces assistant replies.
type Engine struct {
	loc     *time.Location
	signOff bool
}

// New returns an Engine configured with opts.
func New(opts Options) *Engine {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Engine{loc: loc, signOff: opts.SignOff}
}

const defaultTown = "your area"

// Reply answers req. It never fails: anything it cannot make sense of falls
// back to a default phrase in the reply text.
func (e *Engine) Reply(req Request) Reply {
	q := strings.ToLower(req.Question)

	town := req.Requester.Town
	if town == "" {
		town = defaultTown
	}
	town = detectTown(q, town)
	window := inferPriceWindow(extractNumbers(q))
	commodity := classify(q)

	tail := describeAvailability(req.Catalog, req.SellerID, e.loc) +
		renderAlternatives(nearbyAlternatives(req.Catalog.Products, town))

	var b strings.Builder
	b.WriteString(prefixFor(req.Mode))
	if req.Role == models.RoleBuyer {
		b.WriteString("You are looking for a **" + string(commodity) + "** in **" + town + "**.")
		if window != nil {
			b.WriteString(" A fair price window is **KES " + window.String() + "**.")
		} else {
			b.WriteString(` Add a number (e.g., "under 5000") for price guidance.`)
		}
	} else {
		// Anything that is not a buyer gets seller guidance; callers are
		// expected to validate the role before it gets here.
		b.WriteString("For a **" + string(commodity) + "** targeting **" + town +
			"**, craft a clear listing with 2 images, short bullets, and delivery/meetup details.")
		if window != nil {
			b.WriteString(" Consider pricing around **KES " + window.String() + "**.")
		} else {
			b.WriteString(" Add a price hint to calibrate pricing.")
		}
	}
	b.WriteString(tail)
	if e.signOff {
		b.WriteString(" Hope that helps, " + displayName(req.Role, req.Requester) + ".")
	}

	return Reply{
		Text:      strings.TrimSpace(b.String()),
		Town:      town,
		Commodity: commodity,
		Window:    window,
	}
}

func prefixFor(mode string) string {
	switch mode {
	case "pro":
		return "Here is a structured insight: "
	case "neon":
		return "⚡ Neon scan → "
	default:
		return "Hey 😊 "
	}
}

// displayName prefers a seller's store name, then the personal name.
func displayName(role models.Role, r Requester) string {
	if role == models.RoleSeller && r.StoreName != "" {
		return r.StoreName
	}
	if r.Name != "" {
		return r.Name
	}
	return "friend"
}
