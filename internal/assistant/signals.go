package assistant

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Commodity is the broad kind of goods a question is about.
type Commodity string

const (
	CommoditySolid   Commodity = "solid"
	CommodityVirtual Commodity = "virtual"
	CommodityMixed   Commodity = "mixed"
)

var (
	knownTowns = []string{"nairobi", "kiambu", "mombasa", "nakuru"}

	solidTerms   = []string{"tv", "chair", "sofa", "bed", "lamp", "fridge", "groceries", "ring light"}
	virtualTerms = []string{"account", "followers", "instagram", "tiktok", "page", "login"}

	numberRe = regexp.MustCompile(`\d{3,7}`)
)

// PriceWindow is an inclusive price range in KES.
type PriceWindow struct {
	Min int
	Max int
}

func (w PriceWindow) String() string {
	return strconv.Itoa(w.Min) + " – " + strconv.Itoa(w.Max)
}

// detectTown returns the last known town mentioned in q, capitalised, or
// fallback when none is mentioned.
func detectTown(q, fallback string) string {
	town := fallback
	for _, t := range knownTowns {
		if strings.Contains(q, t) {
			town = strings.ToUpper(t[:1]) + t[1:]
		}
	}
	return town
}

// extractNumbers returns every run of 3 to 7 digits in order of appearance.
func extractNumbers(q string) []int {
	matches := numberRe.FindAllString(q, -1)
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// inferPriceWindow turns a single figure into a ±30% window and several
// figures into the range spanned by the two smallest. A window with a zero
// bound is not useful guidance and is dropped.
func inferPriceWindow(nums []int) *PriceWindow {
	var w PriceWindow
	switch {
	case len(nums) == 1:
		base := float64(nums[0])
		w = PriceWindow{Min: roundHalfUp(base * 0.7), Max: roundHalfUp(base * 1.3)}
	case len(nums) >= 2:
		sorted := append([]int(nil), nums...)
		sort.Ints(sorted)
		w = PriceWindow{Min: sorted[0], Max: sorted[1]}
	default:
		return nil
	}
	if w.Min == 0 || w.Max == 0 {
		return nil
	}
	return &w
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// classify checks the solid vocabulary before the virtual one; the first
// vocabulary with a hit decides.
func classify(q string) Commodity {
	if containsAny(q, solidTerms) {
		return CommoditySolid
	}
	if containsAny(q, virtualTerms) {
		return CommodityVirtual
	}
	return CommodityMixed
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
