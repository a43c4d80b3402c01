package assistant

import (
	"strconv"
	"strings"

	"github.com/xinv4sionx/marketplace/server/internal/models"
)

const maxAlternatives = 3

// nearbyAlternatives picks the first available products in town, keeping
// catalog order.
func nearbyAlternatives(products []models.Product, town string) []models.Product {
	var out []models.Product
	for _, p := range products {
		if !p.AvailableNow || !strings.EqualFold(p.Town, town) {
			continue
		}
		out = append(out, p)
		if len(out) == maxAlternatives {
			break
		}
	}
	return out
}

func renderAlternatives(items []models.Product) string {
	if len(items) == 0 {
		return " No nearby matches at the moment — try widening price range or switching town."
	}
	parts := make([]string, len(items))
	for i, p := range items {
		parts[i] = p.Title + " (KES " + formatPrice(p.Price) + ")"
	}
	return " Here are similar items nearby: " + strings.Join(parts, " • ") + "."
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
