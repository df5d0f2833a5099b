package store

import (
	"context"
	"fmt"

	"github.com/abgdnv/soapshop/internal/media"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name, description, category, price string
	stock                               int
}

// sampleCatalog is the starter catalogue, grouped by collection.
var sampleCatalog = []seedProduct{
	{"Lavender Soap", "Relaxing lavender-scented natural soap", "Floral", "8.99", 50},
	{"Rose Petal Soap", "Gentle rose petal moisturizing soap", "Floral", "7.99", 60},
	{"Jasmine Blossom Soap", "Exotic jasmine with delicate floral notes", "Floral", "9.49", 40},
	{"Cherry Blossom Soap", "Light and refreshing cherry blossom scent", "Floral", "8.49", 55},

	{"Eucalyptus Mint Soap", "Invigorating eucalyptus and mint soap", "Herbal", "8.99", 45},
	{"Rosemary Sage Soap", "Aromatic herbal blend for clarity and focus", "Herbal", "8.49", 38},
	{"Tea Tree Soap", "Purifying tea tree oil for clear skin", "Herbal", "9.99", 42},
	{"Lemongrass Soap", "Uplifting citrus and herbal fusion", "Herbal", "7.99", 50},

	{"Charcoal Soap", "Detoxifying activated charcoal soap", "Luxury", "9.99", 35},
	{"Gold & Honey Soap", "Luxurious 24k gold flakes with raw honey", "Luxury", "12.99", 25},
	{"Dead Sea Mud Soap", "Mineral-rich Dead Sea mud for deep cleansing", "Luxury", "11.49", 30},
	{"Silk & Shea Butter Soap", "Creamy silk protein with pure shea butter", "Luxury", "10.99", 28},

	{"Floral Collection Gift Set", "4 premium floral soaps beautifully packaged", "Gift Sets", "32.99", 20},
	{"Herbal Wellness Set", "3 invigorating herbal soaps in a gift box", "Gift Sets", "24.99", 18},
	{"Luxury Spa Collection", "Premium luxury soaps in elegant packaging", "Gift Sets", "44.99", 15},
	{"Seasonal Sampler Set", "6 best-selling soaps to try all varieties", "Gift Sets", "39.99", 22},

	{"Caramel Frappé Soap", "Sweet caramel coffee-inspired soap", "Gen Z", "10.99", 45},
	{"Peppermint Latte Soap", "Cool peppermint with creamy vanilla undertones", "Gen Z", "10.99", 50},
	{"Mocha Swirl Soap", "Rich chocolate and espresso blend", "Gen Z", "10.99", 42},
	{"Sugar Cookie Soap", "Sweet vanilla sugar cookie freshness", "Gen Z", "10.99", 48},
	{"Cranberry White Mocha Soap", "Festive cranberry with white chocolate notes", "Gen Z", "11.49", 38},
	{"Teen Spirit Soap", "Fresh deodorant-inspired clean scent", "Gen Z", "9.99", 100},
}

// SampleProducts returns the starter catalogue with conventional image URLs under urlPrefix.
func SampleProducts(urlPrefix string) []ProductInput {
	out := make([]ProductInput, 0, len(sampleCatalog))
	for _, sp := range sampleCatalog {
		out = append(out, ProductInput{
			Name:        sp.name,
			Description: sp.description,
			Price:       decimal.RequireFromString(sp.price),
			Category:    sp.category,
			Stock:       sp.stock,
			Image:       media.DefaultImageURL(urlPrefix, sp.name),
		})
	}
	return out
}

// Seed inserts products into an empty store. A store that already holds products
// is left untouched unless replace is set, in which case existing products are deleted first.
// It returns the number of inserted products.
func Seed(ctx context.Context, s ProductStore, products []ProductInput, replace bool) (int, error) {
	existing, err := s.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect store: %w", err)
	}
	if len(existing) > 0 {
		if !replace {
			return 0, nil
		}
		for _, p := range existing {
			if _, err := s.Delete(ctx, p.ID); err != nil {
				return 0, fmt.Errorf("failed to delete product %s: %w", p.ID, err)
			}
		}
	}
	for i, in := range products {
		if _, err := s.Create(ctx, in); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", in.Name, err)
		}
	}
	return len(products), nil
}
