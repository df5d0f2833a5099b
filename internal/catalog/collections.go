package catalog

import (
	"errors"
	"fmt"
	"slices"
)

const (
	CollectionLuxury   = "luxury"
	CollectionGiftSets = "gift-sets"
	CollectionSale     = "sale"
	CollectionFeatured = "featured"
	CollectionWinter   = "winter"
)

const (
	saleLimit     = 8
	featuredLimit = 3
)

var ErrUnknownCollection = errors.New("unknown collection")

type collection func([]Product) []Product

var collections = map[string]collection{
	CollectionLuxury:   byCategories("Luxury"),
	CollectionGiftSets: byCategories("Gift Sets"),
	CollectionSale:     firstN(saleLimit),
	CollectionFeatured: firstN(featuredLimit),
	CollectionWinter:   byCategories("Herbal", "Luxury"),
}

// Collection returns the curated subset named by slug, keeping input order.
func Collection(slug string, products []Product) ([]Product, error) {
	fn, ok := collections[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, slug)
	}
	return fn(products), nil
}

// CollectionSlugs lists the known collections in a stable order.
func CollectionSlugs() []string {
	slugs := make([]string, 0, len(collections))
	for slug := range collections {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return slugs
}

func byCategories(categories ...string) collection {
	return func(products []Product) []Product {
		out := make([]Product, 0, len(products))
		for _, p := range products {
			if slices.Contains(categories, p.Category) {
				out = append(out, p)
			}
		}
		return out
	}
}

func firstN(n int) collection {
	return func(products []Product) []Product {
		head := products[:min(n, len(products))]
		return append(make([]Product, 0, len(head)), head...)
	}
}
