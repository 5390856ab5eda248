package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Entry is one product row in the catalog.
type Entry struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// UnknownProductError reports a lookup for a product the catalog does not carry.
type UnknownProductError struct {
	Product string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product: %s", e.Product)
}

// Catalog is a fixed process-wide table mapping product name to unit price.
// It is built once at startup and never mutated; lookups are case-sensitive
// exact matches.
type Catalog struct {
	entries []Entry
	prices  map[string]decimal.Decimal
}

// New builds a catalog from the given entries. Later duplicates of a name
// are ignored so the first occurrence wins.
func New(entries []Entry) *Catalog {
	c := &Catalog{prices: make(map[string]decimal.Decimal, len(entries))}
	for _, e := range entries {
		if _, dup := c.prices[e.Name]; dup {
			continue
		}
		c.entries = append(c.entries, e)
		c.prices[e.Name] = e.Price
	}
	return c
}

// Default returns the built-in menu used when no catalog is configured.
func Default() *Catalog {
	return New([]Entry{
		{Name: "Pizza", Price: decimal.NewFromFloat(10.99)},
		{Name: "Burger", Price: decimal.NewFromFloat(8.99)},
		{Name: "Salad", Price: decimal.NewFromFloat(7.99)},
		{Name: "Soda", Price: decimal.NewFromFloat(1.99)},
		{Name: "Fries", Price: decimal.NewFromFloat(3.99)},
	})
}

// PriceOf returns the unit price for the named product.
func (c *Catalog) PriceOf(product string) (decimal.Decimal, error) {
	price, ok := c.prices[product]
	if !ok {
		return decimal.Zero, &UnknownProductError{Product: product}
	}
	return price, nil
}

// Has reports whether the product exists in the catalog.
func (c *Catalog) Has(product string) bool {
	_, ok := c.prices[product]
	return ok
}

// List returns catalog entries in their configured order.
func (c *Catalog) List() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
