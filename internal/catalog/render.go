package catalog

import (
	"fmt"
	"io"
)

// Renderer writes the curatedProducts block. Values are inserted between
// single quotes verbatim, as the guide configs are pasted by hand.
type Renderer struct {
	w io.Writer
}

// NewRenderer returns a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Open writes the opening line of the block.
func (r *Renderer) Open() error {
	_, err := fmt.Fprintln(r.w, "    curatedProducts: [")
	return err
}

// Product writes one object literal. trailingComma controls the comma after
// the closing brace.
func (r *Renderer) Product(p Product, trailingComma bool) error {
	comma := ""
	if trailingComma {
		comma = ","
	}
	_, err := fmt.Fprintf(r.w, `      {
        title: '%s',
        price: %s,
        currency: '%s',
        image: '%s',
        affiliateLink: '%s',
        merchant: '%s',
        reason: '%s',
      }%s
`, p.Title, FormatPrice(p.Price), p.Currency, p.Image, p.AffiliateLink, p.Merchant, p.Reason, comma)
	return err
}

// Close writes the closing bracket followed by a blank line and the row count.
func (r *Renderer) Close(totalRows int) error {
	_, err := fmt.Fprintf(r.w, "    ],\n\n// Total products: %d\n", totalRows)
	return err
}
