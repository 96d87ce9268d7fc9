package prompt

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"text/template"

	"github.com/geo-copy/geo-api/internal/domain"
)

// Picker returns an index in [0, n). It drives the random copy type choice.
type Picker func(n int) int

// listSeparator joins list fields inside the product information block.
const listSeparator = "; "

var tmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join":  func(items []string) string { return strings.Join(items, listSeparator) },
	"money": formatPrice,
	"deref": func(f *float64) float64 { return *f },
}).Parse(promptTemplates))

// Composer builds prompts from product data.
type Composer struct {
	pick Picker
}

// Option configures a Composer.
type Option func(*Composer)

// WithPicker replaces the random source used by ComposeRandom and PickCopyType.
func WithPicker(p Picker) Option {
	return func(c *Composer) {
		if p != nil {
			c.pick = p
		}
	}
}

// NewComposer creates a Composer. Without options copy types are picked
// uniformly at random.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{pick: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// promptData is the view of a product handed to the templates.
type promptData struct {
	Name           string
	Category       domain.Category
	Features       []string
	Description    string
	TargetAudience []string
	CoreFunctions  []string
	KeyConclusion  string
	IncludePrice   bool
	Price          float64
	OriginalPrice  *float64
	TypeTitle      string
}

// PickCopyType chooses one copy type uniformly from the enumeration.
func (c *Composer) PickCopyType() domain.CopyType {
	types := domain.AllCopyTypes()
	return types[c.pick(len(types))]
}

// ComposeRandom composes a prompt for a randomly picked copy type and reports
// which type was used.
func (c *Composer) ComposeRandom(p domain.Product) (string, domain.CopyType, error) {
	ct := c.PickCopyType()
	text, err := c.Compose(p, ct)
	return text, ct, err
}

// Compose returns the prompt for p under copy type ct. The result is identical
// for identical inputs.
func (c *Composer) Compose(p domain.Product, ct domain.CopyType) (string, error) {
	if !ct.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCopyType, ct)
	}

	variant := p.PrimaryVariant()
	data := promptData{
		Name:           p.Name,
		Category:       p.Category,
		Features:       p.HumanReadable.Features,
		Description:    p.HumanReadable.Description,
		TargetAudience: variant.TargetAudience,
		CoreFunctions:  variant.CoreFunctions,
		KeyConclusion:  variant.KeyConclusion,
		IncludePrice:   ct.RequiresPrice(),
		Price:          p.Price,
		OriginalPrice:  p.OriginalPrice,
		TypeTitle:      ct.Title(),
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "context", data); err != nil {
		return "", fmt.Errorf("failed to execute prompt context template: %w", err)
	}
	if err := tmpl.ExecuteTemplate(&buf, string(ct), data); err != nil {
		return "", fmt.Errorf("failed to execute %s section template: %w", ct, err)
	}
	return buf.String(), nil
}

// formatPrice renders a price with the currency sign and no trailing zeros,
// e.g. 1299 -> "¥1299", 19.9 -> "¥19.9".
func formatPrice(v float64) string {
	return "¥" + strconv.FormatFloat(v, 'f', -1, 64)
}
