package domain

import "fmt"

// Category classifies how a product is usually evaluated by buyers.
type Category string

// Known product categories.
const (
	CategoryParametric Category = "parametric"
	CategoryScenario   Category = "scenario"
	CategoryConstraint Category = "constraint"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryParametric, CategoryScenario, CategoryConstraint:
		return true
	default:
		return false
	}
}

// HumanReadable holds the descriptive, shopper-facing product fields.
type HumanReadable struct {
	Title           string   `json:"title"           yaml:"title"`
	Description     string   `json:"description"     yaml:"description"`
	Features        []string `json:"features"        yaml:"features"`
	MarketingCopy   string   `json:"marketingCopy"   yaml:"marketing_copy"`
	LongDescription string   `json:"longDescription" yaml:"long_description"`
}

// GeoVariant is one structured marketing-content result for a product.
// Seeded variants leave CopyType empty; generated ones record the copy type
// that produced them.
type GeoVariant struct {
	ProductName         string   `json:"productName"         yaml:"product_name"`
	ProductType         string   `json:"productType"         yaml:"product_type"`
	CoreFunctions       []string `json:"coreFunctions"       yaml:"core_functions"`
	TargetAudience      []string `json:"targetAudience"      yaml:"target_audience"`
	UnsuitableScenarios []string `json:"unsuitableScenarios" yaml:"unsuitable_scenarios"`
	KeyConclusion       string   `json:"keyConclusion"       yaml:"key_conclusion"`
	CopyType            CopyType `json:"copyType,omitempty"  yaml:"copy_type,omitempty"`
}

// Product is a catalog entry. It is treated as immutable while a generation
// runs; updated variant sets are applied by replacing the product value.
type Product struct {
	ID            string        `json:"id"                      yaml:"id"`
	Name          string        `json:"name"                    yaml:"name"`
	Category      Category      `json:"category"                yaml:"category"`
	Price         float64       `json:"price"                   yaml:"price"`
	OriginalPrice *float64      `json:"originalPrice,omitempty" yaml:"original_price,omitempty"`
	Image         string        `json:"image,omitempty"         yaml:"image,omitempty"`
	HumanReadable HumanReadable `json:"humanReadable"           yaml:"human_readable"`
	Variants      []GeoVariant  `json:"geoOptimized"            yaml:"geo_optimized"`
}

// Validate checks the fields every other component relies on.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrEmptyProductID
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product %s", ErrEmptyProductName, p.ID)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q for product %s", ErrInvalidCategory, p.Category, p.ID)
	}
	if p.Price < 0 || (p.OriginalPrice != nil && *p.OriginalPrice < 0) {
		return fmt.Errorf("%w: product %s", ErrNegativePrice, p.ID)
	}
	return nil
}

// PrimaryVariant returns the variant used as prompt context, which is the
// first one. The zero value is returned when the product has none.
func (p *Product) PrimaryVariant() GeoVariant {
	if len(p.Variants) == 0 {
		return GeoVariant{}
	}
	return p.Variants[0]
}

// WithVariants returns a copy of p whose variant collection is replaced.
// The receiver is left untouched.
func (p Product) WithVariants(variants []GeoVariant) Product {
	out := p
	out.Variants = make([]GeoVariant, len(variants))
	copy(out.Variants, variants)
	return out
}
