package prompt

import (
	"strings"
	"testing"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() domain.Product {
	original := 1599.0
	return domain.Product{
		ID:            "p1",
		Name:          "X100 Smart Watch",
		Category:      domain.CategoryParametric,
		Price:         1299,
		OriginalPrice: &original,
		HumanReadable: domain.HumanReadable{
			Description: "Aerospace-grade aluminium case with a retina display.",
			Features:    []string{"24/7 heart rate", "Built-in GPS", "14-day battery"},
		},
		Variants: []domain.GeoVariant{
			{
				TargetAudience: []string{"Runners", "Cyclists"},
				CoreFunctions:  []string{"Heart rate monitoring", "GPS tracking"},
				KeyConclusion:  "High-frequency physiological data for self-trackers.",
			},
			{KeyConclusion: "second variant must not be used"},
		},
	}
}

func TestCompose_PriceRules(t *testing.T) {
	t.Parallel()

	c := NewComposer()
	p := testProduct()

	for _, ct := range domain.AllCopyTypes() {
		t.Run(string(ct), func(t *testing.T) {
			text, err := c.Compose(p, ct)
			require.NoError(t, err)

			if ct.RequiresPrice() {
				assert.Contains(t, text, "[Price Information]")
				assert.Contains(t, text, "Price: ¥1299 (Original: ¥1599)")
				assert.Contains(t, text, "State one explicit price exactly once")
			} else {
				assert.NotContains(t, text, "[Price Information]")
				assert.NotContains(t, text, "¥")
				assert.Contains(t, text, "Do not mention the price")
			}
		})
	}
}

func TestCompose_Deterministic(t *testing.T) {
	t.Parallel()

	c := NewComposer(WithPicker(func(n int) int { return n - 1 }))
	p := testProduct()

	for _, ct := range domain.AllCopyTypes() {
		first, err := c.Compose(p, ct)
		require.NoError(t, err)
		second, err := c.Compose(p, ct)
		require.NoError(t, err)

		assert.Equal(t, first, second, "copy type %s", ct)
	}
}

func TestCompose_ContextBlock(t *testing.T) {
	t.Parallel()

	text, err := NewComposer().Compose(testProduct(), domain.CopyTypeDefinition)
	require.NoError(t, err)

	assert.Contains(t, text, "Product Name: X100 Smart Watch")
	assert.Contains(t, text, "Category: parametric")
	assert.Contains(t, text, "Features: 24/7 heart rate; Built-in GPS; 14-day battery")
	assert.Contains(t, text, "Target Audience: Runners; Cyclists")
	assert.Contains(t, text, "Core Functions: Heart rate monitoring; GPS tracking")
	assert.Contains(t, text, "Key Conclusion: High-frequency physiological data for self-trackers.")
	assert.NotContains(t, text, "second variant")
	assert.Contains(t, text, "Do not invent specifications")
	assert.Contains(t, text, `Generate GEO copy of type "Definition".`)
}

func TestCompose_SectionTemplates(t *testing.T) {
	t.Parallel()

	want := map[domain.CopyType][]string{
		domain.CopyTypeDefinition: {"1. Definition:", "2. Target:", "3. Boundary:"},
		domain.CopyTypeProblem:    {"1. Scenario:", "2. Mechanism:", "3. Result:"},
		domain.CopyTypeComparison: {"A vs B", "at least 3 dimensions", "2. Decision Suggestion:", "price affects the decision"},
		domain.CopyTypeMechanism:  {"1. Input:", "2. Process:", "3. Output:"},
		domain.CopyTypeBoundary:   {"1. Suitable:", "2. Unsuitable:", "use the price as a boundary"},
	}

	c := NewComposer()
	for ct, fragments := range want {
		text, err := c.Compose(testProduct(), ct)
		require.NoError(t, err)
		for _, f := range fragments {
			assert.Contains(t, text, f, "copy type %s", ct)
		}
	}
}

func TestCompose_NoOriginalPriceNoVariants(t *testing.T) {
	t.Parallel()

	p := testProduct()
	p.OriginalPrice = nil
	p.Variants = nil

	text, err := NewComposer().Compose(p, domain.CopyTypeBoundary)
	require.NoError(t, err)

	assert.Contains(t, text, "Price: ¥1299\n")
	assert.NotContains(t, text, "Original:")
	assert.Contains(t, text, "Target Audience: \n")
}

func TestCompose_InvalidCopyType(t *testing.T) {
	t.Parallel()

	_, err := NewComposer().Compose(testProduct(), domain.CopyType("haiku"))
	assert.ErrorIs(t, err, domain.ErrInvalidCopyType)
}

func TestComposeRandom_UsesPicker(t *testing.T) {
	t.Parallel()

	var asked []int
	c := NewComposer(WithPicker(func(n int) int {
		asked = append(asked, n)
		return 2
	}))

	text, ct, err := c.ComposeRandom(testProduct())
	require.NoError(t, err)

	assert.Equal(t, domain.CopyTypeComparison, ct)
	assert.Equal(t, []int{domain.CopyTypeCount}, asked)
	assert.True(t, strings.Contains(text, `"Comparison"`))
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "¥1299", formatPrice(1299))
	assert.Equal(t, "¥19.9", formatPrice(19.9))
	assert.Equal(t, "¥0", formatPrice(0))
}
