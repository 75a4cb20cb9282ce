package store

import (
	"regexp"

	"vorp/rfm-csv/internal/models"
)

// FallbackColor is used for segment names the catalog does not know.
const FallbackColor = "#64748b"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SegmentInfo is the display information of one segment.
type SegmentInfo struct {
	Name        string `yaml:"name" json:"name"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Color       string `yaml:"color" json:"color"`
	Description string `yaml:"description" json:"description"`
}

// SegmentCatalog maps segment names to their display information, keeping
// classification rule order.
type SegmentCatalog struct {
	order   []string
	entries map[string]SegmentInfo
}

var defaultSegments = []SegmentInfo{
	{models.SegmentChampions, "Campeões", "#10b981", "Bought recently, buy often and spend the most."},
	{models.SegmentLoyalCustomers, "Clientes Leais", "#3b82f6", "Spend well and respond to promotions."},
	{models.SegmentPotentialLoyalist, "Lealdade Potencial", "#6366f1", "Recent customers who already spent a good amount."},
	{models.SegmentNewCustomers, "Novos Clientes", "#a855f7", "Bought recently, but not often."},
	{models.SegmentPromising, "Promissores", "#ec4899", "Recent buyers who have not spent much yet."},
	{models.SegmentNeedAttention, "Precisam de Atenção", "#f59e0b", "Above average recency, frequency and monetary values."},
	{models.SegmentAboutToSleep, "Prestes a Dormir", "#f97316", "Below average recency and frequency. They will be lost without action."},
	{models.SegmentAtRisk, "Em Risco", "#ef4444", "Spent a lot and bought often, but have not come back in a while."},
	{models.SegmentCannotLoseThem, "Não Podemos Perder", "#7c3aed", "Made big purchases often, but have not come back in a long time."},
	{models.SegmentHibernating, "Hibernando", "#64748b", "Last purchase was long ago and the number of orders is low."},
	{models.SegmentLost, "Perdidos", "#1e293b", "Lowest recency, frequency and monetary scores."},
}

// DefaultCatalog returns the built-in catalog of the eleven segments.
func DefaultCatalog() *SegmentCatalog {
	c := &SegmentCatalog{entries: make(map[string]SegmentInfo, len(defaultSegments))}
	for _, info := range defaultSegments {
		c.order = append(c.order, info.Name)
		c.entries[info.Name] = info
	}
	return c
}

// Lookup returns the information for a segment name.
func (c *SegmentCatalog) Lookup(name string) (SegmentInfo, bool) {
	info, ok := c.entries[name]
	return info, ok
}

// Color returns the hex color of a segment, FallbackColor when unknown.
func (c *SegmentCatalog) Color(name string) string {
	if info, ok := c.entries[name]; ok && info.Color != "" {
		return info.Color
	}
	return FallbackColor
}

// Description returns the description of a segment, empty when unknown.
func (c *SegmentCatalog) Description(name string) string {
	return c.entries[name].Description
}

// All returns every entry in catalog order.
func (c *SegmentCatalog) All() []SegmentInfo {
	out := make([]SegmentInfo, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name])
	}
	return out
}

// Len returns the number of entries.
func (c *SegmentCatalog) Len() int {
	return len(c.order)
}

// override merges non-empty fields of info into the entry of the same name.
// It reports false when the name is not a known segment.
func (c *SegmentCatalog) override(info SegmentInfo) bool {
	current, ok := c.entries[info.Name]
	if !ok {
		return false
	}
	if info.Label != "" {
		current.Label = info.Label
	}
	if info.Color != "" {
		current.Color = info.Color
	}
	if info.Description != "" {
		current.Description = info.Description
	}
	c.entries[info.Name] = current
	return true
}
