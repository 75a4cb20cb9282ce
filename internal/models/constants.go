package models

// Segment names, in classification rule order
const (
	SegmentChampions         = "Champions"
	SegmentLoyalCustomers    = "Loyal Customers"
	SegmentPotentialLoyalist = "Potential Loyalist"
	SegmentNewCustomers      = "New Customers"
	SegmentPromising         = "Promising"
	SegmentNeedAttention     = "Need Attention"
	SegmentAboutToSleep      = "About To Sleep"
	SegmentAtRisk            = "At Risk"
	SegmentCannotLoseThem    = "Cannot Lose Them"
	SegmentHibernating       = "Hibernating"
	SegmentLost              = "Lost"
)

// Score bounds
const (
	MinScore = 1
	MaxScore = 5
)

// Fallback display values
const (
	DefaultSalesperson = "N/A"
	CustomerNamePrefix = "Cliente "
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)

// SegmentNames returns all segment names in classification rule order.
func SegmentNames() []string {
	return []string{
		SegmentChampions,
		SegmentLoyalCustomers,
		SegmentPotentialLoyalist,
		SegmentNewCustomers,
		SegmentPromising,
		SegmentNeedAttention,
		SegmentAboutToSleep,
		SegmentAtRisk,
		SegmentCannotLoseThem,
		SegmentHibernating,
		SegmentLost,
	}
}
