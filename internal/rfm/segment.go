package rfm

import "vorp/rfm-csv/internal/models"

// SegmentRule assigns Segment to every (r, f) score pair it matches.
type SegmentRule struct {
	Segment string
	Match   func(r, f int) bool
}

func in(v int, set ...int) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

// SegmentRules is evaluated top to bottom; the first matching rule wins.
// For scores inside 1-5, "Cannot Lose Them" is shadowed by "At Risk" and
// "Lost" is never reached.
var SegmentRules = []SegmentRule{
	{models.SegmentChampions, func(r, f int) bool { return in(r, 4, 5) && in(f, 4, 5) }},
	{models.SegmentLoyalCustomers, func(r, f int) bool { return in(r, 3, 4, 5) && in(f, 3, 4, 5) }},
	{models.SegmentPotentialLoyalist, func(r, f int) bool { return in(r, 4, 5) && in(f, 2, 3) }},
	{models.SegmentNewCustomers, func(r, f int) bool { return in(r, 4, 5) && f == 1 }},
	{models.SegmentPromising, func(r, f int) bool { return in(r, 3, 4) && f == 1 }},
	{models.SegmentNeedAttention, func(r, f int) bool { return in(r, 2, 3) && in(f, 2, 3) }},
	{models.SegmentAboutToSleep, func(r, f int) bool { return in(r, 2, 3) && in(f, 1, 2) }},
	{models.SegmentAtRisk, func(r, f int) bool { return in(r, 1, 2) && f >= 2 }},
	{models.SegmentCannotLoseThem, func(r, f int) bool { return r == 1 && in(f, 4, 5) }},
	{models.SegmentHibernating, func(r, f int) bool { return in(r, 1, 2) }},
	{models.SegmentLost, func(r, f int) bool { return true }},
}

// Classify maps a recency/frequency score pair to its segment name.
func Classify(r, f int) string {
	for _, rule := range SegmentRules {
		if rule.Match(r, f) {
			return rule.Segment
		}
	}
	return models.SegmentLost
}
