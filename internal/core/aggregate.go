// Package core holds the chama domain types and the in-memory aggregation
// applied to row sets coming back from storage: contribution totals for the
// member dashboard and the member/contribution grouping for the admin listing.
package core

import "github.com/shopspring/decimal"

// TotalContributions sums the amounts of a contribution set. Decimal
// arithmetic keeps the sum exact regardless of the set's size or order.
func TotalContributions(history []Contribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range history {
		total = total.Add(c.Amount)
	}
	return total
}

// FormatTotal renders a monetary total with exactly two fractional digits.
func FormatTotal(total decimal.Decimal) string {
	return total.StringFixed(2)
}

// GroupByMember folds the flat members-with-contributions join rows into one
// entry per distinct member, in the order members are first encountered. The
// row stream arrives pre-sorted by member id then contribution recency
// descending, so contributions are appended in arrival order and each entry's
// list is already most-recent-first. Members whose join key was NULL get an
// empty (not nil) list.
func GroupByMember(rows []MemberContributionRow) []MemberContributions {
	entries := make([]MemberContributions, 0)
	index := make(map[int64]int)

	for _, row := range rows {
		i, seen := index[row.MemberID]
		if !seen {
			entries = append(entries, MemberContributions{
				ID:            row.MemberID,
				FullName:      row.FullName,
				Phone:         row.Phone,
				IsAdmin:       row.IsAdmin,
				PhotoURL:      row.PhotoURL,
				Contributions: []Contribution{},
			})
			i = len(entries) - 1
			index[row.MemberID] = i
		}
		if row.Contribution != nil {
			entries[i].Contributions = append(entries[i].Contributions, *row.Contribution)
		}
	}

	return entries
}
