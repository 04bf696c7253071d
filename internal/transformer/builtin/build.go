// Package builtin holds the cleaning rules of the order pipeline and the
// constructor that assembles them from a config.Pipeline.
package builtin

import (
	"ordersql/internal/config"
	"ordersql/internal/transformer"
)

// FromConfig builds the cleaning chain for p. The order is fixed: sanitize
// the header, fix emails, coerce ids and prices, normalize dates, then
// rename and project onto the target columns.
func FromConfig(p config.Pipeline) transformer.Chain {
	policy := p.Policy
	if policy == "" {
		policy = config.PolicyStrict
	}
	return transformer.Chain{
		Policy: policy,
		Rules: []transformer.Rule{
			SanitizeColumns{Protect: protected(p)},
			Replace{Column: p.Columns.Email, Old: p.Email.Old, New: p.Email.New},
			ParseInt{Column: p.Columns.OrderID, Strip: p.OrderID.Strip},
			ParseFloat{Column: p.Columns.Price, Strip: p.Price.Strip, Places: p.Price.Places},
			ParseDate{Column: p.Columns.Date, DayFirst: p.Date.DayFirst, Layout: p.Date.Layout},
			RenameProject{Renames: p.Renames, Columns: p.Target.Names()},
		},
	}
}

// protected lists the column names the chain reads or writes; a header
// collision on any of them is an error.
func protected(p config.Pipeline) []string {
	c := p.Columns
	names := []string{c.Name, c.Email, c.OrderID, c.Price, c.Date}
	for _, r := range p.Renames {
		names = append(names, r.From, r.To)
	}
	return append(names, p.Target.Names()...)
}
