package pallet

import "cloud.google.com/go/civil"

// ExpirationGroup is a run of pallets sharing one expiration date.
type ExpirationGroup struct {
	ExpirationDate civil.Date
	Pallets        []*Pallet
}

// GroupByExpiration splits pallets into consecutive runs with equal
// expiration dates. Input order is preserved, so callers pass pallets already
// sorted by expiration. Pallets without an expiration date are skipped.
func GroupByExpiration(pallets []*Pallet) []ExpirationGroup {
	var groups []ExpirationGroup
	for _, p := range pallets {
		exp, ok := p.ExpirationDate()
		if !ok {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].ExpirationDate == exp {
			groups[n-1].Pallets = append(groups[n-1].Pallets, p)
			continue
		}
		groups = append(groups, ExpirationGroup{ExpirationDate: exp, Pallets: []*Pallet{p}})
	}
	return groups
}
