package domain

import "slices"

// AllStates is the pseudo-region that selects the national series.
const AllStates = "All States"

// GroupByRegion partitions normalized records by region, keeping each group
// in the relative order of the input. Records without a region belong to the
// national series and are left out.
func GroupByRegion(records []Record) Grouping {
	g := make(Grouping)
	for _, r := range records {
		if r.Region == "" {
			continue
		}
		g[r.Region] = append(g[r.Region], r)
	}
	return g
}

// Regions returns the grouping's region codes in lexicographic order.
func (g Grouping) Regions() []string {
	regions := make([]string, 0, len(g))
	for region := range g {
		regions = append(regions, region)
	}
	slices.Sort(regions)
	return regions
}

// RegionNames is the selectable list shown to users: AllStates followed by
// the sorted region codes.
func RegionNames(g Grouping) []string {
	return append([]string{AllStates}, g.Regions()...)
}

// Select returns the series for name. AllStates selects the national series,
// and so does any name missing from the grouping.
func Select(name string, g Grouping, national []Record) []Record {
	if ResolveRegion(name, g) == AllStates {
		return national
	}
	return g[name]
}

// ResolveRegion returns the region Select actually serves for name: name
// itself when the grouping has it, AllStates otherwise.
func ResolveRegion(name string, g Grouping) string {
	if _, ok := g[name]; ok {
		return name
	}
	return AllStates
}
