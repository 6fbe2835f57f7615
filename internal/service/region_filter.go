package service

import "strings"

// RegionFilterKind identifies which single predicate governs a discovery
// query. Finer-grained regions win over coarser ones so that a request
// carrying several region labels never turns into an ambiguous AND of
// filters.
type RegionFilterKind int

const (
	FilterNone RegionFilterKind = iota
	FilterNameOnly
	FilterProvince
	FilterDistrict
	FilterSector
	FilterCell
	FilterVillage
)

// String returns the store column name for region kinds, or a label for the
// non-region kinds.
func (k RegionFilterKind) String() string {
	switch k {
	case FilterVillage:
		return "village"
	case FilterCell:
		return "cell"
	case FilterSector:
		return "sector"
	case FilterDistrict:
		return "district"
	case FilterProvince:
		return "province"
	case FilterNameOnly:
		return "name"
	default:
		return "none"
	}
}

// DiscoveryFilters carries the optional region labels and name substring of
// a discovery request, before resolution.
type DiscoveryFilters struct {
	Province string
	District string
	Sector   string
	Cell     string
	Village  string
	Name     string
}

// RegionFilter is the resolved single predicate. For region kinds, Field is
// the store column and Value the label to match (case-insensitive exact).
// Name carries the substring for kinds that search by business name.
type RegionFilter struct {
	Kind  RegionFilterKind
	Field string
	Value string
	Name  string
}

// ResolveFilter selects exactly one predicate from the request filters,
// applying the priority village > cell > sector > district > province >
// name-only > none. The name substring rides along with a region filter so
// combined name+region queries stay a single store predicate.
func ResolveFilter(f DiscoveryFilters) RegionFilter {
	name := strings.TrimSpace(f.Name)

	regions := []struct {
		kind  RegionFilterKind
		value string
	}{
		{FilterVillage, f.Village},
		{FilterCell, f.Cell},
		{FilterSector, f.Sector},
		{FilterDistrict, f.District},
		{FilterProvince, f.Province},
	}
	for _, r := range regions {
		if v := strings.TrimSpace(r.value); v != "" {
			return RegionFilter{Kind: r.kind, Field: r.kind.String(), Value: v, Name: name}
		}
	}

	if name != "" {
		return RegionFilter{Kind: FilterNameOnly, Name: name}
	}
	return RegionFilter{Kind: FilterNone}
}
