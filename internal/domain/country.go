package domain

// Country is identified by its unique name; the numeric id exists for
// reference from access edges. Immutable once created.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"country_name"`
}

// AccessEdge is a directed relation meaning a trip combining the source and
// accessible country is considered feasible. Accessibility is one
// directional and single hop: no symmetry, reflexivity, or transitive
// closure is implied.
type AccessEdge struct {
	ID                int64  `json:"id"`
	SourceCountry     string `json:"source_country"`
	AccessibleCountry string `json:"accessible_country"`
}
