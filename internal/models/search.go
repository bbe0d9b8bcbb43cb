package models

// SearchCriteria is the attribute filter for provider search. Approved
// providers only; there is no switch to include unapproved ones.
type SearchCriteria struct {
	Service       string
	MinRating     float64
	AvailableOnly bool
	Skip          int
	Limit         int
}

// RankedSearchRequest composes attribute filtering with geodistance
// ranking and the optional price/rating post-processing.
type RankedSearchRequest struct {
	SearchCriteria
	Location      string
	MaxDistanceKm float64
	MaxPrice      float64
	SortBy        string // distance, rating, price
}
