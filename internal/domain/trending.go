package domain

// TrendingLimit is how many movies a trending list holds.
const TrendingLimit = 10

// TrendingEntry is one movie title with the total quantity ordered.
type TrendingEntry struct {
	Title string `json:"title" db:"title"`
	Count int64  `json:"count" db:"count"`
}

// Trending is the response of a trending query for one region (or global).
type Trending struct {
	Region Region           `json:"region"`
	Top    []*TrendingEntry `json:"top"`
}

// PopularityMap holds trending lists keyed by region, global included.
type PopularityMap struct {
	Regions map[Region][]*TrendingEntry `json:"regions"`
}
