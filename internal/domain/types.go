package domain

// Item is a category of collectible waste. Items are seeded reference data.
type Item struct {
	ID    int64
	Title string
	Image string
}

// Point is a registered waste-collection location.
type Point struct {
	ID        int64
	Image     string
	Name      string
	Email     string
	WhatsApp  string
	Latitude  float64
	Longitude float64
	City      string
	UF        string
}

// PointFilter narrows a point listing. Empty City and UF match everything;
// a non-empty ItemIDs keeps points accepting at least one of the items.
type PointFilter struct {
	City    string
	UF      string
	ItemIDs []int64
}

// PointDetail is a point together with the titles of the items it accepts.
type PointDetail struct {
	Point      *Point
	ItemTitles []string
}
