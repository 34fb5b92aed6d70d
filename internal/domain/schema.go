package domain

// FlagKind distinguishes boolean toggles from 1-5 ratings.
type FlagKind string

// Flag kinds.
const (
	FlagKindToggle FlagKind = "toggle"
	FlagKindRating FlagKind = "rating"
)

// Flag keys referenced by the schema and the smart views.
// These are the wire-level keys stored in Item.Flags / Item.Metadata,
// so they must never be renamed once data exists.
const (
	FlagHasBeenCooked  = "hasBeenCooked"
	FlagHasRead        = "hasRead"
	FlagHasWatched     = "hasWatched"
	FlagHasListened    = "hasListened"
	FlagHasBought      = "hasBought"
	FlagHasVisited     = "hasVisited"
	FlagHasReviewed    = "hasReviewed"
	FlagWantToPurchase = "wantToPurchase"
	FlagRating         = "rating"
)

// FlagDefinition describes one status flag a category supports.
// Definitions are configuration, not data - they are never persisted.
type FlagDefinition struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
	Kind  FlagKind `json:"kind"`
}

// DisplayInfo holds category display metadata for clients.
type DisplayInfo struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// categorySchema pairs a category's display metadata with its ordered flag list.
type categorySchema struct {
	display DisplayInfo
	flags   []FlagDefinition
}

// categorySchemas is the static schema registry. Order within each flag list
// is the order clients render the flags in.
var categorySchemas = map[Category]categorySchema{
	CategoryRecipe: {
		display: DisplayInfo{Icon: "fork.knife", Color: "orange"},
		flags: []FlagDefinition{
			{Key: FlagHasBeenCooked, Label: "Cooked it", Icon: "frying.pan", Kind: FlagKindToggle},
			{Key: FlagRating, Label: "Rating", Icon: "star", Kind: FlagKindRating},
		},
	},
	CategoryBook: {
		display: DisplayInfo{Icon: "book.closed", Color: "brown"},
		flags: []FlagDefinition{
			{Key: FlagHasBought, Label: "Own it", Icon: "bag", Kind: FlagKindToggle},
			{Key: FlagHasRead, Label: "Finished reading", Icon: "checkmark.circle", Kind: FlagKindToggle},
			{Key: FlagRating, Label: "Rating", Icon: "star", Kind: FlagKindRating},
		},
	},
	CategoryMovie: {
		display: DisplayInfo{Icon: "film", Color: "indigo"},
		flags: []FlagDefinition{
			{Key: FlagHasWatched, Label: "Watched it", Icon: "eye", Kind: FlagKindToggle},
			{Key: FlagRating, Label: "Rating", Icon: "star", Kind: FlagKindRating},
		},
	},
	CategoryMusic: {
		display: DisplayInfo{Icon: "music.note", Color: "pink"},
		flags: []FlagDefinition{
			{Key: FlagWantToPurchase, Label: "Want to buy", Icon: "cart", Kind: FlagKindToggle},
			{Key: FlagHasBought, Label: "Bought it", Icon: "bag", Kind: FlagKindToggle},
			{Key: FlagHasListened, Label: "Listened", Icon: "headphones", Kind: FlagKindToggle},
		},
	},
	CategoryClothes: {
		display: DisplayInfo{Icon: "tshirt", Color: "teal"},
		flags: []FlagDefinition{
			{Key: FlagWantToPurchase, Label: "Want to buy", Icon: "cart", Kind: FlagKindToggle},
			{Key: FlagHasBought, Label: "Bought it", Icon: "bag", Kind: FlagKindToggle},
		},
	},
	CategoryHome: {
		display: DisplayInfo{Icon: "house", Color: "green"},
		flags: []FlagDefinition{
			{Key: FlagWantToPurchase, Label: "Want to buy", Icon: "cart", Kind: FlagKindToggle},
			{Key: FlagHasBought, Label: "Bought it", Icon: "bag", Kind: FlagKindToggle},
		},
	},
	CategoryArticle: {
		display: DisplayInfo{Icon: "doc.text", Color: "blue"},
		flags: []FlagDefinition{
			{Key: FlagHasRead, Label: "Read it", Icon: "checkmark.circle", Kind: FlagKindToggle},
		},
	},
	CategoryPodcast: {
		display: DisplayInfo{Icon: "mic", Color: "purple"},
		flags: []FlagDefinition{
			{Key: FlagHasListened, Label: "Listened", Icon: "headphones", Kind: FlagKindToggle},
		},
	},
	CategoryTrip: {
		display: DisplayInfo{Icon: "airplane", Color: "cyan"},
		flags: []FlagDefinition{
			{Key: FlagHasVisited, Label: "Visited", Icon: "mappin", Kind: FlagKindToggle},
			{Key: FlagRating, Label: "Rating", Icon: "star", Kind: FlagKindRating},
		},
	},
	CategoryBackpack: {
		display: DisplayInfo{Icon: "backpack", Color: "mint"},
		flags: []FlagDefinition{
			{Key: FlagHasReviewed, Label: "Reviewed", Icon: "checkmark.seal", Kind: FlagKindToggle},
			{Key: FlagRating, Label: "Rating", Icon: "star", Kind: FlagKindRating},
		},
	},
}

// FlagsFor returns the ordered flag definitions for a category.
// The returned slice is a copy; callers may mutate it freely.
func FlagsFor(c Category) []FlagDefinition {
	schema := categorySchemas[c]
	out := make([]FlagDefinition, len(schema.flags))
	copy(out, schema.flags)
	return out
}

// DisplayInfoFor returns display metadata for a category.
func DisplayInfoFor(c Category) DisplayInfo {
	return categorySchemas[c].display
}
