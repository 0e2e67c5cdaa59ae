package aggregator

import (
	"strings"

	"pocketledger/internal/domain"
)

// Style is the icon and color a row is drawn with.
type Style struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var (
	// FallbackStyle is used when neither the user's categories nor the defaults know the name.
	FallbackStyle = Style{Icon: "pricetag", Color: "#78909C"}
	// TransferStyle is shared by every transfer row.
	TransferStyle = Style{Icon: "swap-horizontal", Color: "#5C6BC0"}
)

// defaultStyles covers the well-known category names so rows keep a sensible look after their
// category is deleted.
var defaultStyles = map[string]Style{
	"food":          {Icon: "fast-food", Color: "#FF7043"},
	"transport":     {Icon: "car", Color: "#42A5F5"},
	"shopping":      {Icon: "cart", Color: "#AB47BC"},
	"bills":         {Icon: "receipt", Color: "#EF5350"},
	"entertainment": {Icon: "game-controller", Color: "#FFCA28"},
	"health":        {Icon: "medkit", Color: "#66BB6A"},
	"education":     {Icon: "school", Color: "#5C6BC0"},
	"salary":        {Icon: "cash", Color: "#26A69A"},
	"business":      {Icon: "briefcase", Color: "#8D6E63"},
	"gift":          {Icon: "gift", Color: "#EC407A"},
	"investment":    {Icon: "trending-up", Color: "#29B6F6"},
	"other":         {Icon: "ellipsis-horizontal", Color: "#9E9E9E"},
}

// DefaultStyle looks up the static table by category name.
func DefaultStyle(name string) (Style, bool) {
	s, ok := defaultStyles[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// ResolveStyle picks the style for an entry. User categories win over global ones, then the
// static defaults, then FallbackStyle.
func ResolveStyle(categories []domain.Category, name string, kind domain.Kind) Style {
	var global *domain.Category
	for i := range categories {
		c := &categories[i]
		if !c.Matches(name, kind) {
			continue
		}
		if !c.IsGlobal() {
			return styleOf(c)
		}
		if global == nil {
			global = c
		}
	}
	if global != nil {
		return styleOf(global)
	}
	if s, ok := DefaultStyle(name); ok {
		return s
	}
	return FallbackStyle
}

func styleOf(c *domain.Category) Style {
	s := Style{Icon: c.Icon, Color: c.Color}
	if s.Icon == "" {
		s.Icon = FallbackStyle.Icon
	}
	if s.Color == "" {
		s.Color = FallbackStyle.Color
	}
	return s
}
