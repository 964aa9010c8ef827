package components

import (
	"time"

	"github.com/Rorical/RoriTwitch/internal/twitch"
)

var CategoryErrorLines = []string{
	"Failed to search categories.",
	"Check your connection and that your token is still valid.",
	"",
	"Hit ESC to dismiss this error.",
}

// CategoryWidget searches stream categories by the typed query. A
// selection carries the category name.
type CategoryWidget struct {
	*SearchWidget[twitch.Category]
}

func NewCategoryWidget(source ItemSource[twitch.Category], timeout time.Duration) *CategoryWidget {
	return &CategoryWidget{
		SearchWidget: NewSearchWidget(SearchConfig[twitch.Category]{
			Title:       "Category",
			Placeholder: "type a name, enter to search",
			Source:      source,
			Display:     twitch.Category.String,
			ErrorLines:  CategoryErrorLines,
			Timeout:     timeout,
		}),
	}
}
