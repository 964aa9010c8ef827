package components

import (
	"github.com/Rorical/RoriTwitch/ui/styles"
)

func RenderInput(view string, width int) string {
	return styles.InputStyle(width).Render(view)
}
