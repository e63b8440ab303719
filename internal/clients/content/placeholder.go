package content

import "fmt"

const placeholderURL = "https://dummyimage.com/%s/1e293b/94a3b8.png&text=Image+Unavailable"

// PlaceholderImage is the image reference used whenever generation is off
// or failed. It depends only on the aspect.
func PlaceholderImage(aspect Aspect) string {
	dimensions := "512x512"
	if aspect == AspectWide {
		dimensions = "1024x576"
	}
	return fmt.Sprintf(placeholderURL, dimensions)
}
