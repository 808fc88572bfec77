package viewer

import (
	"fmt"
	"strings"

	"github.com/jengzang/photomap-backend-go/internal/models"
)

// NoImagesText is shown in place of metadata when the dataset is empty
const NoImagesText = "No images loaded"

// FormatMetadata renders the metadata pane as markdown
func FormatMetadata(meta *models.Metadata) string {
	if meta == nil {
		return NoImagesText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Image %d**\n", meta.Index+1)
	fmt.Fprintf(&b, "- Lon: %.6f\n", meta.Longitude)
	fmt.Fprintf(&b, "- Lat: %.6f\n", meta.Latitude)
	fmt.Fprintf(&b, "- File: %s\n", meta.Path)
	if meta.SegmentCount > 0 {
		fmt.Fprintf(&b, "- Segments: %d", meta.SegmentCount)
	} else {
		b.WriteString("- Segments: None")
	}
	return b.String()
}

// FormatConfidence renders a 0~1 confidence as a whole percentage
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}
