package provision

import (
	"io"

	"github.com/fatih/color"
)

// logToStream writes colored messages to the output stream
func logToStream(stream io.Writer, message string, colorAttr color.Attribute) {
	if stream != nil {
		c := color.New(colorAttr)
		c.Fprintln(stream, message)
	}
}
