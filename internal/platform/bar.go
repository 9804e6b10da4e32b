package platform

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

func NewProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Verifying endpoints"),
		progressbar.OptionSetItsString("check"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish())
	return bar
}
