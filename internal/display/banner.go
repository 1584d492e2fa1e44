package display

import (
	"fmt"
	"io"

	"github.com/backmassage/swfsprite/internal/term"
)

const banner = `               __                       _ _
 _____      __/ _|___ _ __  _ __(_) |_ ___
/ __\ \ /\ / / |_/ __| '_ \| '__| | __/ _ \
\__ \\ V  V /|  _\__ \ |_) | |  | | ||  __/
|___/ \_/\_/ |_| |___/ .__/|_|  |_|\__\___|
                     |_|`

// PrintBanner writes the ASCII banner to w, in magenta when colors are on.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Paint(term.Magenta, banner))
}
