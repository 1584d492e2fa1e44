package extract

import (
	"fmt"
	"time"
)

// Kind classifies the outcome of one file. Every failure kind is contained
// in its Result; none propagate to the dispatcher.
type Kind string

const (
	KindSuccess        Kind = "success"
	KindTableMissing   Kind = "table-missing"
	KindSymbolNotFound Kind = "symbol-not-found"
	KindToolFailure    Kind = "tool-failure"
	KindNoOutput       Kind = "no-output"
	KindUnexpected     Kind = "unexpected"
	KindInterrupted    Kind = "interrupted"
	KindDryRun         Kind = "dry-run"
)

// Kinds lists every kind in summary display order.
var Kinds = []Kind{
	KindSuccess,
	KindDryRun,
	KindTableMissing,
	KindSymbolNotFound,
	KindToolFailure,
	KindNoOutput,
	KindUnexpected,
	KindInterrupted,
}

// Result is the per-file outcome reported back to the dispatcher.
type Result struct {
	Source  string // Input .swf path.
	Stem    string
	Kind    Kind
	Message string
	Output  string // <output>/<stem>.png on success.
	Command []string
	Width   int // Decoded PNG size; zero when the header could not be read.
	Height  int
	Elapsed time.Duration
	Err     error
}

// OK reports whether the file counts toward the success tally.
func (r Result) OK() bool {
	return r.Kind == KindSuccess || r.Kind == KindDryRun
}

func newResult(source, stem string, kind Kind, err error) Result {
	r := Result{Source: source, Stem: stem, Kind: kind, Err: err}
	switch kind {
	case KindTableMissing:
		r.Message = "symbol table missing " + stem
	case KindSymbolNotFound:
		r.Message = "no item symbol " + stem
	case KindNoOutput:
		r.Message = "no PNG produced " + stem
	case KindInterrupted:
		r.Message = "interrupted " + stem
	case KindSuccess:
		r.Message = "exported " + stem
	default:
		r.Message = fmt.Sprintf("error %s: %v", stem, err)
	}
	return r
}
