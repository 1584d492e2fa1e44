// Package report writes and reads the optional JSON run report. The
// document is assembled with sjson and queried with gjson so either side
// can evolve without a shared Go struct.
package report

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/backmassage/swfsprite/internal/extract"
)

// Version is written as "version" and checked on read.
const Version = 1

// ErrInvalid is returned for data that is not a run report.
var ErrInvalid = errors.New("not a swfsprite report")

// Run is the input to [Marshal].
type Run struct {
	Started time.Time
	Elapsed time.Duration
	Total   int
	Results []extract.Result
}

type entry struct {
	Stem      string `json:"stem"`
	Source    string `json:"source"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Output    string `json:"output,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// Marshal renders run as a JSON document.
func Marshal(run Run) ([]byte, error) {
	succeeded := 0
	for _, r := range run.Results {
		if r.OK() {
			succeeded++
		}
	}

	doc := []byte(`{}`)
	var err error
	set := func(path string, v interface{}) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, v)
		}
	}

	set("version", Version)
	set("started", run.Started.UTC().Format(time.RFC3339))
	set("elapsed_seconds", math.Round(run.Elapsed.Seconds()*10)/10)
	set("total", run.Total)
	set("succeeded", succeeded)
	set("failed", len(run.Results)-succeeded)
	if err == nil {
		doc, err = sjson.SetRawBytes(doc, "results", []byte(`[]`))
	}
	for _, r := range run.Results {
		e := entry{
			Stem:      r.Stem,
			Source:    r.Source,
			Kind:      string(r.Kind),
			Message:   r.Message,
			Output:    r.Output,
			Width:     r.Width,
			Height:    r.Height,
			ElapsedMs: r.Elapsed.Milliseconds(),
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		set("results.-1", e)
	}
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return doc, nil
}

// Write marshals run to path, creating parent directories.
func Write(path string, run Run) error {
	doc, err := Marshal(run)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, doc, 0o644)
}

// Summary is what [Summarize] extracts from a report.
type Summary struct {
	Started        string
	ElapsedSeconds float64
	Total          int
	Succeeded      int
	Failed         int
	ByKind         map[string]int
	Outputs        []string // Output paths of successful results.
	Failures       []string // Messages of failed results, in report order.
}

// Summarize reads a report document and tallies results by kind.
func Summarize(data []byte) (Summary, error) {
	if !gjson.ValidBytes(data) {
		return Summary{}, fmt.Errorf("%w: malformed JSON", ErrInvalid)
	}
	root := gjson.ParseBytes(data)
	if v := root.Get("version"); !v.Exists() || v.Int() != Version {
		return Summary{}, fmt.Errorf("%w: unsupported version %q", ErrInvalid, v.Raw)
	}

	s := Summary{
		Started:        root.Get("started").String(),
		ElapsedSeconds: root.Get("elapsed_seconds").Float(),
		Total:          int(root.Get("total").Int()),
		Succeeded:      int(root.Get("succeeded").Int()),
		Failed:         int(root.Get("failed").Int()),
		ByKind:         make(map[string]int),
	}

	root.Get("results").ForEach(func(_, r gjson.Result) bool {
		kind := r.Get("kind").String()
		s.ByKind[kind]++
		switch extract.Kind(kind) {
		case extract.KindSuccess, extract.KindDryRun:
		default:
			s.Failures = append(s.Failures, r.Get("message").String())
		}
		return true
	})

	for _, o := range root.Get(`results.#(kind=="success")#.output`).Array() {
		s.Outputs = append(s.Outputs, o.String())
	}
	return s, nil
}

// Read loads and summarizes the report at path.
func Read(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(data)
}
