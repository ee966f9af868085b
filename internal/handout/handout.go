// Package handout defines the step-by-step document produced from a
// curated frame sequence and the binding to the generation capability.
package handout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/garyaschafer/vid-handout/internal/frame"
)

// ErrGenerationFailed means the generation call failed, returned nothing,
// or returned a payload that does not match the schema. A partially
// populated document is never returned.
var ErrGenerationFailed = errors.New("handout generation failed")

// Step is one instruction in the handout.
type Step struct {
	StepNumber  int    `json:"stepNumber"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tip         string `json:"tip,omitempty"`
}

// Document is the structured handout.
type Document struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Steps   []Step `json:"steps"`
}

// Generator produces a Document from an ordered list of JPEG images.
type Generator interface {
	GenerateHandout(ctx context.Context, images [][]byte) (*Document, error)
}

// Generate submits frames to the generator, reordering them by timestamp
// first; callers might hand the curated set over out of order, and the
// n-th step is assumed to correspond to the n-th frame chronologically.
// The reordered frames are returned alongside the document so display
// code zips steps to the same sequence that was submitted.
func Generate(ctx context.Context, g Generator, frames []frame.Frame) (*Document, []frame.Frame, error) {
	ordered := append([]frame.Frame(nil), frames...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	images := make([][]byte, len(ordered))
	for i, f := range ordered {
		images[i] = f.Image
	}

	doc, err := g.GenerateHandout(ctx, images)
	if err != nil {
		return nil, nil, errors.Join(ErrGenerationFailed, err)
	}
	if doc == nil || len(doc.Steps) == 0 {
		return nil, nil, ErrGenerationFailed
	}
	return doc, ordered, nil
}

// ParseDocument strictly parses a generation payload. Anything missing or
// malformed fails; the caller decides whether to retry.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if doc.Title == "" {
		return nil, errors.New("payload missing title")
	}
	if len(doc.Steps) == 0 {
		return nil, errors.New("payload has no steps")
	}
	for i, s := range doc.Steps {
		if s.Description == "" {
			return nil, fmt.Errorf("step %d missing description", i+1)
		}
	}
	return &doc, nil
}

// WriteDocument saves the handout as indented JSON.
func WriteDocument(path string, doc *Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode handout: %w", err)
	}
	return nil
}

// PairedStep is a step with its positionally matched frame, if any.
type PairedStep struct {
	Step  Step
	Frame *frame.Frame
}

// Pair zips steps to frames by position. Steps beyond the frame count
// simply carry no image; there is no explicit step-to-frame linkage.
func Pair(doc *Document, frames []frame.Frame) []PairedStep {
	paired := make([]PairedStep, len(doc.Steps))
	for i, s := range doc.Steps {
		paired[i] = PairedStep{Step: s}
		if i < len(frames) {
			paired[i].Frame = &frames[i]
		}
	}
	return paired
}
