// Package extract pulls candidate person and project names out of
// free-text questions.
package extract

import "context"

// Extractor finds one entity name in text. An empty result with ok=false
// means no entity was referenced; it is not a failure.
type Extractor interface {
	Extract(ctx context.Context, text string) (name string, ok bool)
}

// Func adapts a plain function to Extractor.
type Func func(ctx context.Context, text string) (string, bool)

func (f Func) Extract(ctx context.Context, text string) (string, bool) { return f(ctx, text) }

// FirstOf tries each extractor in order and returns the first hit.
func FirstOf(extractors ...Extractor) Extractor {
	return Func(func(ctx context.Context, text string) (string, bool) {
		for _, e := range extractors {
			if e == nil {
				continue
			}
			if name, ok := e.Extract(ctx, text); ok {
				return name, true
			}
		}
		return "", false
	})
}

// ExtractPersonName runs the person heuristics over text.
func ExtractPersonName(text string) (string, bool) {
	return Person{}.Extract(context.Background(), text)
}

// ExtractProjectName runs the project heuristics over text.
func ExtractProjectName(text string) (string, bool) {
	return Project{}.Extract(context.Background(), text)
}
