package mirra

import (
	"encoding/json"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"
)

// Schema is the machine-readable description of every registered route,
// consumable by documentation UIs and typed client generators. It is
// constructed exactly once by Build and never mutated afterwards.
type Schema struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Routes      []RouteSchema    `json:"routes"`
	Types       map[string]Shape `json:"types,omitempty"`
}

// RouteSchema describes one route: its metadata and the shapes of its
// input, headers, output, and declared error type. KindRef shapes resolve
// through Types.
type RouteSchema struct {
	Name        string `json:"name"`
	Tag         string `json:"tag,omitempty"`
	Description string `json:"description,omitempty"`
	Readonly    bool   `json:"readonly,omitempty"`
	Input       Shape  `json:"input"`
	Headers     Shape  `json:"headers"`
	Output      Shape  `json:"output"`
	Error       *Shape `json:"error,omitempty"`
}

// RouteNames returns the logical names in registration order.
func (s *Schema) RouteNames() []string {
	out := make([]string, len(s.Routes))
	for i, r := range s.Routes {
		out[i] = r.Name
	}
	return out
}

// WriteJSON writes the schema as indented JSON to w.
func (s *Schema) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteYAML writes the schema as YAML to w.
func (s *Schema) WriteYAML(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(s)
}

// Handler returns an http.Handler that serves the schema as JSON.
func (s *Schema) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(s)
	})
}
