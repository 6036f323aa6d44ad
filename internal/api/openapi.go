package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"sigs.k8s.io/yaml"
)

//go:embed openapi.yaml
var openAPISource []byte

// openAPIDocument converts the embedded YAML description to JSON. When
// baseURL is set it replaces the document's servers list.
func openAPIDocument(baseURL string) ([]byte, error) {
	raw, err := yaml.YAMLToJSON(openAPISource)
	if err != nil {
		return nil, fmt.Errorf("convert openapi document: %w", err)
	}
	if baseURL == "" {
		return raw, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode openapi document: %w", err)
	}
	doc["servers"] = []map[string]string{{"url": baseURL}}
	return json.Marshal(doc)
}

// OpenAPIHandler serves the API description as JSON. The document is built
// once, when the handler is created.
func OpenAPIHandler(baseURL string) http.HandlerFunc {
	body, err := openAPIDocument(baseURL)
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.Error(w, "openapi unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
