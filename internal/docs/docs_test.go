package docs

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/swaggo/swag"
)

func readDoc(t *testing.T) (string, map[string]any) {
	t.Helper()

	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("failed to read swagger doc: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("swagger doc is not valid JSON: %v", err)
	}
	return raw, doc
}

func TestSwaggerDoc(t *testing.T) {
	raw, doc := readDoc(t)

	t.Run("info", func(t *testing.T) {
		if doc["basePath"] != "/api/v1" {
			t.Errorf("expected basePath /api/v1, got %v", doc["basePath"])
		}
		info, _ := doc["info"].(map[string]any)
		if info["title"] != "ptrwatch API" {
			t.Errorf("expected title ptrwatch API, got %v", info["title"])
		}
	})

	t.Run("routes", func(t *testing.T) {
		paths, _ := doc["paths"].(map[string]any)
		routes := map[string]string{
			"/pipeline/ingest":            "post",
			"/pipeline/reports/parse":     "post",
			"/pipeline/runs":              "get",
			"/pipeline/runs/{id}":         "get",
			"/reports":                    "get",
			"/reports/{filing_id}":        "get",
			"/reports/{filing_id}/export": "get",
			"/transactions":               "get",
		}
		for path, method := range routes {
			ops, ok := paths[path].(map[string]any)
			if !ok {
				t.Errorf("missing path %s", path)
				continue
			}
			if _, ok := ops[method]; !ok {
				t.Errorf("missing %s %s", method, path)
			}
		}
	})

	t.Run("refs_resolve", func(t *testing.T) {
		definitions, _ := doc["definitions"].(map[string]any)
		refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
		if len(refs) == 0 {
			t.Fatal("expected definition references")
		}
		for _, ref := range refs {
			if _, ok := definitions[ref[1]]; !ok {
				t.Errorf("unresolved reference %s", ref[1])
			}
		}
	})
}
