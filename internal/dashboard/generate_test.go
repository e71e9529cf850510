package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderMissingEnv(t *testing.T) {
	t.Setenv(EnvDatasourceUID, "")
	dir := t.TempDir()
	if _, err := Render(dir); err == nil {
		t.Fatalf("expected error for missing env vars")
	}
	if _, err := os.Stat(filepath.Join(dir, "electrolyzer-dashboard.json")); !os.IsNotExist(err) {
		t.Fatalf("partial dashboard left behind: %v", err)
	}
}

func TestRenderSuccess(t *testing.T) {
	t.Setenv(EnvDatasourceUID, "prom-uid1")

	dir := t.TempDir()
	written, err := Render(dir)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("expected one dashboard, got %v", written)
	}

	b, err := os.ReadFile(filepath.Join(dir, "electrolyzer-dashboard.json"))
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	if !strings.Contains(string(b), "prom-uid1") {
		t.Fatalf("datasource uid not rendered")
	}
	if !strings.Contains(string(b), `"legendFormat": "{{status}}"`) {
		t.Fatalf("legend placeholder not preserved")
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("rendered dashboard is not valid JSON: %v", err)
	}
}
