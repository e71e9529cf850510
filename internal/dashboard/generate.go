// Package dashboard renders Grafana dashboards for the publisher's metrics.
package dashboard

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// EnvDatasourceUID names the Prometheus datasource the dashboards query.
const EnvDatasourceUID = "PROMETHEUS_DATASOURCE_UID"

//go:embed templates/*.json.tmpl
var templates embed.FS

// Render parses dashboard templates and writes rendered dashboards to outDir.
// It returns the paths written.
func Render(outDir string) ([]string, error) {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	names, err := fs.Glob(templates, "templates/*.json.tmpl")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, name := range names {
		t, err := template.New(path.Base(name)).Funcs(funcMap).ParseFS(templates, name)
		if err != nil {
			return written, err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(path.Base(name), ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return written, err
		}
		if err := t.Execute(f, nil); err != nil {
			f.Close()
			os.Remove(outPath)
			return written, fmt.Errorf("render %s: %w", path.Base(name), err)
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written = append(written, outPath)
	}
	return written, nil
}
