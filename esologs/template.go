package esologs

import (
	"embed"
	"io/fs"
	"strings"
	"sync"
	"text/template"

	jsoniter "github.com/json-iterator/go"
)

//go:embed query/*.tmpl
var queryFS embed.FS

var (
	queryFuncs = template.FuncMap{
		// GraphQL string literals share JSON escaping
		"quote": func(s string) (string, error) {
			return jsoniter.MarshalToString(s)
		},
	}

	tmplReportSummary = template.Must(template.New("reportSummary.tmpl").Funcs(queryFuncs).ParseFS(queryFS, "query/reportSummary.tmpl"))
	tmplReportEvents  = template.Must(template.New("reportEvents.tmpl").Funcs(queryFuncs).ParseFS(queryFS, "query/reportEvents.tmpl"))

	strBufPool = sync.Pool{
		New: func() interface{} {
			sb := new(strings.Builder)
			sb.Grow(4 * 1024)
			return sb
		},
	}
)

// querySources fingerprints the embedded queries so cached pages are dropped when a query changes.
func querySources() [][]byte {
	var sources [][]byte
	fs.WalkDir(queryFS, "query", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := queryFS.ReadFile(path)
		if err == nil {
			sources = append(sources, b)
		}
		return err
	})
	return sources
}
