package cli

import (
	_ "embed"
	"io"
	"text/template"

	"esologs_check/parse"
	"esologs_check/share"

	"github.com/pkg/errors"
)

var (
	//go:embed report.tmpl
	reportTmplText string

	reportTmpl = template.Must(template.New("report").Funcs(share.TemplateFuncMap).Parse(reportTmplText))
)

func formatText(w io.Writer, r *parse.Report) error {
	return errors.WithStack(reportTmpl.Execute(w, r))
}
