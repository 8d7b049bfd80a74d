package report

import (
	"html/template"
	"io"

	"github.com/rotisserie/eris"

	"github.com/vendamais/followup-cli/internal/deal"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Relatório de Follow-up {{.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h2 { border-bottom: 2px solid #ddd; padding-bottom: .3rem; margin-top: 2rem; }
.deal { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin: 1rem 0; }
.meta { color: #666; font-size: .9rem; margin-bottom: .5rem; }
pre { white-space: pre-wrap; background: #f7f7f7; padding: .8rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>Relatório de Follow-up</h1>
<p class="meta">Arquivo: {{.Filename}} | Gerado em: {{.CreatedAt.Format "02/01/2006 15:04"}} | Negócios: {{len .Records}}{{if .Skipped}} | Linhas vazias ignoradas: {{.Skipped}}{{end}}</p>
{{range $owner := .Owners}}
<h2>{{$owner}}</h2>
{{range index $.ByOwner $owner}}
<div class="deal">
<h3>{{.BusinessName}} — {{.Company}}</h3>
<p class="meta">Fase: {{.Phase}} | Próximo Follow-up: #{{.NextStep}} | Temperatura: {{.CurrentTemperature}}</p>
<pre>{{.Recommendation}}</pre>
</div>
{{end}}
{{end}}
</body>
</html>
`))

var ownerTmpl = template.Must(template.New("owner").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Follow-ups de {{.Owner}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
.deal { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin: 1rem 0; }
.meta { color: #666; font-size: .9rem; margin-bottom: .5rem; }
pre { white-space: pre-wrap; background: #f7f7f7; padding: .8rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>Follow-ups de {{.Owner}}</h1>
{{range .Records}}
<div class="deal">
<h3>{{.BusinessName}} — {{.Company}}</h3>
<p class="meta">Fase: {{.Phase}} | Próximo Follow-up: #{{.NextStep}} | Temperatura: {{.CurrentTemperature}}</p>
<pre>{{.Recommendation}}</pre>
</div>
{{end}}
</body>
</html>
`))

// RenderHTML writes the full report as a standalone HTML page.
func RenderHTML(w io.Writer, r *Report) error {
	return eris.Wrap(reportTmpl.Execute(w, r), "report: render")
}

// RenderOwnerHTML writes one owner's records as a standalone HTML page.
func RenderOwnerHTML(w io.Writer, owner string, records []deal.Record) error {
	data := struct {
		Owner   string
		Records []deal.Record
	}{Owner: owner, Records: records}
	return eris.Wrap(ownerTmpl.Execute(w, data), "report: render owner")
}
