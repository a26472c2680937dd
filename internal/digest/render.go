package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/artistritesh/Job-Alerts/internal/models"
)

var funcMap = template.FuncMap{
	"date": func(j models.Job) string {
		if j.PostedDate == nil {
			return ""
		}
		return j.PostedDate.Format("2006-01-02")
	},
	"orDash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	},
}

var htmlTemplate = template.Must(template.New("digest").Funcs(funcMap).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif;">
<h3>{{.Subject}}</h3>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
<thead>
<tr><th>Job Title</th><th>Company</th><th>Location</th><th>Visa/Relocation Sponsorship</th><th>Posted</th></tr>
</thead>
<tbody>
{{- range .Jobs}}
<tr class="job"><td><a href="{{.Link}}">{{.Title}}</a></td><td>{{orDash .Company}}</td><td>{{orDash .Location}}</td><td>{{.Sponsorship}}</td><td>{{date .}}</td></tr>
{{- end}}
</tbody>
</table>
<p style="color: #888; font-size: 12px;">Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} · run {{.RunID}}</p>
</body>
</html>
`))

// RenderHTML renders the digest as the HTML body of the alert email.
func RenderHTML(d models.Digest) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// RenderText is the plain-text alternative.
func RenderText(d models.Digest) string {
	var b strings.Builder
	b.WriteString(d.Subject)
	b.WriteString("\n\n")
	for i, j := range d.Jobs {
		fmt.Fprintf(&b, "%d. %s", i+1, j.Title)
		if j.Company != "" {
			fmt.Fprintf(&b, " - %s", j.Company)
		}
		if j.Location != "" {
			fmt.Fprintf(&b, " (%s)", j.Location)
		}
		fmt.Fprintf(&b, "\n   Sponsorship: %s\n   %s\n", j.Sponsorship, j.Link)
	}
	return b.String()
}
