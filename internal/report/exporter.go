// Package report renders analysis results as downloadable documents.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	htmlrenderer "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"phoenix/domain/insight"
	"phoenix/domain/project"
)

// Exporter turns a story and its supporting insights into a standalone HTML
// document. The narrative text is treated as markdown since that is what the
// model tends to produce.
type Exporter struct{}

func NewExporter() *Exporter { return &Exporter{} }

// ExportHTML renders the full report document
func (e *Exporter) ExportHTML(story *project.Story, insights []insight.Insight) []byte {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", story.Title)
	fmt.Fprintf(&md, "_Generated %s_\n\n", story.CreatedAt.Time().Format("January 2, 2006"))
	md.WriteString(story.Narrative)
	md.WriteString("\n")

	if len(insights) > 0 {
		md.WriteString("\n## Supporting Insights\n\n")
		for _, ins := range insights {
			fmt.Fprintf(&md, "### %s (confidence %.0f%%)\n\n", titleFor(ins.Type), ins.Confidence*100)
			if msg, ok := ins.Payload["message"].(string); ok {
				fmt.Fprintf(&md, "%s\n\n", msg)
				continue
			}
			if analysis, ok := ins.Payload["analysis"].(string); ok {
				fmt.Fprintf(&md, "%s\n\n", analysis)
				continue
			}
			for key, value := range ins.Payload {
				fmt.Fprintf(&md, "- **%s**: %v\n", strings.ReplaceAll(key, "_", " "), value)
			}
			md.WriteString("\n")
		}
	}

	return wrapDocument(story.Title, renderMarkdown(md.String()))
}

func titleFor(t insight.Type) string {
	switch t {
	case insight.TypeStatistical:
		return "Statistical Summary"
	case insight.TypeClustering:
		return "Clustering"
	case insight.TypeAnomaly:
		return "Anomaly Detection"
	case insight.TypeSeasonality:
		return "Seasonality"
	case insight.TypeCorrelation:
		return "Correlation"
	}
	return string(t)
}

func renderMarkdown(source string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := htmlrenderer.NewRenderer(htmlrenderer.RendererOptions{
		Flags: htmlrenderer.CommonFlags,
	})
	return markdown.ToHTML([]byte(source), p, renderer)
}

func wrapDocument(title string, body []byte) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString(`<style>
body { font-family: Georgia, serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; color: #1f2937; line-height: 1.6; }
h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; color: #111827; }
h1 { border-bottom: 2px solid #e5e7eb; padding-bottom: .5rem; }
em { color: #6b7280; }
</style>
</head>
<body>
`)
	b.Write(body)
	b.WriteString("\n</body>\n</html>\n")
	return []byte(b.String())
}

// Filename suggests a download name for the exported report
func Filename(story *project.Story) string {
	slug := strings.ToLower(story.Title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(strings.Join(strings.FieldsFunc(slug, func(r rune) bool { return r == '-' }), "-"), "-")
	if slug == "" {
		slug = "report"
	}
	return fmt.Sprintf("%s-%s.html", slug, story.CreatedAt.Time().Format("2006-01-02"))
}
