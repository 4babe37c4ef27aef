package output

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/internal/projection"
	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/iwvelando/plan-autofill/pkg/format"
	"github.com/iwvelando/plan-autofill/pkg/textutil"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Document content types.
const (
	HTMLContentType     = "text/html; charset=utf-8"
	MarkdownContentType = "text/markdown; charset=utf-8"
)

// DocumentTitle heads every generated plan document.
const DocumentTitle = "Business Plan Form (automatic fill)"

// Section is one narrative section of the document.
type Section struct {
	Title string
	Text  string
}

// Document is the printable plan: identification, length-limited narratives
// and every projection table.
type Document struct {
	Title          string
	Identification []config.Field
	Sections       []Section
	Tables         []projection.Table
}

// NewDocument assembles a document, limiting each narrative to its character
// budget.
func NewDocument(in config.Input, narratives config.Narratives, p projection.Projection) Document {
	limits := in.Limits()
	return Document{
		Title:          DocumentTitle,
		Identification: in.Identification.Fields(),
		Sections: []Section{
			{Title: "Project Objectives", Text: textutil.Limit(narratives.Objectives, limits.Objectives)},
			{Title: "Market", Text: textutil.Limit(narratives.Market, limits.Market)},
			{Title: "Facilities", Text: textutil.Limit(narratives.Facilities, limits.Facilities)},
		},
		Tables: p.Tables.Ordered(),
	}
}

// Markdown renders the document as GitHub-flavoured Markdown.
func (d Document) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeInline(d.Title))

	b.WriteString("## Identification\n\n")
	for _, field := range d.Identification {
		fmt.Fprintf(&b, "**%s:** %s  \n", field.Label, escapeInline(field.Value))
	}
	b.WriteString("\n")

	for _, section := range d.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Title)
		if strings.TrimSpace(section.Text) != "" {
			b.WriteString(section.Text)
			b.WriteString("\n\n")
		}
	}

	for _, table := range d.Tables {
		writeMarkdownTable(&b, table)
	}

	return b.String()
}

func writeMarkdownTable(b *strings.Builder, table projection.Table) {
	fmt.Fprintf(b, "### %s\n\n", table.Title)
	if table.Empty() {
		b.WriteString("(no data)\n\n")
		return
	}

	header := make([]string, len(table.Columns))
	divider := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = escapeCell(column)
		if i == 0 {
			divider[i] = "---"
		} else {
			divider[i] = "---:"
		}
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(header, " | "))
	fmt.Fprintf(b, "| %s |\n", strings.Join(divider, " | "))

	for _, row := range table.Rows {
		cells := make([]string, 0, len(row.Values)+1)
		cells = append(cells, escapeCell(row.Label))
		for _, v := range row.Values {
			cells = append(cells, format.Cell(v))
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", `\<`, "#", `\#`, "|", `\|`,
	"\r\n", " ", "\n", " ",
)

func escapeInline(value string) string {
	return inlineEscaper.Replace(value)
}

func escapeCell(value string) string {
	return escapeInline(value)
}

// WriteMarkdown writes the Markdown rendering of the document.
func (d Document) WriteMarkdown(w io.Writer) error {
	_, err := io.WriteString(w, d.Markdown())
	return err
}

// WriteHTML renders the document to a standalone, printable HTML page.
func (d Document) WriteHTML(w io.Writer) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(d.Markdown()), &body); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	_, err := fmt.Fprintf(w, htmlPage, html.EscapeString(d.Title), body.String())
	return err
}

// Write renders the document in the requested format.
func (d Document) Write(w io.Writer, documentFormat string) error {
	switch documentFormat {
	case constants.DocumentFormatMarkdown:
		return d.WriteMarkdown(w)
	case constants.DocumentFormatHTML, "":
		return d.WriteHTML(w)
	default:
		return fmt.Errorf("unsupported document format %q", documentFormat)
	}
}

// DocumentContentType returns the MIME type for a document format.
func DocumentContentType(documentFormat string) string {
	if documentFormat == constants.DocumentFormatMarkdown {
		return MarkdownContentType
	}
	return HTMLContentType
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; line-height: 1.4; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #444; padding: 0.25em 0.6em; }
td { text-align: right; }
td:first-child { text-align: left; }
@media print { body { margin: 0; } h2, h3 { page-break-after: avoid; } table { page-break-inside: avoid; } }
</style>
</head>
<body>
%s</body>
</html>
`
