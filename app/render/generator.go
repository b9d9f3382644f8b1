package render

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/sheet-catalog/app/catalog"
)

// Channel describes the feed itself.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfURL     string
	Language    string
	Version     string
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders records as an RSS 2.0 document in the given order.
func (g *Generator) Run(ch Channel, records []catalog.Record) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(ch.Title, "Catalog"), 4)
	g.writeElement(&buf, "link", ch.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(ch.Description, "Catalog entries"), 4)

	if ch.SelfURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(ch.SelfURL)))
	}

	lastBuildDate := time.Now().In(time.Local)
	for _, r := range records {
		if r.UpdatedAt != nil {
			lastBuildDate = *r.UpdatedAt
			break
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Sheet-Catalog/%s", cmp.Or(ch.Version, "dev")), 4)
	g.writeElement(&buf, "language", ch.Language, 4)

	for _, r := range records {
		g.writeItem(&buf, r)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, r catalog.Record) {
	buf.WriteString("    <item>\n")

	link := cmp.Or(r.SafeDemoURL(), r.SafeRepoURL())
	guid := cmp.Or(r.Slug, link, r.Name)
	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", guid == link && catalog.SafeURL(guid) != ""))
	xml.EscapeText(buf, []byte(guid))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", r.Name, 6)
	g.writeElement(buf, "link", link, 6)
	g.writeElement(buf, "description", g.description(r), 6)

	if r.UpdatedAt != nil {
		g.writeElement(buf, "pubDate", r.UpdatedAt.Format(time.RFC1123Z), 6)
	}

	g.writeElement(buf, "category", r.Category, 6)
	for _, tag := range r.TagList() {
		g.writeElement(buf, "category", tag, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) description(r catalog.Record) string {
	parts := make([]string, 0, 3)
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	if r.Status != "" {
		parts = append(parts, "Status: "+r.Status)
	}
	if r.Note != "" {
		parts = append(parts, r.Note)
	}
	if len(parts) == 0 {
		return "No description available"
	}
	return strings.Join(parts, "\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
