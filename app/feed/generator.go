package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/vk-comb/app/database"
)

const titleLength = 80

// Channel describes the RSS channel built from an owner's stored posts.
type Channel struct {
	OwnerID  int64
	Link     string
	SelfLink string
	Version  string
}

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Run renders posts (expected newest first) as an RSS 2.0 document.
func (g *Generator) Run(channel Channel, posts []database.Post) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", fmt.Sprintf("VK wall %d", channel.OwnerID), 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", fmt.Sprintf("Stored posts of owner %d", channel.OwnerID), 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := g.now().In(time.Local)
	if len(posts) > 0 {
		lastBuildDate = time.Unix(posts[0].Timestamp, 0).In(time.Local)
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("VK-Comb/%s", channel.Version), 4)

	for _, post := range posts {
		g.writeItem(&buf, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, post database.Post) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"true\">")
	xml.EscapeText(buf, []byte(post.URL))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", itemTitle(post), 6)
	g.writeElement(buf, "link", post.URL, 6)
	g.writeElement(buf, "description", post.Text, 6)
	g.writeElement(buf, "pubDate", time.Unix(post.Timestamp, 0).In(time.Local).Format(time.RFC1123Z), 6)

	buf.WriteString("    </item>\n")
}

func itemTitle(post database.Post) string {
	if post.Text == "" {
		return fmt.Sprintf("Post %d", post.PostID)
	}

	runes := []rune(SingleLine(post.Text))
	if len(runes) > titleLength {
		return string(runes[:titleLength]) + "..."
	}
	return string(runes)
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
