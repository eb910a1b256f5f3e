// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// noiseTags are dropped before conversion when a page has no main content element.
var noiseTags = map[string]bool{
	"nav": true, "header": true, "footer": true, "aside": true, "script": true,
	"style": true, "noscript": true, "iframe": true, "form": true, "button": true,
}

// Page is an HTML document converted to markdown.
type Page struct {
	Title    string
	Markdown string
}

// Converter turns HTML into markdown suitable for prompts.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates a converter with GitHub-flavored markdown output.
func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Converter{converter: converter}
}

// Convert parses content and returns its title and the markdown of its main content.
func (c *Converter) Convert(content string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	title := ""
	if n := findFirst(doc, func(n *html.Node) bool { return n.Data == "title" }); n != nil && n.FirstChild != nil {
		title = strings.TrimSpace(n.FirstChild.Data)
	}

	root := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "main" || n.Data == "article" || attr(n, "role") == "main"
	})
	if root == nil {
		removeNoise(doc)
		root = findFirst(doc, func(n *html.Node) bool { return n.Data == "body" })
	}
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	if err := html.Render(&sb, root); err != nil {
		return nil, err
	}
	markdown, err := c.converter.ConvertString(sb.String())
	if err != nil {
		return nil, err
	}
	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = MarkdownTitle(markdown)
	}
	return &Page{Title: title, Markdown: markdown}, nil
}

// Text returns the page as markdown, led by a title heading when the body has none.
func (p *Page) Text() string {
	if p.Title == "" || MarkdownTitle(p.Markdown) != "" {
		return p.Markdown
	}
	return "# " + p.Title + "\n\n" + p.Markdown
}

// MarkdownTitle returns the text of the first level-one heading, or "".
func MarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func removeNoise(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && noiseTags[c.Data] {
			n.RemoveChild(c)
		} else {
			removeNoise(c)
		}
		c = next
	}
}

func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
