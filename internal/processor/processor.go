package processor

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

var (
	// startTagPattern matches an opening tag; quoted values may contain '>'.
	startTagPattern = regexp.MustCompile(`<[a-zA-Z][^\s/>]*(?:[^>"']|"[^"]*"|'[^']*')*>`)

	tagNamePattern = regexp.MustCompile(`^<[a-zA-Z][^\s/>]*`)

	// attrPattern matches one attribute at the start of the remaining tag text:
	// leading whitespace, name, then an optional quoted or bare value.
	attrPattern = regexp.MustCompile(`^(\s*)([^\s"'>/=]+)(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]+))?`)

	cosmeticNamePattern = regexp.MustCompile(`(?i)^(?:class|style|id|role|data-[a-z0-9_.:-]+|aria-[a-z-]+)$`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Processor prepares article HTML for the model and formats its output.
type Processor struct{}

// New creates a new HTML processor.
func New() *Processor {
	return &Processor{}
}

// Sanitize strips cosmetic attributes from start tags and collapses whitespace.
// Tag names, text content and the values of other attributes are left alone.
func (p *Processor) Sanitize(htmlContent string) string {
	return Sanitize(htmlContent)
}

// Sanitize is the package-level form of Processor.Sanitize.
func Sanitize(htmlContent string) string {
	cleaned := startTagPattern.ReplaceAllStringFunc(htmlContent, stripCosmeticAttrs)
	return whitespacePattern.ReplaceAllString(cleaned, " ")
}

// stripCosmeticAttrs walks a start tag one attribute at a time, so a match
// always begins at an attribute name and never inside a quoted value.
func stripCosmeticAttrs(tag string) string {
	name := tagNamePattern.FindString(tag)
	rest := tag[len(name) : len(tag)-1]

	var b strings.Builder
	b.WriteString(name)
	dropped := false
	for rest != "" {
		m := attrPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			// '/' of a self-closing tag or stray characters
			b.WriteByte(rest[0])
			rest = rest[1:]
			dropped = false
			continue
		}

		attr := rest[:m[1]]
		space := rest[m[2]:m[3]]
		attrName := rest[m[4]:m[5]]
		rest = rest[m[1]:]

		if cosmeticNamePattern.MatchString(attrName) {
			dropped = true
			continue
		}

		// The separator went with the dropped attribute
		if dropped && space == "" {
			b.WriteByte(' ')
		}
		b.WriteString(attr)
		dropped = false
	}
	b.WriteByte('>')
	return b.String()
}

// Convert transforms HTML content into Markdown.
func (p *Processor) Convert(htmlContent string) (string, error) {
	if htmlContent == "" {
		return "", nil
	}

	markdown, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		return "", err
	}

	// Clean up excessive whitespace
	markdown = strings.TrimSpace(markdown)
	return markdown, nil
}

// ExtractTitle extracts the <title> content from HTML, falling back to the first <h1>.
func (p *Processor) ExtractTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title, heading string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" {
					title = textContent(n)
				}
				return
			case "h1":
				if heading == "" {
					heading = textContent(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return strings.TrimSpace(heading)
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return whitespacePattern.ReplaceAllString(sb.String(), " ")
}
