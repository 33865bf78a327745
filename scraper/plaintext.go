// scraper/plaintext.go
package scraper

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	spaceRuns  = regexp.MustCompile(`[ \t]+`)
)

// PlainText strips HTML markup from s. Source labels sometimes arrive as
// anchors or with <br> separators; plain strings pass through trimmed.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	text := strings.NewReplacer(
		"<br>", "\n", "<br />", "\n", "<br/>", "\n",
		"</p>", "\n\n", "<P>", "\n\n",
	).Replace(s)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		slog.Warn("could not parse HTML for plain text conversion", "err", err)
		return strings.TrimSpace(text)
	}

	plain := doc.Text()
	plain = strings.ReplaceAll(plain, "\r\n", "\n")
	plain = strings.ReplaceAll(plain, "\r", "\n")
	plain = spaceRuns.ReplaceAllString(plain, " ")
	plain = blankLines.ReplaceAllString(plain, "\n\n")
	plain = strings.ReplaceAll(plain, " \n", "\n")
	plain = strings.ReplaceAll(plain, "\n ", "\n")
	return strings.TrimSpace(plain)
}
