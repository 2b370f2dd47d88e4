package binder

import (
	"fmt"
	"html"
	"os"
	"strings"

	epub "github.com/go-shiori/go-epub"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/internal/logger"
)

// Input is the assembler's consumed contract: the ordered article list plus
// the run-level cover, merged style and document metadata.
type Input struct {
	Title       string
	Description string
	Locale      string
	Articles    []domain.Article
	CoverURL    string
	Style       string
}

// Binder serializes a run aggregate into one EPUB container on disk.
type Binder struct {
	log logger.Logger
}

// New creates a binder.
func New(log logger.Logger) *Binder {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Binder{log: log}
}

// Bind writes the packaged document to outputPath. Any failure here is fatal
// to the run; nothing is partially persisted on error.
func (b *Binder) Bind(input Input, outputPath string) error {
	if len(input.Articles) == 0 {
		return fmt.Errorf("nothing to bind: no articles extracted")
	}

	book, err := epub.NewEpub(firstNonEmptyString(input.Title, "Feedbook digest"))
	if err != nil {
		return fmt.Errorf("create epub: %w", err)
	}
	if input.Description != "" {
		book.SetDescription(input.Description)
	}
	if input.Locale != "" {
		book.SetLang(input.Locale)
	}

	stylePath, cleanup, err := b.addStyle(book, input.Style)
	if err != nil {
		return fmt.Errorf("add stylesheet: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	b.addCover(book, input.CoverURL)

	for i, article := range input.Articles {
		section := renderSection(article)
		filename := fmt.Sprintf("article-%04d.xhtml", i+1)
		if _, err := book.AddSection(section, article.Title, filename, stylePath); err != nil {
			return fmt.Errorf("add section %q: %w", article.Title, err)
		}
	}

	if err := book.Write(outputPath); err != nil {
		return fmt.Errorf("write epub %s: %w", outputPath, err)
	}

	b.log.InfoObj("document written", "bind_done", map[string]any{
		"path":     outputPath,
		"articles": len(input.Articles),
	})

	return nil
}

// addStyle registers the merged stylesheet with the book. The CSS is staged
// in a temp file because the epub library resolves sources at write time, so
// the cleanup must run only after Write.
func (b *Binder) addStyle(book *epub.Epub, css string) (string, func(), error) {
	if strings.TrimSpace(css) == "" {
		return "", nil, nil
	}

	tmp, err := os.CreateTemp("", "feedbook-style-*.css")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if _, err := tmp.WriteString(css); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	path, err := book.AddCSS(tmp.Name(), "stylesheet.css")
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// addCover attaches the cover image when one was resolved. A cover that
// cannot be retrieved degrades to a coverless document rather than failing
// the whole run.
func (b *Binder) addCover(book *epub.Epub, coverURL string) {
	if strings.TrimSpace(coverURL) == "" {
		return
	}

	imagePath, err := book.AddImage(coverURL, "cover.jpg")
	if err == nil {
		err = book.SetCover(imagePath, "")
	}
	if err != nil {
		b.log.WarnObj("cover image skipped", "cover_failed", map[string]any{
			"url":   coverURL,
			"error": err.Error(),
		})
	}
}

// renderSection builds the XHTML body for one article: heading, optional
// author line, then the sanitized body fragment.
func renderSection(article domain.Article) string {
	var sb strings.Builder
	sb.WriteString("<h1>")
	sb.WriteString(html.EscapeString(article.Title))
	sb.WriteString("</h1>\n")
	if article.Author != "" {
		sb.WriteString(`<p class="byline">`)
		sb.WriteString(html.EscapeString(article.Author))
		sb.WriteString("</p>\n")
	}
	sb.WriteString(article.Body)
	return sb.String()
}

func firstNonEmptyString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
