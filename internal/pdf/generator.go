package pdf

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/artistritesh/Job-Alerts/internal/digest"
	"github.com/artistritesh/Job-Alerts/internal/models"
)

// Generator renders the digest HTML to an A4 PDF with headless Chromium.
// The Playwright driver and browser must already be installed.
type Generator struct {
	render func(d models.Digest) (string, error)
}

func NewGenerator() *Generator {
	return &Generator{render: digest.RenderHTML}
}

// Render takes a digest, runs it through the email HTML template, and uses
// Playwright to print it as a PDF byte array.
func (g *Generator) Render(ctx context.Context, d models.Digest) ([]byte, error) {
	htmlContent, err := g.render(d)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(htmlContent, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Bottom: playwright.String("12mm"),
			Left:   playwright.String("10mm"),
			Right:  playwright.String("10mm"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}
