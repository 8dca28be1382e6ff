package render

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"schoolrecords-server-go/logger"
)

// ErrNoBrowser is returned when no Chromium binary could be found.
var ErrNoBrowser = errors.New("no chromium binary available for pdf rendering")

// Printer turns an HTML document into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, document string) ([]byte, error)
}

// ChromePrinter prints through a headless Chromium launched per call.
type ChromePrinter struct {
	bin string
	log *logger.Logger
}

// NewChromePrinter uses bin when set and otherwise looks for an installed
// Chrome or Chromium.
func NewChromePrinter(bin string, log *logger.Logger) *ChromePrinter {
	if log == nil {
		log = logger.Nop()
	}
	return &ChromePrinter{bin: bin, log: log}
}

// Browser resolves the binary that will be launched.
func (p *ChromePrinter) Browser() (string, error) {
	if p.bin != "" {
		return p.bin, nil
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", ErrNoBrowser
}

func (p *ChromePrinter) PrintPDF(ctx context.Context, document string) ([]byte, error) {
	bin, err := p.Browser()
	if err != nil {
		return nil, err
	}

	l := launcher.New().Context(ctx).Bin(bin).Headless(true).Leakless(false)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			p.log.Debug("closing browser failed", "error", err)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(document); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for document: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	p.log.Debug("rendered pdf", "bytes", len(pdf))
	return pdf, nil
}
