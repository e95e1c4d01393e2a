package crawl

import (
	"context"
	"time"

	"github.com/fwdslsh/toolkit"
)

// RenderDelayConfigurer is implemented by fetchers that support a settle
// delay after page load, such as the browser fetcher.
type RenderDelayConfigurer interface {
	SetRenderDelay(d time.Duration)
}

// ChooseFetcher probes probeURL to decide between plain HTTP fetching and
// browser rendering for a crawl.
//
// The HTTP response is checked against the framework prober: a framework
// known to serve complete HTML keeps the HTTP fetcher, a framework known to
// require JavaScript switches to the browser fetcher. For unknown frameworks
// both fetchers retrieve the page and the browser wins only when its
// rendered content is materially larger. If HTTP fails outright the browser
// fetcher is used.
//
// When the browser fetcher is selected and supports render delays, the
// framework's recommended delay is applied.
func ChooseFetcher(ctx context.Context, probeURL string, httpFetcher, browserFetcher toolkit.Fetcher, prober toolkit.Prober, extractor toolkit.Extractor) toolkit.Fetcher {
	httpHTML, err := httpFetcher.Fetch(ctx, probeURL)
	if err != nil {
		return browserFetcher
	}

	framework := prober.Detect(httpHTML)
	requiresJS, known := prober.RequiresJS(framework)
	if known {
		if requiresJS {
			return configureDelay(browserFetcher, prober, framework)
		}
		return httpFetcher
	}

	browserHTML, err := browserFetcher.Fetch(ctx, probeURL)
	if err != nil {
		return httpFetcher
	}

	if ContentDiffers(httpHTML, browserHTML, extractor) {
		return configureDelay(browserFetcher, prober, framework)
	}
	return httpFetcher
}

func configureDelay(fetcher toolkit.Fetcher, prober toolkit.Prober, framework toolkit.Framework) toolkit.Fetcher {
	if c, ok := fetcher.(RenderDelayConfigurer); ok {
		if delay := prober.RenderDelay(framework); delay > 0 {
			c.SetRenderDelay(delay)
		}
	}
	return fetcher
}

// ContentDiffers compares content extracted from HTTP-fetched HTML against
// browser-rendered HTML. Returns true when the rendered content is over 50%
// longer, suggesting JavaScript adds meaningful content, and on extraction
// errors, which assume JS is needed.
func ContentDiffers(httpHTML, renderedHTML string, extractor toolkit.Extractor) bool {
	httpResult, err := extractor.Extract(httpHTML)
	if err != nil {
		return true
	}

	renderedResult, err := extractor.Extract(renderedHTML)
	if err != nil {
		return true
	}

	httpLen := len(httpResult.ContentHTML)
	renderedLen := len(renderedResult.ContentHTML)

	if httpLen == 0 && renderedLen > 0 {
		return true
	}

	return float64(renderedLen) > float64(httpLen)*1.5
}
