package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"speclogic/internal/config"
	"speclogic/internal/logger"
	"speclogic/internal/models"
	"speclogic/pkg/utils"
)

// GPU page errors.
var (
	ErrGPUTableNotFound = errors.New("gpu list table not found")
	ErrGPUNameNotFound  = errors.New("gpu name not found")
)

const gpuListPath = "/gpu-specs/"

var pcieVersionPattern = regexp.MustCompile(`(?i)pcie\s*(\d+(?:\.\d+)?)`)

// GPUScraper walks the GPU database list page and its detail pages.
type GPUScraper struct {
	fetcher *Scraper
	cache   *Cache
	baseURL string
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	fetched bool
	logger  *logger.Logger
}

// NewGPUScraper creates a GPU scraper. cache may be nil.
func NewGPUScraper(fetcher *Scraper, cache *Cache, cfg config.ScraperConfig, log *logger.Logger) *GPUScraper {
	return &GPUScraper{
		fetcher: fetcher,
		cache:   cache,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		delay:   time.Duration(cfg.RequestDelayMs) * time.Millisecond,
		sleep:   sleepContext,
		logger:  logger.OrNop(log),
	}
}

// SetSleep replaces the wait used between requests.
func (g *GPUScraper) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	g.sleep = fn
	g.fetcher.SetSleep(fn)
}

// ScrapeGPUList reads up to limit rows of the list page and scrapes each
// linked detail page. Detail failures are logged and skipped.
func (g *GPUScraper) ScrapeGPUList(ctx context.Context, limit int) ([]models.Record, error) {
	g.logger.Info("Scraping GPU list", "limit", limit)

	page, err := g.fetch(ctx, g.baseURL+gpuListPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gpu list: %w", err)
	}

	links, err := ParseGPUList(page, g.baseURL, limit)
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(links))

	for _, link := range links {
		record, err := g.ScrapeGPUDetail(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}

			g.logger.Warn("Error processing GPU row", "url", link, "error", err)

			continue
		}

		records = append(records, record)
	}

	g.logger.Info("Scraped GPU specifications", "count", len(records))

	return records, nil
}

// ScrapeGPUDetail fetches one detail page, served from the cache when present.
func (g *GPUScraper) ScrapeGPUDetail(ctx context.Context, pageURL string) (models.Record, error) {
	page, err := g.fetch(ctx, pageURL, true)
	if err != nil {
		return nil, err
	}

	return ParseGPUDetail(page, pageURL)
}

func (g *GPUScraper) fetch(ctx context.Context, pageURL string, cached bool) (string, error) {
	if cached && g.cache != nil {
		if page, ok := g.cache.Get(pageURL); ok {
			g.logger.Debug("Cache hit", "url", pageURL)

			return page, nil
		}
	}

	if g.fetched {
		if err := g.sleep(ctx, g.delay); err != nil {
			return "", err
		}
	}

	g.fetched = true

	page, err := g.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if cached && g.cache != nil {
		if err := g.cache.Put(pageURL, page); err != nil {
			g.logger.Warn("Failed to cache page", "url", pageURL, "error", err)
		}
	}

	return page, nil
}

// ParseGPUList returns the detail links of the first limit data rows of the
// list table, resolved against base.
func ParseGPUList(page, base string, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gpu list: %w", err)
	}

	table := doc.Find("table.processors").First()
	if table.Length() == 0 {
		return nil, ErrGPUTableNotFound
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	var links []string

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return links, nil
	}

	// First row is the header
	rows.Slice(1, goquery.ToEnd).EachWithBreak(func(i int, row *goquery.Selection) bool {
		if limit >= 0 && i >= limit {
			return false
		}

		href, ok := row.Find("a").First().Attr("href")
		if !ok || href == "" {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}

		links = append(links, baseURL.ResolveReference(ref).String())

		return true
	})

	return links, nil
}

// ParseGPUDetail reads the name heading and spec table of a detail page into
// a raw GPU record.
func ParseGPUDetail(page, pageURL string) (models.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gpu page: %w", err)
	}

	text := utils.NewStringHelper()

	name := text.NormalizeWhitespace(doc.Find("h1.gpudb-name").First().Text())
	if name == "" {
		return nil, fmt.Errorf("%w: %s", ErrGPUNameNotFound, pageURL)
	}

	specs := make(map[string]string)

	doc.Find("table.gpudb-specs tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		key := strings.ReplaceAll(strings.ToLower(text.NormalizeWhitespace(cells.Eq(0).Text())), " ", "_")
		specs[key] = text.NormalizeWhitespace(cells.Eq(1).Text())
	})

	return gpuRecord(name, specs, pageURL), nil
}

func gpuRecord(name string, specs map[string]string, pageURL string) models.Record {
	r := models.Record{
		models.FieldComponentType: models.GPU.String(),
		models.FieldModel:         name,
		models.FieldBrand:         gpuBrand(name, specs),
		"source_url":              pageURL,
	}

	setInt(r, "length_mm", ParseLength, specs["length"])
	setInt(r, "tdp_watts", ParseTDP, specs["tdp"])
	setInt(r, "vram_gb", ParseVRAM, specs["memory_size"])
	setInt(r, "recommended_psu_watts", ParsePSU, specs["suggested_psu"])

	if bw, ok := ParseBandwidth(specs["memory_bandwidth"]); ok {
		r["memory_bandwidth_gbps"] = bw
	}

	if v := specs["memory_type"]; v != "" {
		r["memory_type"] = v
	}

	if m := pcieVersionPattern.FindStringSubmatch(specs["bus_interface"]); m != nil {
		r["pcie_version"] = m[1]
	}

	if v := specs["release_date"]; v != "" {
		r["release_date"] = v
	}

	return r
}

func setInt(r models.Record, field string, parse func(string) (int, bool), value string) {
	if n, ok := parse(value); ok {
		r[field] = n
	}
}

func gpuBrand(name string, specs map[string]string) string {
	if b := specs["brand"]; b != "" {
		return b
	}

	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}

	return ""
}
