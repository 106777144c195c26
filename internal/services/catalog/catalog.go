package catalog

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	baseURL      = "https://www.tcdb.com"
	yearsPath    = "/ViewAll.cfm/sp/Football?MODE=Years"
	allowedHost  = "www.tcdb.com"
	crawlDelay   = time.Second
	setNameKey   = "setName"
	checklistFmt = "/PrintChecklist.cfm?SetID=%s"
)

// CardStore is where discovered cards end up.
type CardStore interface {
	UpsertCard(id, name string) error
}

// CardID derives the stable card id from its canonical name. The same
// name always maps to the same id, so re-discovery never duplicates.
func CardID(name string) string {
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// Syncer crawls the trading-card database site (years, then each
// year's set listings, then each set's printable checklist) and upserts
// every discovered card name into the store.
type Syncer struct {
	store CardStore
	base  string
}

func NewSyncer(store CardStore) *Syncer {
	return &Syncer{store: store, base: baseURL}
}

// Sync runs one full catalog crawl and returns the number of cards
// processed. The crawl is paced one request per second; the site
// returns blank pages under burst traffic.
func (s *Syncer) Sync() (int, error) {
	var processed atomic.Int64

	years := colly.NewCollector(colly.AllowedDomains(allowedHost))
	if err := years.Limit(&colly.LimitRule{DomainGlob: "*", Delay: crawlDelay}); err != nil {
		return 0, fmt.Errorf("configure crawl limit: %w", err)
	}
	sets := years.Clone()
	checklists := years.Clone()

	years.OnError(func(r *colly.Response, err error) {
		log.Printf("[catalog] error fetching %s: %v", r.Request.URL, err)
	})
	sets.OnError(func(r *colly.Response, err error) {
		log.Printf("[catalog] error fetching %s: %v", r.Request.URL, err)
	})
	checklists.OnError(func(r *colly.Response, err error) {
		log.Printf("[catalog] error fetching %s: %v", r.Request.URL, err)
	})

	// Years index: every link whose text is a year leads to that
	// year's release listing.
	years.OnHTML("#content table a[href]", func(e *colly.HTMLElement) {
		year := strings.TrimSpace(e.Text)
		if len(year) != 4 || strings.Trim(year, "0123456789") != "" {
			return
		}
		if err := sets.Visit(e.Request.AbsoluteURL(e.Attr("href"))); err != nil &&
			err != colly.ErrAlreadyVisited {
			log.Printf("[catalog] skipping year %s: %v", year, err)
		}
	})

	// Year page: each set link carries the set id used by the
	// printable checklist endpoint.
	sets.OnHTML(`#content ul li a[href*="sid/"]`, func(e *colly.HTMLElement) {
		setName := strings.TrimSpace(e.Text)
		if setName == "" {
			return
		}
		setID := extractSetID(e.Attr("href"))
		if setID == "" {
			return
		}

		ctx := colly.NewContext()
		ctx.Put(setNameKey, setName)
		url := s.base + fmt.Sprintf(checklistFmt, setID)
		if err := checklists.Request("GET", url, nil, ctx, nil); err != nil &&
			err != colly.ErrAlreadyVisited {
			log.Printf("[catalog] skipping set %s: %v", setName, err)
		}
	})

	checklists.OnResponse(func(r *colly.Response) {
		setName := r.Ctx.Get(setNameKey)
		names, err := parseChecklist(r.Body, setName)
		if err != nil {
			log.Printf("[catalog] error parsing checklist for %s: %v", setName, err)
			return
		}
		for _, name := range names {
			if err := s.store.UpsertCard(CardID(name), name); err != nil {
				continue
			}
			processed.Add(1)
		}
	})

	log.Println("[catalog] starting catalog update")
	if err := years.Visit(s.base + yearsPath); err != nil {
		return 0, fmt.Errorf("fetch years index: %w", err)
	}
	years.Wait()
	sets.Wait()
	checklists.Wait()

	total := int(processed.Load())
	log.Printf("[catalog] catalog update complete - processed %d cards", total)
	return total, nil
}

// parseChecklist extracts the card names from a printable checklist
// page. Each checklist cell holds one card entry per div; the canonical
// name is the set name followed by the entry text.
func parseChecklist(body []byte, setName string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var names []string
	doc.Find("td > div").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		names = append(names, setName+" "+text)
	})
	return names, nil
}

// extractSetID pulls the numeric set id out of a link like
// /ViewSet.cfm/sid/12345/1986-topps.
func extractSetID(href string) string {
	_, after, found := strings.Cut(href, "sid/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "/")
	return id
}
