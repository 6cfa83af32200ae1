package controllers

import (
	"encoding/xml"
	"fmt"
	"log"
	"net/http"

	"github.com/shoplane/shoplane-backend/api/responses"
	ordersvc "github.com/shoplane/shoplane-backend/internal/orders"
	"github.com/shoplane/shoplane-backend/pkg/logger"
)

// latestFeedSize is how many orders the syndication feed carries.
const latestFeedSize = 5

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// LatestOrdersFeed serves the newest orders as an RSS 2.0 feed.
func LatestOrdersFeed(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		latest, err := svc.Latest(r.Context(), latestFeedSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]rssItem, len(latest))
		for i, order := range latest {
			link := fmt.Sprintf("/orders/%d/", order.PK)
			items[i] = rssItem{
				Title:       fmt.Sprintf("Order %d", order.PK),
				Link:        link,
				Description: order.Products,
				PubDate:     order.CreatedAt.Format(http.TimeFormat),
				GUID:        link,
			}
		}

		feed := rssFeed{
			Version: "2.0",
			Channel: rssChannel{
				Title:       "Latest orders",
				Link:        "/orders/",
				Description: "The most recently created orders",
				Items:       items,
			},
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(xml.Header)); err != nil {
			log.Printf(`{"level":"error","msg":"failed to write feed header","err":"%v"}`, err)
			return
		}
		if err := xml.NewEncoder(w).Encode(feed); err != nil {
			log.Printf(`{"level":"error","msg":"failed to encode feed","err":"%v"}`, err)
		}
	}
}
