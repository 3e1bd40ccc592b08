package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"olx-notifier/config"
	"olx-notifier/feed"
	"olx-notifier/models"
	"olx-notifier/storage"
	"olx-notifier/utils"
)

// debugAds is a canned record served on /rss/debug for local inspection
// of the full rendering, independent of the stores.
var debugAds = []models.FullAd{
	{
		DetailedAd: models.DetailedAd{
			BaseAd: models.BaseAd{
				ID:              "bc516e2abb5445ae9d03128a7a911f8f",
				Tag:             "arenda-uzhgorod",
				Title:           "Сдам 2-х комнатную квартиру на длительный период",
				PublicationDate: "2021-11-04 12:58:45",
				ParseDate:       "2021-11-04 12:58:45",
				URL:             "https://www.olx.ua/d/obyavlenie/sdam-2-h-komnatnuyu-kvartiru-na-dlitelnyy-period-IDN7dzO.html",
			},
			Description: "Сдам 2-х комнатную квартиру на длительный период для семейной пары, 6 этаж 9-и этажного дома, не угловая, теплая, есть лоджия.",
			ImageURLs: []string{
				"https://ireland.apollo.olxcdn.com/v1/files/dodwyas1emy32-UA/image;s=4000x3000",
				"https://ireland.apollo.olxcdn.com/v1/files/pxokmbrmwf9v2-UA/image;s=1104x1472",
			},
		},
		ExternalID: "725276749",
		Name:       "Феликс",
		Phone:      "+380995437751",
	},
}

type server struct {
	store    storage.FeedStore
	renderer *feed.Renderer
	logger   *utils.Logger
}

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	store, err := storage.NewCSVStore(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to init flat stores: %v", err)
		os.Exit(1)
	}

	srv := &server{
		store: store,
		renderer: feed.NewRenderer(feed.Options{
			Link:        cfg.FeedLink,
			Language:    cfg.FeedLanguage,
			DefaultText: cfg.FeedTitle,
			Author:      cfg.FeedAuthor,
		}),
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/rss", srv.handleBasic).Methods(http.MethodGet)
	r.HandleFunc("/rss/detail", srv.handleDetailed).Methods(http.MethodGet)
	r.HandleFunc("/rss/debug", srv.handleDebug).Methods(http.MethodGet)
	r.HandleFunc("/rss/ad/{id}", srv.handleAd).Methods(http.MethodGet)

	logger.Info("=== Feed service listening on %s ===", cfg.FeedBindAddr)
	if err := http.ListenAndServe(cfg.FeedBindAddr, r); err != nil {
		logger.Error("Feed service stopped: %v", err)
		os.Exit(1)
	}
}

func (s *server) handleBasic(w http.ResponseWriter, _ *http.Request) {
	ads, err := s.store.LoadBase()
	if err != nil {
		s.fail(w, err)
		return
	}
	doc, err := s.renderer.RenderBasic(ads)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, doc)
}

func (s *server) handleDetailed(w http.ResponseWriter, _ *http.Request) {
	ads, err := s.store.LoadDetailed()
	if err != nil {
		s.fail(w, err)
		return
	}
	doc, err := s.renderer.RenderDetailed(ads)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, doc)
}

func (s *server) handleAd(w http.ResponseWriter, r *http.Request) {
	ad, err := s.store.BaseByID(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	doc, err := s.renderer.RenderBasic([]models.BaseAd{ad})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, doc)
}

func (s *server) handleDebug(w http.ResponseWriter, _ *http.Request) {
	doc, err := s.renderer.RenderFull(debugAds)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, doc)
}

func (s *server) write(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func (s *server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("[feed] Request failed: %v", err)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
