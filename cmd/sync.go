package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"chordfm/config"
	"chordfm/core/provider"
	"chordfm/db"
	"chordfm/model"
	"chordfm/repository"

	"github.com/spf13/cobra"
)

var syncLimit int

// syncCmd backfills normalized provider_links rows for tracks that only
// carry the legacy flat spotify/youtube fields.
var syncCmd = &cobra.Command{
	Use:   "sync-links",
	Short: "Backfill normalized provider links from legacy track fields",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		providers := provider.NewManager()
		if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
			if c, err := provider.NewSpotifyConnector(cfg); err != nil {
				log.Printf("Spotify connector unavailable: %v", err)
			} else {
				providers.Register(c)
			}
		}
		if cfg.YoutubeAPIKey != "" {
			if c, err := provider.NewYoutubeConnector(cfg.YoutubeAPIKey); err != nil {
				log.Printf("YouTube connector unavailable: %v", err)
			} else {
				providers.Register(c)
			}
		}

		trackRepo := repository.NewTrackRepository(db.DB)
		tracks, err := trackRepo.GetAllTracks(syncLimit)
		if err != nil {
			log.Fatalf("Failed to load tracks: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		backfilled := 0
		for _, track := range tracks {
			for _, want := range []struct {
				name string
				id   string
			}{
				{"spotify", track.SpotifyID},
				{"youtube", track.YoutubeID},
			} {
				if want.id == "" || hasLink(track, want.name) {
					continue
				}
				connector, err := providers.Get(want.name)
				if err != nil {
					continue
				}
				link, err := connector.ResolveLinks(ctx, want.id)
				if err != nil {
					log.Printf("track %d: %s resolve failed: %v", track.ID, want.name, err)
					continue
				}
				link.TrackID = track.ID
				if err := trackRepo.UpsertProviderLink(&link); err != nil {
					log.Printf("track %d: link upsert failed: %v", track.ID, err)
					continue
				}
				backfilled++
			}
		}

		fmt.Printf("Backfilled %d provider links across %d tracks.\n", backfilled, len(tracks))
	},
}

func hasLink(t *model.Track, providerName string) bool {
	for _, l := range t.Links {
		if l.Provider == providerName {
			return true
		}
	}
	return false
}

func init() {
	syncCmd.Flags().IntVar(&syncLimit, "limit", 500, "maximum number of tracks to scan")
	rootCmd.AddCommand(syncCmd)
}
