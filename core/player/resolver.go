package player

import "chordfm/model"

// ResolvedLink is one playable destination for a canonical track.
type ResolvedLink struct {
	Provider        Provider `json:"provider"`
	ProviderTrackID string   `json:"providerTrackId"`
	WebURL          string   `json:"webUrl,omitempty"`
	AppURL          string   `json:"appUrl,omitempty"`
	PreviewURL      string   `json:"previewUrl,omitempty"`
}

// Resolve maps a track's heterogeneous provider fields to an ordered list of
// resolved links. Pure function of the track: calling it twice on an
// unchanged track yields identical output.
//
// The normalized link list wins when present, with backend-supplied URLs
// preserved verbatim. Otherwise the legacy flat fields are consulted,
// synthesizing URLs from the registry when no explicit URL was stored.
// Links with neither a web nor an app URL are dropped, and at most one link
// per provider survives (first occurrence wins).
func Resolve(t *model.Track) []ResolvedLink {
	if t == nil {
		return nil
	}

	var out []ResolvedLink
	seen := make(map[Provider]bool)

	appendLink := func(link ResolvedLink) {
		if link.WebURL == "" && link.AppURL == "" {
			return
		}
		if seen[link.Provider] {
			return
		}
		seen[link.Provider] = true
		out = append(out, link)
	}

	if len(t.Links) > 0 {
		// Normalized list: preserve its order, ingestion URLs are
		// authoritative and never regenerated.
		for _, pl := range t.Links {
			p, ok := ParseProvider(pl.Provider)
			if !ok {
				continue
			}
			appendLink(ResolvedLink{
				Provider:        p,
				ProviderTrackID: pl.ProviderTrackID,
				WebURL:          pl.WebURL,
				AppURL:          pl.AppURL,
				PreviewURL:      pl.PreviewURL,
			})
		}
		return out
	}

	// Legacy flat fields: spotify before youtube.
	if t.SpotifyID != "" {
		urls := URLsFor(ProviderSpotify, t.SpotifyID)
		link := ResolvedLink{Provider: ProviderSpotify, ProviderTrackID: t.SpotifyID, WebURL: urls.Web, AppURL: urls.App}
		if t.URLSpotifyWeb != "" {
			link.WebURL = t.URLSpotifyWeb
		}
		if t.URLSpotifyApp != "" {
			link.AppURL = t.URLSpotifyApp
		}
		appendLink(link)
	}
	if t.YoutubeID != "" {
		urls := URLsFor(ProviderYoutube, t.YoutubeID)
		link := ResolvedLink{Provider: ProviderYoutube, ProviderTrackID: t.YoutubeID, WebURL: urls.Web, AppURL: urls.App}
		if t.URLYoutube != "" {
			link.WebURL = t.URLYoutube
		}
		appendLink(link)
	}
	return out
}

// LinkFor returns the resolved link for one provider, if the track has one.
func LinkFor(t *model.Track, p Provider) (ResolvedLink, bool) {
	for _, link := range Resolve(t) {
		if link.Provider == p {
			return link, true
		}
	}
	return ResolvedLink{}, false
}
