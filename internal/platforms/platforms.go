// Package platforms lists well-known services a credential can be filed under.
package platforms

import "strings"

type Platform struct {
	Name string
	URL  string
}

var catalog = []Platform{
	{"Google", "https://accounts.google.com"},
	{"GitHub", "https://github.com"},
	{"GitLab", "https://gitlab.com"},
	{"Microsoft", "https://login.live.com"},
	{"Apple", "https://appleid.apple.com"},
	{"Facebook", "https://facebook.com"},
	{"Instagram", "https://instagram.com"},
	{"Twitter", "https://x.com"},
	{"LinkedIn", "https://linkedin.com"},
	{"Netflix", "https://netflix.com"},
	{"Spotify", "https://spotify.com"},
	{"Amazon", "https://amazon.com"},
	{"Discord", "https://discord.com"},
	{"Slack", "https://slack.com"},
	{"Dropbox", "https://dropbox.com"},
	{"Reddit", "https://reddit.com"},
	{"Steam", "https://store.steampowered.com"},
	{"Twitch", "https://twitch.tv"},
	{"YouTube", "https://youtube.com"},
	{"PayPal", "https://paypal.com"},
}

// All returns a copy of the catalog in display order.
func All() []Platform {
	out := make([]Platform, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a platform by name, ignoring case.
func Lookup(name string) (Platform, bool) {
	name = strings.TrimSpace(name)
	for _, p := range catalog {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Platform{}, false
}
