/*
Copyright © 2026 Schmimimi
*/

package main

import (
	"embed"
	"net/http"
	"net/url"
	"time"

	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

func servePage(cfg *Config, fname string, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := assets.ReadFile("assets/" + fname)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

// servePlayerEntry gates the player page behind the access list. Allowed
// identities are forwarded to the page with their name and picture in the
// query string; everyone else lands on the no-access page.
func servePlayerEntry(cfg *Config, gate *AccessGate) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ident, ok := identityFromRequest(cfg, r)
		if !ok {
			http.Redirect(w, r, cfg.prefix+"/", http.StatusTemporaryRedirect)
			return
		}
		if !gate.IsAllowed(ident.Login) {
			http.Redirect(w, r, cfg.prefix+"/no-access.html", http.StatusTemporaryRedirect)
			return
		}

		http.Redirect(w, r, cfg.prefix+"/player.html?username="+
			url.QueryEscape(ident.DisplayName)+"&pfp="+
			url.QueryEscape(ident.ProfileImage), http.StatusTemporaryRedirect)
	}
}

// serveAdminEntry gates the admin console behind the administrator identity.
func serveAdminEntry(cfg *Config, gate *AccessGate, errs chan<- error) httprouter.Handle {
	page := servePage(cfg, "admin.html", errs)

	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ident, ok := identityFromRequest(cfg, r)
		if !ok || !gate.IsAdministrator(ident.Login) {
			http.Redirect(w, r, cfg.prefix+"/", http.StatusTemporaryRedirect)
			return
		}

		page(w, r, p)
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
