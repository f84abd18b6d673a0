// Command arbor-stub-api is a development server for the Arbor shell. It
// serves canned identity and network data plus a release feed, so the shell
// can run end to end without the production backend.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type identity struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	MemberCount int    `json:"memberCount"`
}

type member struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Online      bool   `json:"online"`
}

type release struct {
	Version string `json:"version"`
	Notes   string `json:"notes"`
	URL     string `json:"url"`
}

var stubIdentity = identity{
	ID:          uuid.NewString(),
	Handle:      "maple",
	DisplayName: "Maple",
	MemberCount: 3,
}

var stubMembers = []member{
	{ID: uuid.NewString(), Handle: "fern", DisplayName: "Fern", Online: true},
	{ID: uuid.NewString(), Handle: "ash", DisplayName: "Ash"},
	{ID: uuid.NewString(), Handle: "rowan", DisplayName: "Rowan", Online: true},
}

var stubRelease = release{
	Version: "1.5.0",
	Notes:   "Stub release for local development.",
	URL:     "https://arbor.app/download",
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8787", "listen address")
	flag.Parse()

	r := mux.NewRouter()
	r.Use(logging)
	r.HandleFunc("/v1/identity", handleIdentity).Methods(http.MethodGet)
	r.HandleFunc("/v1/members", handleMembers).Methods(http.MethodGet)
	r.HandleFunc("/releases/stable.json", handleRelease).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("arbor-stub-api listening on %s", *addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s request_id=%s took=%s", r.Method, r.URL.Path, requestID, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func handleIdentity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stubIdentity)
}

func handleMembers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"members": stubMembers})
}

func handleRelease(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stubRelease)
}
