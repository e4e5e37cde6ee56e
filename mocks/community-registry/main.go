// Command community-registry is a stand-in for the real community registry
// service, for local development and integration testing of the gateway. The
// set of known communities comes from the COMMUNITIES environment variable, a
// comma-separated list of uniq ids.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"kudos/contracts/registry"
)

func main() {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":9090"
	}

	known := map[string]bool{}
	for _, uniqID := range strings.Split(os.Getenv("COMMUNITIES"), ",") {
		if uniqID = strings.TrimSpace(uniqID); uniqID != "" {
			known[uniqID] = true
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /communities/{uniqID}/exists", func(w http.ResponseWriter, r *http.Request) {
		uniqID := r.PathValue("uniqID")
		if uniqID == "" {
			writeJSON(w, http.StatusBadRequest, registry.ErrorResponse{Error: "uniq id required"})
			return
		}
		writeJSON(w, http.StatusOK, registry.ExistsResponse{UniqID: uniqID, Exists: known[uniqID]})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	log.Printf("mock community registry listening on %s with %d communities", addr, len(known))
	log.Fatal(http.ListenAndServe(addr, mux))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
