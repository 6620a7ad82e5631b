// feedsim is a development stand-in for the PBX bridge: it serves the
// websocket event feed and the REST snapshot endpoint with synthetic call
// and extension activity, so the console can be exercised without a PBX.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var sampleNumbers = []string{
	"+8801711000111", "+8801811222333", "+8801911444555", "+8801511666777",
}

var sampleExtensions = []map[string]interface{}{
	{"id": "ext-1001", "extension": "1001", "status": "online", "deviceState": "NOT_INUSE", "statusCode": 0, "agentName": "Farhana"},
	{"id": "ext-1002", "extension": "1002", "status": "online", "deviceState": "INUSE", "statusCode": 1, "agentName": "Rahim"},
	{"id": "ext-1003", "extension": "1003", "status": "offline", "deviceState": "UNAVAILABLE", "statusCode": 4, "agentName": "Sultana"},
	{"id": "ext-1004", "extension": "1004", "status": "online", "deviceState": "RINGING", "statusCode": 8, "agentName": "Kamal"},
}

func main() {
	addr := flag.String("addr", ":7000", "listen address")
	interval := flag.Duration("interval", 2*time.Second, "delay between synthetic events")
	flag.Parse()

	http.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	http.HandleFunc("/api/extensions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleExtensions)
	})

	http.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("feed client connected: %s", r.RemoteAddr)
		emitEvents(conn, *interval)
	})

	log.Printf("feedsim listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

// emitEvents walks synthetic calls through ringing → answered → completed.
func emitEvents(conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		callID := uuid.NewString()
		caller := sampleNumbers[rand.Intn(len(sampleNumbers))]
		start := time.Now().UTC()

		steps := []map[string]interface{}{
			{"id": callID, "callerNumber": caller, "direction": "incoming", "status": "ringing", "startTime": start.Format(time.RFC3339)},
			{"id": callID, "status": "answered", "agentExtension": "1002"},
			{"id": callID, "status": "completed", "endTime": start.Add(30 * time.Second).Format(time.RFC3339), "duration": 30},
		}

		for _, step := range steps {
			envelope := map[string]interface{}{"type": "call", "data": step}
			if err := conn.WriteJSON(envelope); err != nil {
				log.Printf("feed client gone: %v", err)
				return
			}
			time.Sleep(interval / 3)
		}

		if err := conn.WriteJSON(map[string]interface{}{"type": "ping"}); err != nil {
			return
		}
	}
}
