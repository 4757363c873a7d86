// Package web serves the stage visualizer: a small HTML page, a JSON
// endpoint with the latest analysis and an SSE stream of journaled stage
// records.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/analyzer"
)

const recordPollInterval = 2 * time.Second

type stageRecordReader interface {
	EventsAfter(index uint64) ([]domain.StageRecordEvent, error)
}

// Server exposes HTTP endpoints serving the HTML UI, the latest analysis
// result and an SSE stream of stage records.
type Server struct {
	Addr  string
	Store stageRecordReader

	mu     sync.RWMutex
	latest *analyzer.Result
}

// NewServer creates a new web server instance. Store may be nil when the
// journal is disabled; the stream endpoint then reports unavailability.
func NewServer(addr string, store stageRecordReader) *Server {
	return &Server{Addr: addr, Store: store}
}

// UpdateResult publishes the most recent analysis result.
func (s *Server) UpdateResult(result *analyzer.Result) {
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/stages/stream", s.handleStageStream)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "no analysis result yet")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(latest); err != nil {
		log.Printf("history encode: %v", err)
	}
}

func (s *Server) handleStageStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "stage record store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send a comment heartbeat every 30s so proxies keep connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(recordPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendRecords := func() error {
		events, err := s.Store.EventsAfter(lastIndex)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		for _, event := range events {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: stage\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = event.Index
		}
		return nil
	}

	if err := sendRecords(); err != nil {
		http.Error(w, "failed to load stage records", http.StatusInternalServerError)
		log.Printf("stage stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendRecords(); err != nil {
				log.Printf("stage stream poll err: %v", err)
			}
		}
	}
}

// Single-pair stage dashboard: current stage card plus a live record feed.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Stage Monitor</title>
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      display:flex;
      align-items:center;
      justify-content:center;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    #app {
      width:min(960px, 96vw);
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:grid;
      grid-template-columns:1fr 1fr;
      gap:2rem;
    }
    h1 { grid-column:1 / -1; margin:0; font-size:1.4rem; letter-spacing:.1em; }
    .card { border:2px solid var(--ink); padding:1rem; background:var(--bg); }
    .card h2 { margin:0 0 .6rem; font-size:.9rem; color:var(--ink-mid); text-transform:uppercase; }
    #stage { font-size:2.4rem; font-weight:700; }
    #stageTitle, #risk { color:var(--ink-mid); }
    ul { margin:.4rem 0 0; padding-left:1.2rem; }
    #feed { grid-column:1 / -1; max-height:260px; overflow-y:auto; font-size:.8rem; }
    #feed div { padding:.2rem 0; border-bottom:1px dashed var(--ink-soft); }
  </style>
</head>
<body>
  <div id="app">
    <h1>MARKET STAGE MONITOR</h1>
    <div class="card">
      <h2>Current Stage</h2>
      <div id="stage">-</div>
      <div id="stageTitle"></div>
      <div id="risk"></div>
    </div>
    <div class="card">
      <h2>Indicators</h2>
      <div id="indicators">waiting for data...</div>
    </div>
    <div class="card" style="grid-column:1 / -1">
      <h2>Recommended Actions</h2>
      <ul id="actions"></ul>
    </div>
    <div class="card" id="feed">
      <h2>Record Feed</h2>
    </div>
  </div>
  <script>
    async function refresh() {
      try {
        const resp = await fetch('/history');
        if (!resp.ok) return;
        const data = await resp.json();
        const cur = data.current;
        document.getElementById('stage').textContent = cur.stage;
        document.getElementById('risk').textContent = 'risk: ' + data.recommendation.risk;
        const snap = cur.snapshot;
        if (snap) {
          document.getElementById('indicators').innerHTML =
            'K ' + snap.stoch_rsi_k.toFixed(1) + ' / D ' + snap.stoch_rsi_d.toFixed(1) +
            '<br>RSI ' + snap.rsi.toFixed(1) +
            '<br>HLT ' + snap.hlt.toFixed(1) +
            '<br>Fear &amp; Greed ' + snap.fear_greed.toFixed(0) +
            '<br>Volume spike: ' + (snap.volume_spike ? 'yes' : 'no');
        }
        const actions = document.getElementById('actions');
        actions.innerHTML = '';
        for (const a of data.recommendation.actions) {
          const li = document.createElement('li');
          li.textContent = a;
          actions.appendChild(li);
        }
      } catch (e) { /* retry on next tick */ }
    }
    refresh();
    setInterval(refresh, 15000);

    const feed = document.getElementById('feed');
    const es = new EventSource('/stages/stream');
    es.addEventListener('stage', (ev) => {
      const e = JSON.parse(ev.data);
      const row = document.createElement('div');
      row.textContent = e.record.ts + '  ' + e.symbol + '  stage ' + e.record.stage;
      feed.appendChild(row);
      feed.scrollTop = feed.scrollHeight;
    });
  </script>
</body>
</html>
`
