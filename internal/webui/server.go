// Package webui serves the rendered spectrometer display to a browser
// over a websocket and feeds key/mouse input back to the pipeline as
// discrete events.
package webui

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/averync2005/lusi-science-module/internal/pipeline"
)

// Server publishes rendered frames to connected browsers. It
// implements pipeline.Sink.
type Server struct {
	cond   *sync.Cond
	seq    int
	frame  []byte // base64 PNG of the latest spectrum image
	wfall  []byte // base64 PNG of the latest waterfall image, if any
	events chan<- pipeline.Event
	logger *zap.Logger
	ln     net.Listener
}

// New starts the preview server on addr. Input events received from
// the browser are forwarded to events without blocking; if the queue
// is full the event is dropped.
func New(addr string, events chan<- pipeline.Event, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cond:   sync.NewCond(&sync.Mutex{}),
		events: events,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.root)
	mux.Handle("/stream", websocket.Handler(s.stream))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.ln = ln
	go func() {
		if err := http.Serve(ln, mux); err != nil {
			logger.Debug("preview server stopped", zap.Error(err))
		}
	}()
	logger.Info("preview server listening", zap.String("addr", ln.Addr().String()))
	return s, nil
}

// Publish encodes the rendered images and wakes every connected
// websocket.
func (s *Server) Publish(spectrumImg, waterfallImg *image.RGBA) {
	frame := encodePNG(spectrumImg)
	var wfall []byte
	if waterfallImg != nil {
		wfall = encodePNG(waterfallImg)
	}

	s.cond.L.Lock()
	s.seq++
	s.frame = frame
	s.wfall = wfall
	s.cond.L.Unlock()
	s.cond.Broadcast()
}

// Close stops accepting connections and unblocks waiting streams.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.cond.Broadcast()
	return err
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(rootHTML))
}

// inputMessage is the JSON wire format for browser input.
type inputMessage struct {
	Type string `json:"type"` // "key", "move" or "click"
	Key  string `json:"key,omitempty"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
}

func (s *Server) stream(ws *websocket.Conn) {
	defer ws.Close()
	s.logger.Debug("preview client connected", zap.String("remote", ws.Request().RemoteAddr))

	go s.readInput(ws)

	lastSeq := 0
	for {
		s.cond.L.Lock()
		for s.seq == lastSeq {
			s.cond.Wait()
		}
		lastSeq = s.seq
		frame := s.frame
		wfall := s.wfall
		s.cond.L.Unlock()

		if frame == nil {
			continue
		}
		if _, err := ws.Write(append([]byte("S"), frame...)); err != nil {
			return
		}
		if wfall != nil {
			if _, err := ws.Write(append([]byte("W"), wfall...)); err != nil {
				return
			}
		}
	}
}

func (s *Server) readInput(ws *websocket.Conn) {
	dec := json.NewDecoder(ws)
	for {
		var msg inputMessage
		if err := dec.Decode(&msg); err != nil {
			return
		}
		var ev pipeline.Event
		switch msg.Type {
		case "key":
			if len(msg.Key) != 1 {
				continue
			}
			ev = pipeline.KeyEvent{Key: rune(msg.Key[0])}
		case "move":
			ev = pipeline.MouseMoveEvent{X: msg.X, Y: msg.Y}
		case "click":
			ev = pipeline.MouseClickEvent{X: msg.X, Y: msg.Y}
		default:
			continue
		}
		select {
		case s.events <- ev:
		default:
			// The loop drains once per frame; dropping beats blocking.
		}
	}
}

func encodePNG(img *image.RGBA) []byte {
	var buf bytes.Buffer
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := png.Encode(enc, img); err != nil {
		return nil
	}
	enc.Close()
	return buf.Bytes()
}
