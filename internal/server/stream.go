package server

import (
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/habitkicker/internal/capture"
)

// StreamHandler serves a live MJPEG preview of the camera feed, paced to the
// active capture rate.
type StreamHandler struct {
	camera capture.Camera
}

// NewStreamHandler creates a new StreamHandler with the given camera.
func NewStreamHandler(camera capture.Camera) *StreamHandler {
	return &StreamHandler{camera: camera}
}

// ServeHTTP streams MJPEG frames to the client until it disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.camera.IsOpen() {
		http.Error(w, "Camera is not open", http.StatusServiceUnavailable)
		return
	}

	mw := multipart.NewWriter(w)
	defer mw.Close()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
	w.Header().Set("Cache-Control", "no-cache")

	flusher, _ := w.(http.Flusher)

	// Pushing faster than the capture rate would only duplicate frames
	ticker := time.NewTicker(time.Second / time.Duration(capture.ActiveFPS))
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			continue
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			log.Printf("Failed to encode preview frame: %v", err)
			continue
		}

		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":   {"image/jpeg"},
			"Content-Length": {strconv.Itoa(buf.Len())},
		})
		if err != nil {
			buf.Close()
			return
		}
		if _, err := part.Write(buf.GetBytes()); err != nil {
			buf.Close()
			return
		}
		buf.Close()

		if flusher != nil {
			flusher.Flush()
		}
	}
}
