package webserver

import (
	"fmt"
	"net"
	"net/http"

	"github.com/arcyniiegas/elysium/internal/env"
	qrcode "github.com/skip2/go-qrcode"
)

// handleQR renders a QR code pointing a phone at the overlay URL.
func handleQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		target = fmt.Sprintf("http://%s:%d/", localIP(), env.Value.ServerPort)
	}

	png, err := qrcode.Encode(target, qrcode.Medium, 512)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// localIP finds the LAN address so the QR works from another device.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
