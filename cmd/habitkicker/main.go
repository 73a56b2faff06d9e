package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/habitkicker/internal/app"
	"github.com/ayusman/habitkicker/internal/server"
	"github.com/ayusman/habitkicker/internal/store"
	"github.com/ayusman/habitkicker/internal/tray"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "HTTP listen address")
		cameraID = flag.Int("camera", 0, "camera device ID")
		noTray   = flag.Bool("no-tray", false, "run without the system tray (headless)")
	)
	flag.Parse()

	fmt.Println("HabitKicker - Habit Detection")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".habitkicker")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "habitkicker.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{
		Store:       st,
		NotifierDir: filepath.Join(dataDir, "notifiers"),
		CameraID:    *cameraID,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if err := a.DiscoverNotifiers(); err != nil {
		log.Printf("Notifier discovery failed: %v", err)
	} else {
		log.Printf("Discovered %d notifiers", len(a.NotifierManager().List()))
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start detection pipeline: %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	fmt.Printf("Starting server on %s\n", *addr)
	go func() {
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	runTray(a)
}

// runTray wires the tray menu to the app and blocks until quit.
func runTray(a *app.App) {
	t := tray.New()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnRecalibrate(func() {
		if err := a.StartCalibration(); err != nil {
			log.Printf("Recalibration not started: %v", err)
		}
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Keep the last-alert menu line current
	go func() {
		for notice := range a.Subscribe() {
			if notice.Event == "entered" {
				t.SetLastAlert(string(notice.Habit))
			}
		}
	}()

	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.habitkicker/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".habitkicker", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
