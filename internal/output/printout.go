package output

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/shared/paths"
	"go.uber.org/zap"
)

// PrintJob carries a rendered ticket image to the printer goroutine.
type PrintJob struct {
	Image image.Image
	Name  string
	Force bool // print even in dry-run mode
}

var printQueue chan PrintJob
var lastPrintTime time.Time
var lastPrintMutex sync.Mutex
var printerMutex sync.Mutex

func init() {
	printQueue = make(chan PrintJob, 100)
	lastPrintTime = time.Now()

	go func() {
		for job := range printQueue {
			processJob(job)
		}
	}()
}

// Enqueue hands a ticket to the print worker. Never blocks the caller;
// a full queue drops the job with a warning.
func Enqueue(job PrintJob) {
	select {
	case printQueue <- job:
	default:
		logger.Warn("Print queue full, dropping job", zap.String("name", job.Name))
	}
}

func processJob(job PrintJob) {
	printerMutex.Lock()
	defer printerMutex.Unlock()

	if !job.Force && env.Value.DryRunMode {
		if err := saveDryRunImage(job); err != nil {
			logger.Error("Failed to save dry-run ticket", zap.Error(err))
		} else {
			logger.Info("Dry-run mode: ticket rendered to disk", zap.String("name", job.Name))
		}
		markPrinted()
		return
	}

	address := ""
	if env.Value.PrinterAddress != nil {
		address = *env.Value.PrinterAddress
	}
	if address == "" {
		logger.Error("Printer address not configured, saving ticket to disk instead")
		if err := saveDryRunImage(job); err != nil {
			logger.Error("Failed to save ticket", zap.Error(err))
		}
		return
	}

	// Connect-print-disconnect per job keeps the printer state fresh.
	client, err := SetupPrinter()
	if err != nil {
		logger.Error("Failed to create printer client", zap.Error(err))
		return
	}
	SetupPrinterOptions(env.Value.BestQuality, env.Value.Dither, env.Value.AutoRotate, float32(env.Value.BlackPoint))

	if err := ConnectPrinter(client, address); err != nil {
		logger.Error("Failed to connect printer", zap.Error(err))
		Stop()
		return
	}

	// BLE parameter negotiation settles right after connect.
	time.Sleep(1 * time.Second)

	if err := client.Print(job.Image, opts, false); err != nil {
		logger.Error("Failed to print ticket", zap.String("name", job.Name), zap.Error(err))
		Stop()
		return
	}

	// Cat printers feed at roughly 10mm/s; wait for the paper to clear.
	height := job.Image.Bounds().Dy()
	waitSec := 2 + (height / 60)
	if waitSec < 3 {
		waitSec = 3
	}
	time.Sleep(time.Duration(waitSec) * time.Second)

	logger.Info("Ticket printed", zap.String("name", job.Name))
	markPrinted()
	Stop()
}

func markPrinted() {
	lastPrintMutex.Lock()
	lastPrintTime = time.Now()
	lastPrintMutex.Unlock()
}

// LastPrintTime reports when the most recent job finished.
func LastPrintTime() time.Time {
	lastPrintMutex.Lock()
	defer lastPrintMutex.Unlock()
	return lastPrintTime
}

func saveDryRunImage(job PrintJob) error {
	dir := paths.GetOutputDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	name := job.Name
	if name == "" {
		name = "ticket"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%d.png", name, time.Now().Unix()))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ticket file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, job.Image); err != nil {
		return fmt.Errorf("failed to encode ticket: %w", err)
	}

	logger.Debug("Ticket image saved", zap.String("path", path))
	return nil
}
