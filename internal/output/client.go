package output

import (
	"time"

	catprinter "git.massivebox.net/massivebox/go-catprinter"
	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/status"
	"go.uber.org/zap"
)

var latestPrinter *catprinter.Client
var opts *catprinter.PrinterOptions
var isConnected bool

// SetupPrinter resets and recreates the BLE client. Tearing down the old
// client first is required for a clean reconnect.
func SetupPrinter() (*catprinter.Client, error) {
	if latestPrinter != nil {
		logger.Info("Resetting printer client")
		if isConnected {
			latestPrinter.Disconnect()
			isConnected = false
		}
		latestPrinter.Stop()
		latestPrinter = nil
		// Give the BLE stack time to release the device.
		time.Sleep(500 * time.Millisecond)
	}

	instance, err := catprinter.NewClient()
	if err != nil {
		return nil, err
	}
	latestPrinter = instance
	return instance, nil
}

func ConnectPrinter(c *catprinter.Client, address string) error {
	if c == nil {
		return nil
	}
	if isConnected {
		return nil
	}

	logger.Info("Connecting to keepsake printer", zap.String("address", address))
	if err := c.Connect(address); err != nil {
		status.SetPrinterConnected(false)
		return err
	}

	isConnected = true
	status.SetPrinterConnected(true)
	return nil
}

func SetupPrinterOptions(bestQuality, dither, autoRotate bool, blackPoint float32) {
	opts = catprinter.NewOptions().
		SetBestQuality(bestQuality).
		SetDither(dither).
		SetAutoRotate(autoRotate).
		SetBlackPoint(blackPoint)
}

// Stop disconnects the printer and releases the BLE device.
func Stop() {
	if latestPrinter != nil {
		if isConnected {
			latestPrinter.Disconnect()
			isConnected = false
			status.SetPrinterConnected(false)
		}
		latestPrinter.Stop()
		latestPrinter = nil
		logger.Info("Printer client stopped and BLE device released")
	}
}

func IsConnected() bool {
	return isConnected
}

// ReconnectPrinter forces a complete reconnection using the configured
// address and options.
func ReconnectPrinter(address string) error {
	logger.Info("Starting forced printer reconnection", zap.String("address", address))

	client, err := SetupPrinter()
	if err != nil {
		return err
	}
	SetupPrinterOptions(env.Value.BestQuality, env.Value.Dither, env.Value.AutoRotate, float32(env.Value.BlackPoint))

	status.SetPrinterConnected(false)
	if err := ConnectPrinter(client, address); err != nil {
		logger.Error("Failed to reconnect printer", zap.Error(err))
		return err
	}
	return nil
}
