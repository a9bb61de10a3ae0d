// Package daemon provides anxietyd's lifecycle: startup, serving and
// graceful shutdown.
//
// STARTUP ORDER:
//  1. Pre-bind the API listener so a busy port fails before anything is built
//  2. Check host memory when the device lives in RAM
//  3. Open the backend and build the device queue around it
//  4. Start the HTTP API on the pre-bound listener
//
// SHUTDOWN ORDER:
// API first so no new requests arrive, then the device queue (forced drain
// followed by teardown of anything left), then the backend. Errors from
// every step are collected and returned together.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/concave-dev/anxiety/cmd/anxietyd/config"
	"github.com/concave-dev/anxiety/cmd/anxietyd/utils"
	"github.com/concave-dev/anxiety/internal/api"
	"github.com/concave-dev/anxiety/internal/device"
	"github.com/concave-dev/anxiety/internal/device/backend"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/names"
	"github.com/concave-dev/anxiety/internal/netutil"
	"github.com/concave-dev/anxiety/internal/resources"
	"github.com/concave-dev/anxiety/internal/version"
)

// buildDeviceConfig converts daemon config to device queue config
func buildDeviceConfig() *device.Config {
	deviceConfig := device.DefaultConfig()

	deviceConfig.Name = config.Global.DeviceName
	deviceConfig.QueueDepth = config.Global.QueueDepth
	deviceConfig.MaxPending = config.Global.MaxPending
	deviceConfig.DispatchInterval = config.Global.DispatchInterval
	deviceConfig.SyncRatio = config.Global.SyncRatio
	deviceConfig.BatchCount = config.Global.BatchCount

	return deviceConfig
}

// buildAPIConfig converts daemon config to API config
func buildAPIConfig(queue *device.Queue) *api.Config {
	apiConfig := api.DefaultConfig()

	apiConfig.BindAddr = config.Global.APIAddr
	apiConfig.BindPort = config.Global.APIPort
	apiConfig.RequestTimeout = config.Global.RequestTimeout
	apiConfig.Queue = queue

	return apiConfig
}

// Run starts the daemon and blocks until SIGINT or SIGTERM, then shuts
// down within config.Global.ShutdownTimeout.
func Run() error {
	startTime := time.Now()

	logging.SetLevel(config.Global.LogLevel)
	logging.Info("Starting anxiety daemon v%s", version.AnxietydVersion)

	// Generate device name only after validation has passed
	if config.Global.DeviceName == "" {
		config.Global.DeviceName = names.Generate()
		logging.Info("Generated device name: %s", config.Global.DeviceName)
	}

	apiListener, apiPort, err := utils.PreBindServiceListener("API", netutil.NewPortBinder(),
		config.Global.IsExplicitlySet(config.APIAddrField), config.Global.APIAddr, config.Global.APIPort)
	if err != nil {
		logging.Error("Failed to pre-bind API listener: %v", err)
		return err
	}
	config.Global.APIPort = apiPort

	// Everything below owns apiListener until the API server takes it
	fail := func(err error, closers ...func() error) error {
		for _, c := range closers {
			if cerr := c(); cerr != nil {
				logging.Warn("Cleanup after failed startup: %v", cerr)
			}
		}
		apiListener.Close()
		return err
	}

	host := resources.Gather(startTime)
	logging.Info("Host: %d CPUs, %s of %s memory available",
		host.CPUCores, humanize.IBytes(host.MemoryAvailable), humanize.IBytes(host.MemoryTotal))
	if config.Global.Backend == backend.KindMemory {
		if err := host.CheckMemoryBackend(config.Global.Size); err != nil {
			logging.Error("%v", err)
			return fail(err)
		}
	}

	be, err := backend.New(config.Global.Backend, config.Global.BackendPath, config.Global.Size)
	if err != nil {
		logging.Error("Failed to open %s backend: %v", config.Global.Backend, err)
		return fail(fmt.Errorf("failed to open backend: %w", err))
	}
	info := be.Info()
	logging.Info("Backend: %s, %s", info.Kind, humanize.IBytes(info.Size))
	if info.Path != "" {
		logging.Info("Backing file: %s (%s free on %s)", info.Path, humanize.IBytes(info.FSFree), info.FSType)
	}

	queue, err := device.New(buildDeviceConfig(), be)
	if err != nil {
		logging.Error("Failed to create device queue: %v", err)
		return fail(fmt.Errorf("failed to create device queue: %w", err), be.Close)
	}

	apiServer, err := api.NewServerWithListener(buildAPIConfig(queue), apiListener)
	if err != nil {
		logging.Error("Failed to create API server: %v", err)
		closeQueue := func() error { return queue.Close(context.Background()) }
		return fail(fmt.Errorf("failed to create API server: %w", err), closeQueue, be.Close)
	}
	if err := apiServer.Start(); err != nil {
		logging.Error("Failed to start API server: %v", err)
		// apiServer owns the listener now
		shutdown(nil, queue, be)
		return fmt.Errorf("failed to start API server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	logging.Success("anxiety daemon started successfully")
	logging.Info("Device %s: depth %d, max pending %d, sync_ratio %d, batch_count %d",
		config.Global.DeviceName, config.Global.QueueDepth, config.Global.MaxPending,
		config.Global.SyncRatio, config.Global.BatchCount)
	logging.Info("HTTP API: %s", apiServer.Addr())
	logging.Info("Daemon running... Press Ctrl+C to shutdown")

	sig := <-sigCh
	logging.Info("Received signal: %v", sig)
	logging.Info("Initiating graceful shutdown...")

	if err := shutdown(apiServer, queue, be); err != nil {
		logging.Error("Shutdown completed with errors: %v", err)
		return err
	}

	logging.Success("anxiety daemon shutdown completed")
	return nil
}

// shutdown stops the API, closes the queue and closes the backend, in
// that order, sharing one timeout.
func shutdown(apiServer *api.Server, queue *device.Queue, be backend.Backend) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.Global.ShutdownTimeout)
	defer cancel()

	var result *multierror.Error

	if apiServer != nil {
		if err := apiServer.Shutdown(ctx); err != nil {
			logging.Error("Error shutting down API server: %v", err)
			result = multierror.Append(result, fmt.Errorf("api: %w", err))
		}
	}

	if err := queue.Close(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("device queue: %w", err))
	}

	if err := be.Close(); err != nil {
		logging.Error("Error closing backend: %v", err)
		result = multierror.Append(result, fmt.Errorf("backend: %w", err))
	}

	return result.ErrorOrNil()
}
