package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/pleimann/hookpad/internal/config"
	"github.com/pleimann/hookpad/internal/hid"
	"github.com/pleimann/hookpad/internal/journal"
	"github.com/pleimann/hookpad/internal/ui"
)

const Version = "0.1.0"

const defaultHistoryLimit = 20

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "history":
			runHistory(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		ui.PrintFatalError("Invalid logging level", err.Error())
		os.Exit(1)
	}
	if *verbose {
		level = LogLevelDebug
	}
	logger := setupLogger(level)

	watcher, err := config.NewWatcher(*configPath, logger)
	if err != nil {
		ui.PrintFatalError("Failed to watch config", err.Error())
		os.Exit(1)
	}

	logger.Debug("Loaded configuration", "path", *configPath,
		"source", cfg.Device.Source,
		"vendor_id", fmt.Sprintf("0x%04X", cfg.Device.VendorID),
		"product_id", fmt.Sprintf("0x%04X", cfg.Device.ProductID),
		"player", cfg.Transport.Player)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := newApp(watcher, logger)
	if err != nil {
		watcher.Stop()
		ui.PrintFatalError("Failed to initialize application", err.Error())
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Application error", "error", err)
		os.Exit(1)
	}

	logger.Debug("Shutdown complete")
}

func printUsage() {
	ui.PrintUsage(Version)
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := hid.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	uiDevices := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		uiDevices[i] = toUIDevice(d)
	}
	ui.PrintDeviceList(uiDevices)
}

func toUIDevice(d hid.DeviceInfo) ui.DeviceInfo {
	return ui.DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		MediaControl: d.IsMediaControl(),
	}
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintSetDeviceUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	if len(remaining) >= 2 {
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID = vid
		productID = pid
	} else if len(remaining) == 1 {
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)
	} else {
		device, err := selectDevice()
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID = device.VendorID
		productID = device.ProductID
	}

	if config.Exists(*configPath) {
		if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceUpdated(*configPath, vendorID, productID)
	} else {
		if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceCreated(*configPath, vendorID, productID)
	}
}

// runHistory handles the history subcommand
func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	limit := fs.Int("limit", defaultHistoryLimit, "number of gestures to show")
	fs.Usage = func() {
		ui.PrintHistoryUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	path, err := historyPath(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to locate journal", err.Error())
		os.Exit(1)
	}

	j, err := journal.Open(path, nil)
	if err != nil {
		ui.PrintFatalError("Failed to open journal", err.Error())
		os.Exit(1)
	}
	defer j.Close()

	entries, err := j.Recent(*limit)
	if err != nil {
		ui.PrintFatalError("Failed to read journal", err.Error())
		os.Exit(1)
	}

	rows := make([]ui.HistoryEntry, len(entries))
	for i, e := range entries {
		rows[i] = ui.HistoryEntry{
			At:         e.At,
			Kind:       e.Kind,
			Weight:     e.Weight,
			Command:    e.Command,
			WasPlaying: e.WasPlaying,
		}
	}
	ui.PrintHistory(path, rows)
}

// historyPath resolves the journal file from the config, falling back to the
// default location when there is no config file
func historyPath(configPath string) (string, error) {
	if !config.Exists(configPath) {
		return journal.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	if cfg.Journal.Path != "" {
		return cfg.Journal.Path, nil
	}
	return journal.DefaultPath()
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu using huh.
// Media-control interfaces are listed first.
func selectDevice() (*ui.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no HID devices found")
	}

	// Deduplicate by vendor/product ID, remembering whether any interface
	// of the device carries media controls
	index := make(map[uint32]int)
	var unique []ui.DeviceInfo

	for _, d := range devices {
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}

		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if i, ok := index[key]; ok {
			unique[i].MediaControl = unique[i].MediaControl || d.IsMediaControl()
			continue
		}
		index[key] = len(unique)
		unique = append(unique, toUIDevice(d))
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].MediaControl && !unique[j].MediaControl
	})

	return ui.SelectDevice(unique)
}
