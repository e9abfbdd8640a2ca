package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ra2audit/internal/config"
	"ra2audit/internal/protocol"
	"ra2audit/internal/ra2"
	"ra2audit/internal/reconcile"
	"ra2audit/internal/registry"
	"ra2audit/internal/scan"
	"ra2audit/internal/trim"
	"ra2audit/internal/ui"
)

// Command flags
var (
	controllerHost string
	controllerPort int
	username       string
	inventoryPath  string
	registryPath   string
	outputPath     string
	fadeSeconds    float64
	noTUI          bool
	scanPort       int
	noMDNS         bool
	zoneID         int
	skipConfirm    bool
	verbose        bool
)

func init() {
	// Common flags for controller commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&controllerHost, "host", "", "Controller IP address (skips discovery and saved settings)")
	rootCmd.PersistentFlags().IntVar(&controllerPort, "port", 0, "Controller telnet port (default 23)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "Integration account username")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(zoneCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(trimtestCmd)
}

// scanCmd discovers the controller on the local subnet
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the local subnet for the controller",
	Long: `Scan the local /24 subnet for the lighting controller.

The scanner probes candidate addresses in concurrent batches, reads each
responder's banner, and stops as soon as a controller-like host answers.
When mDNS is enabled, advertised controllers are probed first.

The first controller-like host found is saved to the settings file so
later commands can omit --host.`,
	Example: `  # Interactive scan with live progress
  ra2audit scan

  # Plain output, suitable for scripts
  ra2audit scan --no-tui

  # Probe a non-standard port, skip the mDNS pre-pass
  ra2audit scan --scan-port 2023 --no-mdns`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Disable the interactive scan view")
	scanCmd.Flags().IntVar(&scanPort, "scan-port", 0, "Port to probe (default 23)")
	scanCmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Skip the mDNS pre-pass")
}

func runScan(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	scanner := scan.NewScanner()
	if settings.Scan.Port > 0 {
		scanner.Port = settings.Scan.Port
	}
	if scanPort > 0 {
		scanner.Port = scanPort
	}
	if settings.Scan.MDNS && !noMDNS {
		scanner.MDNSTimeout = time.Duration(settings.Scan.MDNSTimeoutSeconds) * time.Second
	}

	var hosts []scan.Host
	if noTUI || !term.IsTerminal(int(os.Stdout.Fd())) {
		hosts, err = runScanPlain(cmd.Context(), scanner)
	} else {
		hosts, err = ui.RunScanView(scanner)
	}
	if err != nil {
		return err
	}

	if len(hosts) == 0 {
		ui.PrintFailure("No responding hosts found", nil, []string{
			"Ensure the controller is powered on and on this subnet",
			"Check that telnet integration is enabled on the controller",
			"Use --host to specify the address manually",
		})
		return nil
	}

	fmt.Printf("Found %d responding host(s):\n\n", len(hosts))
	for i, host := range hosts {
		marker := ""
		if host.ControllerLike {
			marker = "  ← controller"
		}
		fmt.Printf("%d. %s:%d%s\n", i+1, host.IPAddress, host.Port, marker)
		if banner := strings.TrimSpace(host.Banner); banner != "" {
			fmt.Printf("   Banner: %q\n", banner)
		}
	}
	fmt.Println()

	if hosts[0].ControllerLike {
		settings.Controller.Host = hosts[0].IPAddress
		settings.Controller.Port = hosts[0].Port
		if err := settings.Save(); err != nil {
			fmt.Printf("Warning: could not save settings: %v\n", err)
		} else {
			fmt.Printf("Saved %s:%d as the controller address.\n", hosts[0].IPAddress, hosts[0].Port)
		}
		fmt.Println("Use 'ra2audit login' to store the integration credentials.")
	}

	return nil
}

// runScanPlain runs the scan without the interactive view, printing
// progress to stderr so stdout stays parseable.
func runScanPlain(ctx context.Context, scanner *scan.Scanner) ([]scan.Host, error) {
	scanner.OnProgress = func(scanned, total int) {
		fmt.Fprintf(os.Stderr, "\rScanning %d/%d", scanned, total)
	}
	hosts, err := scanner.ScanSubnet(ctx)
	fmt.Fprintln(os.Stderr)
	return hosts, err
}

// loginCmd stores the integration credentials for the controller
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store integration credentials for the controller",
	Long: `Prompt for the integration account password, verify it against the
controller, and store it for later commands.

The password is kept in a credentials file with user-only permissions,
separate from the settings file.`,
	Example: `  # Log in to the saved controller
  ra2audit login

  # Log in to a specific controller
  ra2audit login --host 192.168.1.10 --username lutron`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	host, port, user := resolveController(settings)
	if host == "" {
		return fmt.Errorf("no controller address known; run 'ra2audit scan' or pass --host")
	}

	fmt.Printf("Controller: %s:%d\n", host, port)
	fmt.Printf("Username:   %s\n", user)
	fmt.Print("Password:   ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)

	client := ra2.NewClient()
	if err := client.Connect(cmd.Context(), host, port, user, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	client.Disconnect()

	if err := config.SaveCredential(host, user, password); err != nil {
		return fmt.Errorf("credentials verified but could not be stored: %w", err)
	}

	settings.Controller.Host = host
	settings.Controller.Port = port
	settings.Controller.Username = user
	if err := settings.Save(); err != nil {
		fmt.Printf("Warning: could not save settings: %v\n", err)
	}

	fmt.Println("✓ Credentials verified and stored")
	return nil
}

// zoneCmd groups direct zone operations
var zoneCmd = &cobra.Command{
	Use:   "zone",
	Short: "Query and control individual zones",
}

var zoneGetCmd = &cobra.Command{
	Use:   "get <integration-id>",
	Short: "Query a zone's current level",
	Example: `  ra2audit zone get 5
  ra2audit zone get 5 --host 192.168.1.10`,
	Args: cobra.ExactArgs(1),
	RunE: runZoneGet,
}

var zoneSetCmd = &cobra.Command{
	Use:   "set <integration-id> <level>",
	Short: "Set a zone's level (0-100)",
	Example: `  # Snap to 75%
  ra2audit zone set 5 75

  # Fade to 30% over 4 seconds
  ra2audit zone set 5 30 --fade 4`,
	Args: cobra.ExactArgs(2),
	RunE: runZoneSet,
}

var zoneIdentifyCmd = &cobra.Command{
	Use:   "identify <integration-id>",
	Short: "Flash a zone to identify it physically",
	Long: `Flash a zone full-off-full so it can be located in the house.
Useful when integration IDs and physical fixtures have drifted apart.`,
	Args: cobra.ExactArgs(1),
	RunE: runZoneIdentify,
}

var zoneNoteCmd = &cobra.Command{
	Use:   "note <integration-id> [text...]",
	Short: "Record an operator note for a zone",
	Long: `Record a free-form note against a zone, shown whenever the zone is
queried. Calling without text clears the note.`,
	Example: `  ra2audit zone note 5 flickers below 20%
  ra2audit zone note 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runZoneNote,
}

func init() {
	zoneSetCmd.Flags().Float64Var(&fadeSeconds, "fade", 0, "Fade time in seconds")
	zoneCmd.AddCommand(zoneGetCmd)
	zoneCmd.AddCommand(zoneSetCmd)
	zoneCmd.AddCommand(zoneIdentifyCmd)
	zoneCmd.AddCommand(zoneNoteCmd)
}

func runZoneGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid integration ID: %w", err)
	}

	client, err := connectClient(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	level, err := client.QueryZoneLevel(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Printf("Zone %d: %.1f%%\n", id, level)
	if settings, err := config.LoadSettings(); err == nil {
		if note, ok := settings.Note(id); ok {
			fmt.Printf("Note:   %s\n", note)
		}
	}
	return nil
}

func runZoneNote(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid integration ID: %w", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	note := strings.Join(args[1:], " ")
	settings.SetNote(id, note)
	if err := settings.Save(); err != nil {
		return err
	}

	if note == "" {
		fmt.Printf("Cleared note for zone %d\n", id)
	} else {
		fmt.Printf("Zone %d: %s\n", id, note)
	}
	return nil
}

func runZoneSet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid integration ID: %w", err)
	}
	level, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}

	client, err := connectClient(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	if err := client.SetZoneLevel(id, level, fadeSeconds); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}

	fmt.Printf("Zone %d → %s%%\n", id, args[1])
	return nil
}

func runZoneIdentify(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid integration ID: %w", err)
	}

	client, err := connectClient(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	fmt.Printf("Flashing zone %d...\n", id)
	if err := client.IdentifyZone(cmd.Context(), id); err != nil {
		return fmt.Errorf("identify failed: %w", err)
	}
	fmt.Println("✓ Done")
	return nil
}

// sceneCmd presses a keypad scene button
var sceneCmd = &cobra.Command{
	Use:   "scene <keypad-id> <button>",
	Short: "Activate a keypad scene button",
	Example: `  # Press button 3 on keypad 21
  ra2audit scene 21 3`,
	Args: cobra.ExactArgs(2),
	RunE: runScene,
}

func runScene(cmd *cobra.Command, args []string) error {
	keypadID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid keypad ID: %w", err)
	}
	button, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid button number: %w", err)
	}

	client, err := connectClient(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	if err := client.ActivateScene(keypadID, button); err != nil {
		return fmt.Errorf("scene activation failed: %w", err)
	}

	fmt.Printf("Pressed button %d on keypad %d\n", button, keypadID)
	return nil
}

// reconcileCmd cross-references the two inventories
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the controller inventory against an accessory registry export",
	Long: `Cross-reference the controller's device inventory against a smart-home
accessory registry export and report the mismatches: devices missing on
either side, near-miss name pairs, and room assignments that disagree.`,
	Example: `  # Report to the terminal
  ra2audit reconcile --inventory devices.yaml --registry accessories.yaml

  # Also export as CSV
  ra2audit reconcile --inventory devices.yaml --registry accessories.yaml --output findings.csv`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&inventoryPath, "inventory", "", "Controller device inventory file (YAML)")
	reconcileCmd.Flags().StringVar(&registryPath, "registry", "", "Accessory registry export file (YAML)")
	reconcileCmd.Flags().StringVar(&outputPath, "output", "", "Write results to a CSV file (- for stdout)")
	_ = reconcileCmd.MarkFlagRequired("inventory")
	_ = reconcileCmd.MarkFlagRequired("registry")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ui.PrintCommandHeader("Inventory Reconciliation", "ra2audit reconcile", map[string]string{
		"Inventory": inventoryPath,
		"Registry":  registryPath,
	})

	inventory, err := ra2.LoadInventory(inventoryPath)
	if err != nil {
		return err
	}

	accessories, err := registry.NewFileSource(registryPath).Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	results := reconcile.Run(inventory.Devices, accessories)

	if len(results) == 0 {
		ui.PrintSuccess("No mismatches found", map[string]string{
			"Devices":     strconv.Itoa(len(inventory.Devices)),
			"Accessories": strconv.Itoa(len(accessories)),
		})
		return nil
	}

	lastCategory := ""
	for _, r := range results {
		category := r.Category.String()
		if category != lastCategory {
			fmt.Printf("%s:\n", category)
			lastCategory = category
		}
		fmt.Printf("  - %s\n", r.Detail)
	}

	ui.PrintWarning("Reconciliation found mismatches", map[string]string{
		"Mismatches": strconv.Itoa(len(results)),
	})

	if outputPath != "" {
		if err := writeReconcileCSV(outputPath, results); err != nil {
			return err
		}
		if outputPath != "-" {
			fmt.Printf("Results written to %s\n", outputPath)
		}
	}

	return nil
}

func writeReconcileCSV(path string, results []reconcile.Result) error {
	if path == "-" {
		return reconcile.WriteCSV(os.Stdout, results)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	return reconcile.WriteCSV(f, results)
}

// trimtestCmd runs the brightness trim test
var trimtestCmd = &cobra.Command{
	Use:   "trimtest",
	Short: "Test dimmers for high-end brightness trim",
	Long: `Drive dimmers to full brightness, read back the level the controller
reports, and restore the previous level. A zone that settles below 100%
almost certainly has a high-end trim configured.

Lights will visibly flash during the test. By default every dimmer in
the inventory is tested; use --zone to test a single one.`,
	Example: `  # Test every dimmer in the inventory
  ra2audit trimtest --inventory devices.yaml

  # Test one zone, no confirmation prompt
  ra2audit trimtest --inventory devices.yaml --zone 5 --yes`,
	RunE: runTrimTest,
}

func init() {
	trimtestCmd.Flags().StringVar(&inventoryPath, "inventory", "", "Controller device inventory file (YAML)")
	trimtestCmd.Flags().StringVar(&outputPath, "output", "", "Write results to a CSV file (- for stdout)")
	trimtestCmd.Flags().IntVar(&zoneID, "zone", 0, "Test a single zone by integration ID")
	trimtestCmd.Flags().BoolVar(&skipConfirm, "yes", false, "Skip the confirmation prompt")
	trimtestCmd.Flags().BoolVar(&verbose, "verbose", false, "Show the protocol transcript after the test")
	_ = trimtestCmd.MarkFlagRequired("inventory")
}

func runTrimTest(cmd *cobra.Command, args []string) error {
	inventory, err := ra2.LoadInventory(inventoryPath)
	if err != nil {
		return err
	}

	var devices []ra2.Device
	if zoneID > 0 {
		device, ok := inventory.ByIntegrationID(zoneID)
		if !ok {
			return fmt.Errorf("zone %d is not in the inventory", zoneID)
		}
		if !device.IsDimmable() {
			return fmt.Errorf("zone %d (%s) is not a dimmer", zoneID, device.Name)
		}
		devices = []ra2.Device{*device}
	} else {
		devices = inventory.Dimmable()
	}

	if len(devices) == 0 {
		fmt.Println("No dimmable zones in the inventory; nothing to test.")
		return nil
	}

	if !skipConfirm && !ui.TrimTestConfirmation(len(devices)) {
		return nil
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	host, port, _ := resolveController(settings)

	// Capture received protocol events for the verbose transcript. The
	// callback runs on the client's receive goroutine.
	var transcriptMu sync.Mutex
	var transcript strings.Builder
	var onEvent func(protocol.Event)
	if verbose {
		onEvent = func(ev protocol.Event) {
			transcriptMu.Lock()
			transcript.WriteString(ev.String())
			transcript.WriteByte('\n')
			transcriptMu.Unlock()
		}
	}

	client, err := connectClient(cmd.Context(), onEvent)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	tester := trim.NewTester(client)

	stepNames := make([]string, len(devices))
	for i, d := range devices {
		stepNames[i] = d.Name
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Brightness Trim Test",
		Command: "ra2audit trimtest",
		Params: map[string]string{
			"Controller": fmt.Sprintf("%s:%d", host, port),
			"Zones":      strconv.Itoa(len(devices)),
		},
		TotalSteps: len(devices),
		StepNames:  stepNames,
		Verbose:    verbose,
	})

	var results []trim.Result
	failed := 0
	_ = runner.Run(cmd.Context(), func(onStep ui.StepCallback) error {
		for i, device := range devices {
			onStep(i+1, device.Name, ui.StepRunning, "")
			result, err := tester.TestDevice(cmd.Context(), device)
			if err != nil {
				failed++
				onStep(i+1, device.Name, ui.StepFailed, err.Error())
				continue
			}
			results = append(results, result)
			onStep(i+1, device.Name, ui.StepComplete, string(result.Status))
		}

		transcriptMu.Lock()
		runner.SetTranscript(transcript.String())
		transcriptMu.Unlock()
		return nil
	})

	fmt.Printf("\nTested %d of %d zone(s):\n\n", len(results), len(devices))
	for _, r := range results {
		fmt.Printf("  %-30s %-15s %s\n", r.Device.Name, r.Status, r.Notes)
	}
	if failed > 0 {
		fmt.Printf("\n%d zone(s) failed to complete; rerun with RA2AUDIT_LOG_LEVEL=debug for detail.\n", failed)
	}

	if outputPath != "" {
		if outputPath == "-" {
			return trim.WriteCSV(os.Stdout, results)
		}
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		if err := trim.WriteCSV(f, results); err != nil {
			return err
		}
		fmt.Printf("\nResults written to %s\n", outputPath)
	}

	return nil
}

// resolveController merges flags over saved settings for the controller
// address and account.
func resolveController(settings *config.Settings) (host string, port int, user string) {
	host = settings.Controller.Host
	if controllerHost != "" {
		host = controllerHost
	}

	port = settings.Controller.Port
	if controllerPort > 0 {
		port = controllerPort
	}
	if port == 0 {
		port = scan.DefaultPort
	}

	user = settings.Controller.Username
	if username != "" {
		user = username
	}
	if user == "" {
		user = "lutron"
	}
	return host, port, user
}

// connectClient opens a ready session to the controller using saved
// settings, flags, and stored credentials; it prompts for the password
// only when nothing is stored. A non-nil onEvent receives every parsed
// protocol event, installed before the receive loop starts.
func connectClient(ctx context.Context, onEvent func(protocol.Event)) (*ra2.Client, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	host, port, user := resolveController(settings)
	if host == "" {
		return nil, fmt.Errorf("no controller address known; run 'ra2audit scan' or pass --host")
	}

	password, ok := config.RetrieveCredential(host, user)
	if !ok {
		fmt.Printf("No stored password for %s@%s.\n", user, host)
		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		password = string(passwordBytes)
	}

	client := ra2.NewClient()
	client.OnEvent = onEvent
	if err := client.Connect(ctx, host, port, user, password); err != nil {
		return nil, fmt.Errorf("failed to connect to %s:%d: %w", host, port, err)
	}
	return client, nil
}
