package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/diagnostics"
	"github.com/metrix-scopf/metrix/internal/engine"
	"github.com/metrix-scopf/metrix/internal/ioformat"
	"github.com/metrix-scopf/metrix/internal/logging"
	"github.com/metrix-scopf/metrix/internal/network"
	solverref "github.com/metrix-scopf/metrix/internal/solver/reference"
	"github.com/metrix-scopf/metrix/internal/telemetry"
	"github.com/metrix-scopf/metrix/internal/variant"
)

var runCmd = &cobra.Command{
	Use:   "run <error-log> <variant-file> <results-prefix> <first-variant-index> <n-variants> <parades-file>",
	Args:  cobra.ExactArgs(6),
	Short: "Run a batch of network variants through the SCOPF engine",
	RunE:  runBatch,
}

var (
	flagDumpMPS              bool
	flagDumpSensitivity      bool
	flagDumpConstraints      bool
	flagConstraintCheckLevel int
	flagMetricsAddr          string
)

func init() {
	runCmd.Flags().BoolVar(&flagDumpMPS, "dump-mps", false, "dump the generated LP/MIP problem in MPS format")
	runCmd.Flags().BoolVar(&flagDumpSensitivity, "dump-sensitivity", false, "dump PTDF/LODF sensitivity tables")
	runCmd.Flags().BoolVar(&flagDumpConstraints, "dump-constraints", false, "dump the assembled constraint matrix")
	runCmd.Flags().IntVar(&flagConstraintCheckLevel, "constraint-check-level", 0, "constraint-matrix self-check level (0/1/2)")
	runCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	errLogPath, variantPath, resultsPrefix, firstIdxStr, nVariantsStr, paradesPath := args[0], args[1], args[2], args[3], args[4], args[5]

	opts, err := loadOptions()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	opts.DumpMPS = opts.DumpMPS || flagDumpMPS
	opts.DumpSensitivity = opts.DumpSensitivity || flagDumpSensitivity
	opts.DumpConstraintMatrix = opts.DumpConstraintMatrix || flagDumpConstraints
	if flagConstraintCheckLevel != 0 {
		opts.ConstraintCheckLevel = flagConstraintCheckLevel
	}
	if verbose {
		opts.LogLevel = int(logging.LevelDebug)
	} else if logLevel != 3 {
		opts.LogLevel = logLevel
	}

	errLog, err := os.Create(errLogPath)
	if err != nil {
		return fmt.Errorf("opening error log %s: %w", errLogPath, err)
	}
	defer errLog.Close()

	log := logging.New(logging.Config{Level: logging.Level(opts.LogLevel), Output: errLog})
	log.Info("metrix starting", "version", version, "mode", string(opts.Mode))

	metrics := telemetry.New()
	if flagMetricsAddr != "" {
		srv := &http.Server{Addr: flagMetricsAddr, Handler: metrics.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", "error", err)
			}
		}()
		log.Info("metrics server listening", "addr", flagMetricsAddr)
	}

	baseNet, err := loadBaseNetwork()
	if err != nil {
		return fmt.Errorf("building base network from configuration: %w", err)
	}
	log.Info("base network built", "nodes", baseNet.NumNodes(), "branches", baseNet.NumBranches(), "zones", baseNet.NumZones())

	variantFile, err := os.Open(variantPath)
	if err != nil {
		return fmt.Errorf("opening variant file %s: %w", variantPath, err)
	}
	defer variantFile.Close()
	variants := ioformat.NewCSVVariantReader(variantFile)

	paradesFile, err := os.Open(paradesPath)
	if err != nil {
		return fmt.Errorf("opening parades file %s: %w", paradesPath, err)
	}
	defer paradesFile.Close()
	parades := ioformat.NewCSVParadeReader(paradesFile)
	paradeCount, err := countParades(parades)
	if err != nil {
		return fmt.Errorf("reading parades file %s: %w", paradesPath, err)
	}
	log.Debug("parades loaded", "count", paradeCount)

	resultsFile, err := os.Create(resultsPrefix + ".csv")
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	results := ioformat.NewCSVResultWriter(resultsFile)
	defer results.Close()

	firstIdx, err := strconv.Atoi(firstIdxStr)
	if err != nil {
		return reportMalformedArgs(log, metrics, results, "first-variant-index", firstIdxStr, err)
	}
	nVariants, err := strconv.Atoi(nVariantsStr)
	if err != nil {
		return reportMalformedArgs(log, metrics, results, "n-variants", nVariantsStr, err)
	}

	driver := solverref.New()
	defer driver.Release()

	processed := 0
	idx := 0
	for nVariants < 0 || processed < nVariants {
		rec, err := variants.ReadVariant()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading variant: %w", err)
		}
		if idx < firstIdx {
			idx++
			continue
		}
		idx++
		processed++

		metrics.ActiveVariants.Inc()
		status := solveOneVariant(log, baseNet, opts, driver, metrics, rec)
		metrics.ActiveVariants.Dec()

		if err := results.WriteRow(ioformat.ResultRow{Tag: "C1", Fields: []string{rec.VariantID, status.String()}}); err != nil {
			return fmt.Errorf("writing result row: %w", err)
		}
	}

	log.Info("metrix finished", "variantsProcessed", processed)
	return nil
}

// solveOneVariant applies a variant's overlay (when it carries recognized
// updates) on top of the base network, then drives the SCOPF engine over
// the resulting topology. Rollback restores the base network regardless
// of outcome, so the next variant always starts from the unmodified base.
func solveOneVariant(log *logging.Logger, baseNet *network.Network, opts config.Options, driver *solverref.Reference, metrics *telemetry.Metrics, rec ioformat.VariantRecord) diagnostics.Code {
	overlay, err := overlayFromRecord(baseNet, rec)
	if err != nil {
		log.Error("variant overlay could not be built", "variantID", rec.VariantID, "error", err)
		metrics.ObserveOutcome(diagnostics.VariantIgnored)
		return diagnostics.VariantIgnored
	}
	if err := overlay.Apply(baseNet); err != nil {
		log.Error("variant overlay failed to apply", "variantID", rec.VariantID, "error", err)
		metrics.ObserveOutcome(diagnostics.VariantIgnored)
		return diagnostics.VariantIgnored
	}
	defer overlay.Rollback(baseNet)

	result, err := engine.RunVariant(baseNet, opts, driver, metrics)
	if err != nil {
		log.Error("variant solve failed", "variantID", rec.VariantID, "error", err)
		metrics.ObserveOutcome(diagnostics.InternalError)
		return diagnostics.InternalError
	}
	log.Info("variant solved", "variantID", rec.VariantID, "status", result.Status.String(),
		"microIterations", result.MicroIterations, "cutsAdded", result.CutsAdded)
	return result.Status
}

// overlayFromRecord translates a variant record's raw update keys into an
// Overlay of concrete deltas. "outage=<branchID>" opens a branch;
// "close=<branchID>" closes one back. Unrecognized update keys are
// ignored rather than rejected, so a variant stream carrying updates this
// build does not yet translate still runs with the updates it does
// recognize.
func overlayFromRecord(net *network.Network, rec ioformat.VariantRecord) (*variant.Overlay, error) {
	ov := variant.New(rec.VariantID)
	if id, ok := rec.Updates["outage"]; ok && id != "" {
		h, err := net.BranchHandleByID(id)
		if err != nil {
			return nil, fmt.Errorf("outage=%q: %w", id, err)
		}
		ov.Add(variant.BranchOutage{Branch: h, Open: true})
	}
	if id, ok := rec.Updates["close"]; ok && id != "" {
		h, err := net.BranchHandleByID(id)
		if err != nil {
			return nil, fmt.Errorf("close=%q: %w", id, err)
		}
		ov.Add(variant.BranchOutage{Branch: h, Open: false})
	}
	return ov, nil
}

func reportMalformedArgs(log *logging.Logger, metrics *telemetry.Metrics, results ioformat.ResultWriter, field, value string, parseErr error) error {
	log.Error("malformed positional argument", "field", field, "value", value, "error", parseErr)
	metrics.ObserveOutcome(diagnostics.NoSolution)
	_ = results.WriteRow(ioformat.ResultRow{Tag: "C1", Fields: []string{field, diagnostics.NoSolution.String()}})
	return fmt.Errorf("parsing %s=%q: %w", field, value, parseErr)
}

func loadOptions() (config.Options, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	f, err := os.Open(cfgFile)
	if err != nil {
		return config.Options{}, err
	}
	defer f.Close()
	kv, err := config.Parse(f)
	if err != nil {
		return config.Options{}, err
	}
	return config.FromKV(kv)
}

func loadBaseNetwork() (*network.Network, error) {
	if cfgFile == "" {
		return nil, fmt.Errorf("--config is required to build the base network")
	}
	f, err := os.Open(cfgFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	kv, err := config.Parse(f)
	if err != nil {
		return nil, err
	}
	return network.FromConfig(kv)
}

func countParades(r ioformat.ParadeReader) (int, error) {
	n := 0
	for {
		_, err := r.ReadParade()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		n++
	}
}
