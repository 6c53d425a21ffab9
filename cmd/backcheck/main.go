// BackCheck — Backing Clash Detection & Placement Optimization
//
// A command-line tool for annotating 2D construction drawings with
// backing placements, detecting placement clashes, and grouping
// backings into material-efficient installation zones.
//
// Build:
//   go build -o backcheck ./cmd/backcheck
//
// Typical use:
//   backcheck -walls plan.dxf -backings schedule.csv -pdf report.pdf
//   backcheck -project job.json -xlsx schedule.xlsx -labels labels.pdf
//   backcheck -project job.json -backup job-backup.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/BackCheck/internal/engine"
	"github.com/piwi3910/BackCheck/internal/export"
	"github.com/piwi3910/BackCheck/internal/importer"
	"github.com/piwi3910/BackCheck/internal/model"
	"github.com/piwi3910/BackCheck/internal/project"
)

type cliOptions struct {
	projectPath  string
	wallsPath    string
	backingsPath string
	outPath      string
	pdfPath      string
	xlsxPath     string
	labelsPath   string
	backupPath   string
	restorePath  string
	grouping     float64
	wastePct     float64
	quiet        bool
}

func main() {
	var opts cliOptions
	flag.StringVar(&opts.projectPath, "project", "", "project JSON file to analyze")
	flag.StringVar(&opts.wallsPath, "walls", "", "DXF floor plan to import walls from")
	flag.StringVar(&opts.backingsPath, "backings", "", "backing schedule (.csv or .xlsx) to import")
	flag.StringVar(&opts.outPath, "out", "", "write the project with analysis results to this JSON file")
	flag.StringVar(&opts.pdfPath, "pdf", "", "write a PDF clash/zone report to this file")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "write an Excel schedule/clash workbook to this file")
	flag.StringVar(&opts.labelsPath, "labels", "", "write QR-coded zone labels PDF to this file")
	flag.StringVar(&opts.backupPath, "backup", "", "write config and the loaded project to this backup JSON file and exit")
	flag.StringVar(&opts.restorePath, "restore", "", "restore config (and the project, with -out) from a backup JSON file and exit")
	flag.Float64Var(&opts.grouping, "grouping", 0, "override zone grouping distance (inches)")
	flag.Float64Var(&opts.wastePct, "waste", 0, "override material waste allowance (percent)")
	flag.BoolVar(&opts.quiet, "quiet", false, "suppress progress output")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "backcheck:", err)
		os.Exit(2)
	}
}

func run(opts cliOptions) error {
	configPath := project.DefaultConfigPath()
	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := ensureConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if opts.restorePath != "" {
		return restoreData(opts.restorePath, configPath, opts.outPath, opts.quiet)
	}

	proj, err := assembleProject(opts, config)
	if err != nil {
		return err
	}

	if opts.backupPath != "" {
		return backupData(opts.backupPath, config, proj, opts.quiet)
	}

	if len(proj.Backings) == 0 && len(proj.Walls) == 0 {
		flag.Usage()
		return fmt.Errorf("nothing to analyze: supply -project, -walls, or -backings")
	}

	if opts.grouping != 0 {
		proj.Settings.Optimize.GroupingDistance = opts.grouping
	}
	waste := config.DefaultWastePercent
	if opts.wastePct != 0 {
		waste = opts.wastePct
	}

	var progress engine.ProgressFunc
	if !opts.quiet {
		progress = func(stage engine.Stage, pct int) {
			fmt.Printf("\r%-10s %3d%%", stage, pct)
			if pct >= 100 {
				fmt.Println()
			}
		}
	}

	analyzer := engine.NewAnalyzer(proj.Settings, progress)
	results, err := analyzer.RunAll(context.Background(), nil, proj.Walls, proj.Backings)
	if err != nil {
		return err
	}
	proj.Results = &results

	estimate := model.CalculatePurchaseEstimate(results.Zones, proj.Settings.Optimize, waste, 0)
	printSummary(results, estimate, opts.quiet)

	if opts.outPath != "" {
		if err := project.Save(opts.outPath, proj); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}
	}
	if opts.pdfPath != "" {
		if err := export.ExportPDF(opts.pdfPath, results, estimate); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
	}
	if opts.xlsxPath != "" {
		if err := export.ExportExcel(opts.xlsxPath, results); err != nil {
			return fmt.Errorf("failed to export Excel: %w", err)
		}
	}
	if opts.labelsPath != "" {
		if err := export.ExportLabels(opts.labelsPath, results.Zones); err != nil {
			return fmt.Errorf("failed to export labels: %w", err)
		}
	}

	if !results.ReadyForInstall() {
		os.Exit(1)
	}
	return nil
}

// ensureConfig writes the config file on first run so later edits and
// backups have a file to start from. An existing file is left alone.
func ensureConfig(path string, config model.AppConfig) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return project.SaveAppConfig(path, config)
}

// backupData exports the app config, plus the loaded project when one
// was supplied, to a single backup file.
func backupData(path string, config model.AppConfig, proj project.Project, quiet bool) error {
	var projects []project.Project
	if len(proj.Backings) > 0 || len(proj.Walls) > 0 {
		projects = append(projects, proj)
	}
	if err := project.ExportAllData(path, config, projects); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if !quiet {
		fmt.Printf("Backed up config and %d project(s) to %s\n", len(projects), path)
	}
	return nil
}

// restoreData applies a backup file: the config is written back to its
// default location, and the first contained project is written to
// outPath when one is given.
func restoreData(backupPath, configPath, outPath string, quiet bool) error {
	backup, err := project.ImportAllData(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := project.SaveAppConfig(configPath, backup.Config); err != nil {
		return fmt.Errorf("failed to restore config: %w", err)
	}
	if len(backup.Projects) > 0 && outPath != "" {
		if err := project.Save(outPath, backup.Projects[0]); err != nil {
			return fmt.Errorf("failed to restore project: %w", err)
		}
	}
	if !quiet {
		fmt.Printf("Restored config and %d project(s) from %s\n", len(backup.Projects), backupPath)
	}
	return nil
}

// assembleProject loads or builds the project from the given sources.
// Imported walls/backings are merged into the loaded project when both
// are supplied.
func assembleProject(opts cliOptions, config model.AppConfig) (project.Project, error) {
	proj := project.NewProject()
	config.ApplyToSettings(&proj.Settings)

	if opts.projectPath != "" {
		loaded, err := project.Load(opts.projectPath)
		if err != nil {
			return proj, fmt.Errorf("failed to load project: %w", err)
		}
		proj = loaded
	}

	if opts.wallsPath != "" {
		result := importer.ImportWallsDXF(opts.wallsPath)
		reportImportIssues("walls", result.Errors, result.Warnings, opts.quiet)
		if len(result.Errors) > 0 {
			return proj, fmt.Errorf("wall import failed")
		}
		walls, warnings := importer.SnapOrthogonal(result.Walls, 2.0)
		reportImportIssues("walls", nil, warnings, opts.quiet)
		proj.Walls = walls
	}

	if opts.backingsPath != "" {
		var result importer.ImportResult
		if strings.HasSuffix(strings.ToLower(opts.backingsPath), ".xlsx") {
			result = importer.ImportBackingsExcel(opts.backingsPath)
		} else {
			result = importer.ImportBackingsCSV(opts.backingsPath)
		}
		reportImportIssues("backings", result.Errors, result.Warnings, opts.quiet)
		if len(result.Backings) == 0 {
			return proj, fmt.Errorf("backing import produced no placements")
		}
		proj.Backings = result.Backings
	}

	return proj, nil
}

func reportImportIssues(what string, errors, warnings []string, quiet bool) {
	for _, e := range errors {
		fmt.Fprintf(os.Stderr, "%s import error: %s\n", what, e)
	}
	if quiet {
		return
	}
	for _, w := range warnings {
		fmt.Printf("%s import: %s\n", what, w)
	}
}

func printSummary(results engine.DetectionResults, estimate model.PurchaseEstimate, quiet bool) {
	errors, warnings := 0, 0
	for _, c := range results.Clashes {
		if c.Severity == model.SeverityError {
			errors++
		} else {
			warnings++
		}
	}

	fmt.Printf("%d walls, %d openings, %d zones, %d clashes (%d errors, %d warnings)\n",
		len(results.Walls), len(results.Doors), len(results.Zones), len(results.Clashes), errors, warnings)

	if !quiet {
		for _, msg := range engine.FormatClashMessages(results.Clashes) {
			fmt.Println(" ", msg)
		}
		for _, line := range estimate.Lines {
			fmt.Printf("  %s: buy %d sticks (%.1f bf)\n", line.Material, line.SticksNeeded, line.BoardFeet)
		}
	}

	if results.ReadyForInstall() {
		fmt.Println("Ready for install.")
	} else {
		fmt.Println("Blocked: resolve error clashes before sign-off.")
	}
}
