package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"haligen/internal/alire"
	"haligen/internal/config"
	"haligen/internal/executor"
	"haligen/internal/installer"
	"haligen/internal/logger"
	"haligen/internal/project"
	"haligen/internal/state"
	"haligen/internal/svd2ada"
)

// generateOptions holds the flags of the generate command.
type generateOptions struct {
	packageName string
	target      string
	runtime     string
	force       bool
	yes         bool
}

var genOpts generateOptions

// generateCmd builds a HAL crate from an SVD file.
var generateCmd = &cobra.Command{
	Use:   "generate <svd_file> [output_dir]",
	Short: "Generate an Ada HAL crate from an SVD file",
	Long: `Code generator for Hardware Abstraction Layer (HAL) in Ada from
an SVD hardware specification file.

The crate is created in output_dir (default: the current directory), configured
for the selected target and runtime, and built once before and once after the
sources are generated. svd2ada is installed through Alire when it is missing.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := config.NewAppContext(configPath)
		if err != nil {
			return &usageError{err: err}
		}
		app.AssumeYes = genOpts.yes
		app.Force = genOpts.force

		plan, err := buildPlan(app, genOpts, args)
		if err != nil {
			return &usageError{err: err}
		}

		logger.Info("[INFO] Starting tool from directory: %s\n", app.WorkingDir)
		logger.Debug("[DEBUG] Plan: %+v\n", plan)

		_, err = newManager(app).Run(cmd.Context(), plan)
		return err
	},
}

// buildPlan validates the arguments and merges flags over the loaded config.
func buildPlan(app *config.AppContext, opts generateOptions, args []string) (project.Plan, error) {
	svd, err := validateSVD(args[0], app.WorkingDir)
	if err != nil {
		return project.Plan{}, err
	}

	outputDir := app.WorkingDir
	if len(args) > 1 {
		outputDir = args[1]
		if !filepath.IsAbs(outputDir) {
			outputDir = filepath.Join(app.WorkingDir, outputDir)
		}
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return project.Plan{}, fmt.Errorf("cannot create output directory: %w", err)
	}

	pkg := opts.packageName
	if pkg == "" {
		pkg = defaultPackageName(svd)
		logger.Info("[INFO] %q is chosen as the package name.\n", pkg)
	}

	cfg := app.Config
	if opts.target != "" {
		cfg.Target = opts.target
	}
	if opts.runtime != "" {
		cfg.Runtime = opts.runtime
	}

	return project.Plan{
		SVD:               svd,
		Package:           pkg,
		ParentDir:         outputDir,
		Target:            cfg.Target,
		Runtime:           cfg.Runtime,
		Compiler:          cfg.Compiler,
		RuntimeDependency: cfg.RuntimeDependency,
		Generator:         cfg.Generator,
		InstallDir:        app.InstallDir,
		Force:             app.Force,
	}, nil
}

// validateSVD checks that path names a readable regular file and returns it as an absolute path.
func validateSVD(path, workingDir string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(workingDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("SVD file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("SVD file %s is not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("SVD file is not readable: %w", err)
	}
	_ = f.Close()
	return path, nil
}

// defaultPackageName derives the package name from the SVD file name, e.g. STM32F40x.svd -> stm32f40x.
func defaultPackageName(svdPath string) string {
	base := filepath.Base(svdPath)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// newConfirmer builds the install prompt. Tests swap it for a non-interactive one.
var newConfirmer = func(assumeYes bool) installer.Confirmer {
	return installer.NewPrompt(assumeYes)
}

// newManager wires the lifecycle manager for one run.
func newManager(app *config.AppContext) *project.Manager {
	exec := executor.New(nil)
	alr := alire.New(app.Config.PackageManager, exec)
	store := state.Open(app.StatePath)

	return &project.Manager{
		Alire:     alr,
		Generator: svd2ada.New(exec),
		Tools: &installer.Installer{
			Alire:    alr,
			Resolver: installer.NewResolver(alr),
			Confirm:  newConfirmer(app.AssumeYes),
			Store:    store,
		},
		Store:      store,
		HeaderLine: app.Config.InsertLine(),
	}
}

func init() {
	generateCmd.Flags().StringVarP(&genOpts.packageName, "package-name", "p", "", "Package name (defaults to name of svd file)")
	generateCmd.Flags().StringVarP(&genOpts.target, "target", "t", "", "GPR target (default from config, arm-elf)")
	generateCmd.Flags().StringVarP(&genOpts.runtime, "runtime", "r", "", "Ada runtime (default from config, light-cortex-m4f)")
	generateCmd.Flags().BoolVarP(&genOpts.force, "force", "f", false, "Re-run every step even if a previous run completed it")
	generateCmd.Flags().BoolVarP(&genOpts.yes, "yes", "y", false, "Install missing utilities without asking")
}
