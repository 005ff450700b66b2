package config

// Config holds the tunable settings of a generation run.
// Every field may come from the YAML config file; unset values fall back to Defaults().
type Config struct {
	PackageManager    string `yaml:"package_manager"`    // Alire executable, usually "alr"
	Generator         string `yaml:"generator"`          // Utility name of the SVD generator, e.g. "svd2ada"
	Compiler          string `yaml:"compiler"`           // Cross compiler crate added first, e.g. "gnat_arm_elf"
	RuntimeDependency string `yaml:"runtime_dependency"` // Crate the generated code depends on, e.g. "hal"
	Target            string `yaml:"target"`             // GPR target, e.g. "arm-elf"
	Runtime           string `yaml:"runtime"`            // Ada runtime, e.g. "light-cortex-m4f"
	InstallDir        string `yaml:"install_dir"`        // Where alr builds utilities; defaults to <app dir>/tmp
	HeaderLine        *int   `yaml:"header_line"`        // 0-based line index in the .gpr file where configuration is inserted
}

// Defaults returns the settings used when neither the config file nor flags override them.
func Defaults() Config {
	return Config{
		PackageManager:    "alr",
		Generator:         "svd2ada",
		Compiler:          "gnat_arm_elf",
		RuntimeDependency: "hal",
		Target:            "arm-elf",
		Runtime:           "light-cortex-m4f",
		HeaderLine:        intPtr(defaultHeaderLine),
	}
}

// defaultHeaderLine places the block right after `project X is` in a descriptor generated by alr.
const defaultHeaderLine = 2

// InsertLine returns the configured insertion index, falling back to the default when unset.
func (c Config) InsertLine() int {
	if c.HeaderLine == nil {
		return defaultHeaderLine
	}
	return *c.HeaderLine
}

func intPtr(v int) *int { return &v }

// AppContext carries the process-wide directories and flags for one run.
// It is built once by the CLI layer and passed down explicitly.
type AppContext struct {
	AppDir     string // Per-user haligen directory holding state and temporary installs
	WorkingDir string // Directory haligen was started from
	InstallDir string // Target of `alr get -b`
	StatePath  string // JSON state file
	Config     Config

	AssumeYes bool // Answer yes to the install prompt
	Force     bool // Re-run every lifecycle step even if state says it is done
}
