package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version of the front end, checked against the "compiler" constraint of a
// project file.
const Version = "0.1.0"

const (
	DefaultProjectFile = "rbc.json"
	SourceExtension    = ".rbl"
)

var (
	ErrNoSources            = errors.New("no source files given")
	ErrBadExtension         = errors.New("source files must end with " + SourceExtension)
	ErrIncompatibleCompiler = errors.New("incompatible compiler version")
)

// ProjectFile is the on-disk form of rbc.json. Relative sources are resolved
// against the directory holding the file.
type ProjectFile struct {
	Sources    []string `json:"sources"`
	Compiler   string   `json:"compiler"`
	DumpTokens bool     `json:"dump_tokens"`
	DumpAST    bool     `json:"dump_ast"`
}

type Config struct {
	Sources     []string
	DumpTokens  bool
	DumpAST     bool
	Watch       bool
	Jobs        int
	ProjectFile string
}

// Parse builds a Config from command line arguments. Flags win over values
// read from the project file. When -config is not given, rbc.json in the
// working directory is used if present. A -help request is reported as
// flag.ErrHelp.
func Parse(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("rbc", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&cfg.DumpTokens, "tokens", false, "print the token stream of every source")
	fs.BoolVar(&cfg.DumpAST, "ast", false, "print the syntax tree of every source")
	fs.BoolVar(&cfg.Watch, "watch", false, "check again whenever a source changes")
	fs.IntVar(&cfg.Jobs, "j", runtime.NumCPU(), "number of sources checked in parallel")
	fs.StringVar(&cfg.ProjectFile, "config", "", "project file path (default "+DefaultProjectFile+" if present)")

	fs.Usage = func() {
		fmt.Fprintf(output, "RubbishLanguage (rblang) compiler front end %s\n\n", Version)
		fmt.Fprintf(output, "Usage: rbc [options] source%s...\n\nOptions:\n", SourceExtension)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	projectPath := cfg.ProjectFile
	if projectPath == "" {
		if _, err := os.Stat(DefaultProjectFile); err == nil {
			projectPath = DefaultProjectFile
		}
	}

	if projectPath != "" {
		project, err := LoadProjectFile(projectPath)
		if err != nil {
			return nil, err
		}
		cfg.ProjectFile = projectPath
		cfg.merge(project, filepath.Dir(projectPath), set)
	}

	if fs.NArg() > 0 {
		cfg.Sources = fs.Args()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) merge(project *ProjectFile, dir string, set map[string]bool) {
	if !set["tokens"] {
		c.DumpTokens = project.DumpTokens
	}
	if !set["ast"] {
		c.DumpAST = project.DumpAST
	}

	c.Sources = make([]string, 0, len(project.Sources))
	for _, source := range project.Sources {
		if !filepath.IsAbs(source) {
			source = filepath.Join(dir, source)
		}
		c.Sources = append(c.Sources, source)
	}
}

func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	for _, source := range c.Sources {
		if !strings.HasSuffix(source, SourceExtension) {
			return fmt.Errorf("%w: %s", ErrBadExtension, source)
		}
	}

	if c.Jobs < 1 {
		return fmt.Errorf("-j must be at least 1, got %d", c.Jobs)
	}

	return nil
}

// LoadProjectFile reads and validates a project file.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var project ProjectFile
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	if err := CheckCompiler(project.Compiler); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &project, nil
}

// CheckCompiler reports whether Version satisfies constraint. An empty
// constraint accepts any version.
func CheckCompiler(constraint string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid compiler constraint %q: %w", constraint, err)
	}

	if !c.Check(semver.MustParse(Version)) {
		return fmt.Errorf("%w: %s does not satisfy %q", ErrIncompatibleCompiler, Version, constraint)
	}

	return nil
}
