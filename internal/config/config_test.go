package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultProjectFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write project file: %v", err)
	}
	return path
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{"-tokens", "-j", "3", "a.rbl", "dir/b.rbl"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !cfg.DumpTokens || cfg.DumpAST || cfg.Watch {
		t.Errorf("dump/watch flags = %v/%v/%v, want true/false/false", cfg.DumpTokens, cfg.DumpAST, cfg.Watch)
	}
	if cfg.Jobs != 3 {
		t.Errorf("Jobs = %d, want 3", cfg.Jobs)
	}
	if want := []string{"a.rbl", "dir/b.rbl"}; !slices.Equal(cfg.Sources, want) {
		t.Errorf("Sources = %v, want %v", cfg.Sources, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no sources", []string{"-ast"}, ErrNoSources},
		{"wrong extension", []string{"main.rb"}, ErrBadExtension},
		{"one bad among many", []string{"a.rbl", "b.txt"}, ErrBadExtension},
		{"help", []string{"-help"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, &bytes.Buffer{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%v) = %v, want %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestParseRejectsZeroJobs(t *testing.T) {
	if _, err := Parse([]string{"-j", "0", "a.rbl"}, &bytes.Buffer{}); err == nil {
		t.Error("Parse with -j 0 succeeded, want error")
	}
}

func TestParseProjectFile(t *testing.T) {
	path := writeProject(t, `{
		"sources": ["main.rbl", "lib/math.rbl"],
		"compiler": ">= 0.1.0, < 1.0.0",
		"dump_tokens": true,
		"dump_ast": true
	}`)
	dir := filepath.Dir(path)

	cfg, err := Parse([]string{"-config", path, "-ast=false"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{filepath.Join(dir, "main.rbl"), filepath.Join(dir, "lib", "math.rbl")}
	if !slices.Equal(cfg.Sources, want) {
		t.Errorf("Sources = %v, want %v", cfg.Sources, want)
	}
	if !cfg.DumpTokens {
		t.Error("DumpTokens = false, want the project file value")
	}
	if cfg.DumpAST {
		t.Error("DumpAST = true, want the -ast=false flag to win")
	}
	if cfg.ProjectFile != path {
		t.Errorf("ProjectFile = %q, want %q", cfg.ProjectFile, path)
	}
}

func TestArgumentsReplaceProjectSources(t *testing.T) {
	path := writeProject(t, `{"sources": ["main.rbl"]}`)

	cfg, err := Parse([]string{"-config", path, "other.rbl"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := []string{"other.rbl"}; !slices.Equal(cfg.Sources, want) {
		t.Errorf("Sources = %v, want %v", cfg.Sources, want)
	}
}

func TestLoadProjectFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"newer compiler required", `{"sources": ["a.rbl"], "compiler": ">= 2.0.0"}`, ErrIncompatibleCompiler},
		{"malformed json", `{"sources": `, nil},
		{"bad constraint", `{"compiler": "not a version"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProjectFile(writeProject(t, tt.content))
			if err == nil {
				t.Fatal("LoadProjectFile succeeded, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadProjectFile = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMissingProjectFile(t *testing.T) {
	_, err := Parse([]string{"-config", filepath.Join(t.TempDir(), "nope.json"), "a.rbl"}, &bytes.Buffer{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Parse = %v, want a not-exist error", err)
	}
}

func TestCheckCompiler(t *testing.T) {
	tests := []struct {
		constraint string
		wantErr    bool
	}{
		{"", false},
		{"  ", false},
		{"0.1.0", false},
		{"^0.1", false},
		{">= 0.0.1", false},
		{"< 0.1.0", true},
		{"~1.2", true},
	}

	for _, tt := range tests {
		err := CheckCompiler(tt.constraint)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckCompiler(%q) = %v, wantErr %v", tt.constraint, err, tt.wantErr)
		}
	}
}
