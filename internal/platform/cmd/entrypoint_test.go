package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	DBPath string `env:"CMD_TEST_DB_PATH" envDefault:"data/test.db"`
	Mode   string `env:"CMD_TEST_MODE" envDefault:"advise"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_DB_PATH", "env.db")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.DBPath, "db-path", cfgRef.DBPath, "db path")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"-db-path", "flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.DBPath != "flag.db" {
		t.Fatalf("expected flag value for db path, got %q", cfgRef.DBPath)
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_DB_PATH", "configarg.db")
	t.Setenv("CMD_TEST_MODE", "configarg-mode")

	cfgRef := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfgRef.DBPath, "db-path", "", "db path")
	fs.StringVar(&cfgRef.Mode, "mode", "", "mode")
	if err := ParseConfigFromArgs(&cfgRef, fs, []string{"-db-path", "flag2.db"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.DBPath != "flag2.db" {
		t.Fatalf("expected parsed flag db path, got %q", cfgRef.DBPath)
	}
	if cfgRef.Mode != "configarg-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(nil, "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(nil, ServiceCounsel, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
