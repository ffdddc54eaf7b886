package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/flowkit/logger"
)

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Parse([]string{
		"--take=5", "--filter=^x", "--batch=2", "--separator=|",
		"--rate-limit=10ms", "--otel-endpoint=localhost:4318", "--log-level=debug",
	}); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t)
	cfg.Pipeline.Skip = 4
	applyFlags(cmd.Flags(), cfg)

	p := cfg.Pipeline
	if p.Take != 5 || p.Filter != "^x" || p.Batch != 2 || p.Separator != "|" {
		t.Errorf("flags not applied: %+v", p)
	}
	if p.RateLimit.String() != "10ms" {
		t.Errorf("expected 10ms rate limit, got %v", p.RateLimit)
	}
	if p.Skip != 4 {
		t.Errorf("unset flags must keep config values, got skip %d", p.Skip)
	}
	if cfg.Observe.Endpoint != "localhost:4318" || cfg.Logging.Level != "debug" {
		t.Errorf("observe/logging flags not applied: %+v %+v", cfg.Observe, cfg.Logging)
	}
}

func TestRun_Stdin(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.Batch = 2
	cfg.Pipeline.Separator = "+"
	cfg.Observe.MetricsFile = filepath.Join(t.TempDir(), "flowctl.prom")

	var out bytes.Buffer
	if err := run(context.Background(), cfg, "-", strings.NewReader("a\nb\nc\n"), &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "a+b\nc\n" {
		t.Errorf("unexpected output %q", out.String())
	}

	metrics, err := os.ReadFile(cfg.Observe.MetricsFile)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		`flowkit_flow_items_total{flow="flowctl.input"} 3`,
		`flowkit_flow_items_total{flow="flowctl.output"} 2`,
		`flowkit_flow_traversals_total{flow="flowctl.output",status="exhausted"} 1`,
	} {
		if !strings.Contains(string(metrics), want) {
			t.Errorf("expected %q in metrics:\n%s", want, metrics)
		}
	}
}

func TestRun_FileWithEarlyStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("# skip\nkeep 1\nkeep 2\nkeep 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t)
	cfg.Pipeline.SkipWhilePrefix = "#"
	cfg.Pipeline.Take = 1

	var out bytes.Buffer
	if err := run(context.Background(), cfg, path, nil, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "keep 1\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRun_MissingFile(t *testing.T) {
	cfg := testConfig(t)
	err := run(context.Background(), cfg, filepath.Join(t.TempDir(), "missing"), nil, &bytes.Buffer{})
	if err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestRootCmd_Execute(t *testing.T) {
	prev := logger.GetGlobalLogger()
	defer logger.SetGlobalLogger(prev)
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("1\n2\n3\n4\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--skip=1", "--window=2", "--separator=,"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "2,3\n3,4\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--batch=2", "--window=2"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected validation error for batch and window together")
	}
}

func TestRun_RedisUnreachable(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	addr := mini.Addr()
	mini.Close()

	cfg := testConfig(t)
	cfg.Redis.Addr = addr
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	err = run(context.Background(), cfg, "redis:in", nil, &stdout)
	if err == nil || !strings.Contains(err.Error(), "redis ping") {
		t.Errorf("expected ping failure, got %v", err)
	}
}

func TestRootCmd_Version(t *testing.T) {
	if newRootCmd().Version == "" {
		t.Error("expected a version string")
	}
}

func TestRun_RedisListToList(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mini.Close()
	for _, v := range []string{"a", "b", "c", "d"} {
		if _, err := mini.RPush("in", v); err != nil {
			t.Fatal(err)
		}
	}

	cfg := testConfig(t)
	cfg.Redis.Addr = mini.Addr()
	cfg.Output = "redis:out"
	cfg.Pipeline.Skip = 1
	cfg.Pipeline.Batch = 2
	cfg.Pipeline.Separator = "-"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), cfg, "redis:in", nil, &stdout); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}
	got, err := mini.List("out")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "b-c" || got[1] != "d" {
		t.Errorf("unexpected list contents %v", got)
	}
}

func TestSourceHelpers(t *testing.T) {
	if key, ok := redisKey("redis:events"); !ok || key != "events" {
		t.Errorf("expected key events, got %q %v", key, ok)
	}
	if _, ok := redisKey("redis:"); ok {
		t.Error("empty key is not a redis target")
	}
	if isRedis("events.txt") {
		t.Error("file path is not a redis target")
	}
}
