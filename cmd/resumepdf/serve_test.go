package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-resumepdf/internal/config"
)

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, handler, slog.New(slog.DiscardHandler))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestMergeServeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeServeFlags(&serveFlags{addr: ":9000", workers: 3, maxBody: 1 << 10, timeout: time.Minute}, cfg)

	if cfg.Server.Addr != ":9000" || cfg.Server.Workers != 3 || cfg.Server.MaxBodyBytes != 1<<10 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Timeouts.Export != time.Minute {
		t.Errorf("Timeouts.Export = %v, want 1m", cfg.Timeouts.Export)
	}

	cfg = config.DefaultConfig()
	mergeServeFlags(&serveFlags{}, cfg)
	if cfg.Server.Addr != ":8080" || cfg.Server.MaxBodyBytes != 5<<20 {
		t.Errorf("empty flags changed defaults: %+v", cfg.Server)
	}
}

func TestRunServeCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"--nope"}, ExitUsage},
		{"too many workers", []string{"-w", "99"}, ExitUsage},
		{"bad address", []string{"-a", "not an address"}, ExitGeneral},
		{"help", []string{"--help"}, ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			if got := runServeCmd(context.Background(), tt.args, env.Environment); got != tt.want {
				t.Errorf("exit = %d, want %d (stderr %s)", got, tt.want, env.stderr)
			}
		})
	}
}

func TestRunServeCmd_ServesUntilCanceled(t *testing.T) {
	t.Parallel()

	// Reserve a free port, then hand it to the command.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- runServeCmd(ctx, []string{"-a", addr}, env.Environment)
	}()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get("http://" + addr + "/health"); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case code := <-done:
		if code != ExitSuccess {
			t.Errorf("exit = %d, want %d", code, ExitSuccess)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
	if !strings.Contains(env.stdout.String(), `"msg":"server: listening"`) {
		t.Errorf("stdout = %q, want JSON listening log", env.stdout)
	}
}
