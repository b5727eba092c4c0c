package worker

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"rfc-mirror/pkg/httpclient"
)

func scenarioDocs() map[int]string {
	return map[int]string{
		1: "RFC one body",
		3: "RFC three body",
		4: "RFC four body",
		5: "RFC five body, never requested",
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestManager_ProcessRange_Scenario(t *testing.T) {
	for _, pipelined := range []bool{false, true} {
		name := "sequential"
		if pipelined {
			name = "pipelined"
		}
		t.Run(name, func(t *testing.T) {
			logs := captureLog(t)
			server := newRFCServer(t, scenarioDocs())
			w, fileStore := newTestWorker(t, server.URL)

			manager := NewManager(Config{WorkerCount: 10, Pipelined: pipelined, Worker: w})
			stats, err := manager.ProcessRange(context.Background(), 5)
			if err != nil {
				t.Fatalf("ProcessRange failed: %v", err)
			}

			// total is exclusive: 5 is never requested
			if got := server.requestedIDs(); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
				t.Errorf("Expected IDs 1-4 to be requested, got %v", got)
			}

			expectedFiles := []string{"RFC-0001.txt", "RFC-0003.txt", "RFC-0004.txt"}
			if got := listFiles(t, fileStore.Dir()); !reflect.DeepEqual(got, expectedFiles) {
				t.Errorf("Expected files %v, got %v", expectedFiles, got)
			}

			for id, body := range map[string]string{"0001": "RFC one body", "0003": "RFC three body", "0004": "RFC four body"} {
				data, err := os.ReadFile(filepath.Join(fileStore.Dir(), "RFC-"+id+".txt"))
				if err != nil {
					t.Fatalf("ReadFile failed: %v", err)
				}
				if string(data) != body {
					t.Errorf("RFC-%s: expected %q, got %q", id, body, string(data))
				}
			}

			expectedStats := Stats{Attempted: 4, Downloaded: 3, Missing: 1}
			if stats != expectedStats {
				t.Errorf("Expected stats %+v, got %+v", expectedStats, stats)
			}
			if !strings.Contains(logs.String(), "RFC 0002 DOES NOT EXIST") {
				t.Errorf("Expected RFC 0002 to be reported missing")
			}
		})
	}
}

func TestManager_ProcessRange_Idempotent(t *testing.T) {
	server := newRFCServer(t, scenarioDocs())
	w, fileStore := newTestWorker(t, server.URL)
	manager := NewManager(Config{WorkerCount: 10, Worker: w})

	if _, err := manager.ProcessRange(context.Background(), 5); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	before := make(map[string]time.Time)
	for _, name := range listFiles(t, fileStore.Dir()) {
		info, err := os.Stat(filepath.Join(fileStore.Dir(), name))
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		before[name] = info.ModTime()
	}

	stats, err := manager.ProcessRange(context.Background(), 5)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	expectedStats := Stats{Attempted: 4, AlreadyPresent: 3, Missing: 1}
	if stats != expectedStats {
		t.Errorf("Expected stats %+v on second run, got %+v", expectedStats, stats)
	}

	after := listFiles(t, fileStore.Dir())
	if len(after) != len(before) {
		t.Fatalf("Expected %d files after second run, got %d", len(before), len(after))
	}
	for _, name := range after {
		info, _ := os.Stat(filepath.Join(fileStore.Dir(), name))
		if !info.ModTime().Equal(before[name]) {
			t.Errorf("%s was modified on second run", name)
		}
	}
}

func TestManager_ProcessRange_EmptyRange(t *testing.T) {
	server := newRFCServer(t, scenarioDocs())
	w, _ := newTestWorker(t, server.URL)
	manager := NewManager(Config{Worker: w})

	for _, total := range []int{0, 1} {
		stats, err := manager.ProcessRange(context.Background(), total)
		if err != nil {
			t.Fatalf("ProcessRange(%d) failed: %v", total, err)
		}
		if stats.Attempted != 0 {
			t.Errorf("Expected no attempts for total %d, got %d", total, stats.Attempted)
		}
	}
	if got := server.requestedIDs(); len(got) != 0 {
		t.Errorf("Expected no requests, got %v", got)
	}
}

func TestManager_Sequential_OneInFlight(t *testing.T) {
	server := newRFCServer(t, scenarioDocs())
	server.delay = 20 * time.Millisecond
	w, _ := newTestWorker(t, server.URL)

	manager := NewManager(Config{WorkerCount: 10, Worker: w})
	if _, err := manager.ProcessRange(context.Background(), 8); err != nil {
		t.Fatalf("ProcessRange failed: %v", err)
	}

	if got := server.maxFlight.Load(); got != 1 {
		t.Errorf("Expected at most 1 request in flight in sequential mode, got %d", got)
	}
}

func TestManager_Pipelined_RespectsWorkerCap(t *testing.T) {
	server := newRFCServer(t, scenarioDocs())
	server.delay = 20 * time.Millisecond
	w, _ := newTestWorker(t, server.URL)

	manager := NewManager(Config{WorkerCount: 3, Pipelined: true, Worker: w})
	stats, err := manager.ProcessRange(context.Background(), 20)
	if err != nil {
		t.Fatalf("ProcessRange failed: %v", err)
	}
	if stats.Attempted != 19 {
		t.Errorf("Expected 19 attempts, got %d", stats.Attempted)
	}
	if got := server.maxFlight.Load(); got > 3 {
		t.Errorf("Expected at most 3 requests in flight, got %d", got)
	}
}

func TestManager_ProcessRange_FatalStoreError(t *testing.T) {
	server := newRFCServer(t, scenarioDocs())
	w := NewWorker(httpclient.NewClient(httpclient.RotatingClient), failingStore{}, server.URL+"/rfc%d.txt", "")

	manager := NewManager(Config{Worker: w})
	_, err := manager.ProcessRange(context.Background(), 5)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Expected disk full error, got %v", err)
	}

	// The run stops at the first stored document
	if got := server.requestedIDs(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Expected only RFC 1 to be requested, got %v", got)
	}
}

func TestManager_ProcessRange_Cancelled(t *testing.T) {
	server := newRFCServer(t, scenarioDocs())
	w, _ := newTestWorker(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager := NewManager(Config{Worker: w})
	stats, err := manager.ProcessRange(ctx, 5)
	if err != nil && err != context.Canceled {
		t.Fatalf("Expected nil or context.Canceled, got %v", err)
	}
	if stats.Attempted != 0 {
		t.Errorf("Expected no completed attempts after cancel, got %d", stats.Attempted)
	}
}
