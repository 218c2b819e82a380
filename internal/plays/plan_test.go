package plays

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bradjones1/maestro-ng/internal/errors"
	"github.com/bradjones1/maestro-ng/internal/termout"
	"github.com/bradjones1/maestro-ng/internal/testutil"
)

// writePlan writes a plan file into a temp dir and returns its path.
func writePlan(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing plan file: %v", err)
	}
	return path
}

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, "start.yaml", `
name: start
concurrency: 2
tasks:
  - name: db
    service: postgres
    run: docker start db
  - name: warmup
    depends_on: [db]
    sleep: 2s
  - name: web
    service: frontend
    depends_on: [db, warmup]
    run: docker start web
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() returned error: %v", err)
	}
	if plan.Name != "start" {
		t.Errorf("Name = %q, want %q", plan.Name, "start")
	}
	if plan.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", plan.Concurrency)
	}
	if len(plan.Tasks) != 3 {
		t.Fatalf("len(Tasks) = %d, want 3", len(plan.Tasks))
	}
	web := plan.Tasks[2]
	if web.Name != "web" || web.Service != "frontend" || web.Run != "docker start web" {
		t.Errorf("web task = %+v, want name/service/run populated", web)
	}
	if len(web.DependsOn) != 2 || web.DependsOn[0] != "db" || web.DependsOn[1] != "warmup" {
		t.Errorf("web.DependsOn = %v, want [db warmup]", web.DependsOn)
	}
}

func TestLoadPlan_NameDefaultsToFileName(t *testing.T) {
	path := writePlan(t, "deploy.yaml", `
tasks:
  - name: db
    run: "true"
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() returned error: %v", err)
	}
	if plan.Name != "deploy" {
		t.Errorf("Name = %q, want %q", plan.Name, "deploy")
	}
}

func TestLoadPlan_RejectsUnknownFields(t *testing.T) {
	path := writePlan(t, "start.yaml", `
name: start
tasks:
  - name: db
    comand: docker start db
`)

	_, err := LoadPlan(path)
	if !errors.Is(err, errors.ErrPlanInvalid) {
		t.Errorf("LoadPlan() error = %v, want %v", err, errors.ErrPlanInvalid)
	}
	if !errors.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false, want true", err)
	}
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadPlan() = nil error for a missing file")
	}
}

func TestPlanSelect(t *testing.T) {
	plan := &Plan{
		Name: "start",
		Tasks: []PlanTask{
			{Name: "db", Service: "postgres"},
			{Name: "web", Service: "frontend", DependsOn: []string{"db"}},
			{Name: "lb", Service: "edge", DependsOn: []string{"web"}},
			{Name: "cache", Service: "redis"},
		},
	}

	t.Run("keeps transitive dependencies", func(t *testing.T) {
		selected, err := plan.Select("lb")
		if err != nil {
			t.Fatalf("Select() returned error: %v", err)
		}
		want := []string{"db", "web", "lb"}
		if len(selected.Tasks) != len(want) {
			t.Fatalf("Select() kept %d tasks, want %d", len(selected.Tasks), len(want))
		}
		for i, name := range want {
			if selected.Tasks[i].Name != name {
				t.Errorf("Tasks[%d] = %q, want %q", i, selected.Tasks[i].Name, name)
			}
		}
	})

	t.Run("matches by service", func(t *testing.T) {
		selected, err := plan.Select("red*")
		if err != nil {
			t.Fatalf("Select() returned error: %v", err)
		}
		if len(selected.Tasks) != 1 || selected.Tasks[0].Name != "cache" {
			t.Errorf("Select() kept %v, want just cache", selected.Tasks)
		}
	})

	t.Run("no patterns returns everything", func(t *testing.T) {
		selected, err := plan.Select()
		if err != nil {
			t.Fatalf("Select() returned error: %v", err)
		}
		if len(selected.Tasks) != len(plan.Tasks) {
			t.Errorf("Select() kept %d tasks, want %d", len(selected.Tasks), len(plan.Tasks))
		}
	})

	t.Run("no match", func(t *testing.T) {
		_, err := plan.Select("ghost-*")
		if !errors.Is(err, errors.ErrTaskNotFound) {
			t.Errorf("Select() error = %v, want %v", err, errors.ErrTaskNotFound)
		}
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := plan.Select("[")
		if !errors.IsValidation(err) {
			t.Errorf("Select() error = %v, want a validation error", err)
		}
	})
}

func TestPlanBuild(t *testing.T) {
	t.Run("materializes actions", func(t *testing.T) {
		plan := &Plan{
			Tasks: []PlanTask{
				{Name: "db", Run: "docker start db"},
				{Name: "warmup", Sleep: "50ms"},
				{Name: "ready"},
			},
		}
		tasks, err := plan.Build()
		if err != nil {
			t.Fatalf("Build() returned error: %v", err)
		}
		if tasks[0].Action == nil {
			t.Error("run task has no action")
		}
		if tasks[1].Action == nil {
			t.Error("sleep task has no action")
		}
		if tasks[2].Action != nil {
			t.Error("bare task should have a nil action")
		}
	})

	tests := []struct {
		name string
		task PlanTask
	}{
		{"missing name", PlanTask{Run: "true"}},
		{"run and sleep together", PlanTask{Name: "db", Run: "true", Sleep: "1s"}},
		{"malformed sleep", PlanTask{Name: "db", Sleep: "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &Plan{Tasks: []PlanTask{tt.task}}
			_, err := plan.Build()
			if !errors.IsValidation(err) {
				t.Errorf("Build() error = %v, want a validation error", err)
			}
		})
	}
}

func TestExecAction(t *testing.T) {
	testutil.SkipIfNoShell(t)

	t.Run("last output line becomes status", func(t *testing.T) {
		sink := &testutil.CaptureSink{}
		f := termout.NewFormatter("db", termout.NewSinkPrinter(sink))
		if err := ExecAction("echo first; echo second")(context.Background(), f); err != nil {
			t.Fatalf("ExecAction() returned error: %v", err)
		}
		if got, want := f.Committed(), "db second"; got != want {
			t.Errorf("Committed() = %q, want %q", got, want)
		}
	})

	t.Run("silent command reports done", func(t *testing.T) {
		sink := &testutil.CaptureSink{}
		f := termout.NewFormatter("db", termout.NewSinkPrinter(sink))
		if err := ExecAction("true")(context.Background(), f); err != nil {
			t.Fatalf("ExecAction() returned error: %v", err)
		}
		if got, want := f.Committed(), "db done"; got != want {
			t.Errorf("Committed() = %q, want %q", got, want)
		}
	})

	t.Run("failure carries last output line", func(t *testing.T) {
		sink := &testutil.CaptureSink{}
		f := termout.NewFormatter("db", termout.NewSinkPrinter(sink))
		err := ExecAction("echo oops >&2; exit 3")(context.Background(), f)
		if err == nil {
			t.Fatal("ExecAction() = nil error for a failing command")
		}
		for _, want := range []string{"oops", "exit status 3"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q missing %q", err, want)
			}
		}
		if got := f.Committed(); got != "db" {
			t.Errorf("Committed() = %q, want unchanged prefix", got)
		}
	})
}

func TestSleepAction(t *testing.T) {
	t.Run("completes after the duration", func(t *testing.T) {
		sink := &testutil.CaptureSink{}
		f := termout.NewFormatter("warmup", termout.NewSinkPrinter(sink))
		if err := SleepAction(time.Millisecond)(context.Background(), f); err != nil {
			t.Fatalf("SleepAction() returned error: %v", err)
		}
		if got, want := f.Committed(), "warmup done"; got != want {
			t.Errorf("Committed() = %q, want %q", got, want)
		}
	})

	t.Run("cancellation interrupts the wait", func(t *testing.T) {
		sink := &testutil.CaptureSink{}
		f := termout.NewFormatter("warmup", termout.NewSinkPrinter(sink))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := SleepAction(time.Hour)(ctx, f)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("SleepAction() error = %v, want %v", err, context.Canceled)
		}
	})
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line", "ready", "ready"},
		{"trailing newline", "ready\n", "ready"},
		{"multiple lines", "one\ntwo\nthree\n", "three"},
		{"skips blank tail", "done\n\n   \n", "done"},
		{"all blank", " \n\t\n", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLine(tt.input); got != tt.want {
				t.Errorf("lastLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
