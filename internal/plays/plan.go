package plays

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/bradjones1/maestro-ng/internal/errors"
)

// Plan is the on-disk description of a play: a named set of tasks with
// dependencies and a concurrency cap.
//
// Example:
//
//	name: start
//	concurrency: 2
//	tasks:
//	  - name: db
//	    service: postgres
//	    run: docker start db
//	  - name: web
//	    service: frontend
//	    depends_on: [db]
//	    run: docker start web
type Plan struct {
	Name        string     `yaml:"name"`
	Concurrency int        `yaml:"concurrency"`
	Tasks       []PlanTask `yaml:"tasks"`
}

// PlanTask is one task entry in a plan file. Run and Sleep are mutually
// exclusive; a task with neither acts as an ordering barrier.
type PlanTask struct {
	Name      string   `yaml:"name"`
	Service   string   `yaml:"service"`
	DependsOn []string `yaml:"depends_on"`
	Run       string   `yaml:"run"`
	Sleep     string   `yaml:"sleep"`
}

// LoadPlan reads and parses a plan file. Unknown fields are rejected so a
// typo in a task definition fails loudly instead of silently dropping
// configuration. A plan without a name takes the file's base name.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read plan %s", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var plan Plan
	if err := dec.Decode(&plan); err != nil {
		return nil, errors.Wrapf(errors.ErrPlanInvalid, "parse %s: %v", path, err)
	}
	if plan.Name == "" {
		base := filepath.Base(path)
		plan.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &plan, nil
}

// Select returns a plan containing only the tasks matching the given glob
// patterns, by name or by service, plus every task they depend on directly
// or transitively. With no patterns the plan is returned unchanged.
func (p *Plan) Select(patterns ...string) (*Plan, error) {
	if len(patterns) == 0 {
		return p, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewValidationError("only", pattern, "invalid glob pattern")
		}
		globs = append(globs, g)
	}

	byName := make(map[string]PlanTask, len(p.Tasks))
	for _, t := range p.Tasks {
		byName[t.Name] = t
	}

	var queue []string
	for _, t := range p.Tasks {
		for _, g := range globs {
			if g.Match(t.Name) || (t.Service != "" && g.Match(t.Service)) {
				queue = append(queue, t.Name)
				break
			}
		}
	}
	if len(queue) == 0 {
		return nil, errors.Wrapf(errors.ErrTaskNotFound,
			"no tasks match %s", strings.Join(patterns, ", "))
	}

	// Pull in dependencies so the selected tasks can still run.
	keep := make(map[string]bool)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if keep[name] {
			continue
		}
		task, ok := byName[name]
		if !ok {
			return nil, errors.Wrapf(errors.ErrUnknownDependency, "task %q", name)
		}
		keep[name] = true
		queue = append(queue, task.DependsOn...)
	}

	selected := &Plan{Name: p.Name, Concurrency: p.Concurrency}
	for _, t := range p.Tasks {
		if keep[t.Name] {
			selected.Tasks = append(selected.Tasks, t)
		}
	}
	return selected, nil
}

// Build materializes the plan into runnable tasks: run commands become
// shell actions, sleep entries become timed waits, and bare tasks become
// barriers.
func (p *Plan) Build() ([]*Task, error) {
	tasks := make([]*Task, 0, len(p.Tasks))
	for _, pt := range p.Tasks {
		if pt.Name == "" {
			return nil, errors.NewValidationError("tasks", "", "every task needs a name")
		}
		if pt.Run != "" && pt.Sleep != "" {
			return nil, errors.NewValidationError("tasks", pt.Name,
				"run and sleep are mutually exclusive")
		}

		var action Action
		switch {
		case pt.Run != "":
			action = ExecAction(pt.Run)
		case pt.Sleep != "":
			d, err := time.ParseDuration(pt.Sleep)
			if err != nil {
				return nil, errors.NewValidationError("sleep", pt.Sleep, "not a valid duration")
			}
			action = SleepAction(d)
		}

		tasks = append(tasks, &Task{
			Name:      pt.Name,
			Service:   pt.Service,
			DependsOn: pt.DependsOn,
			Action:    action,
		})
	}
	return tasks, nil
}
