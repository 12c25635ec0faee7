package cmd

import (
	"fmt"

	"agents-manager/core/faults"
	"agents-manager/core/manifest"
	"agents-manager/core/reconcile"
	"agents-manager/core/resource"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// targetFlags are the scope flags shared by push and pull.
type targetFlags struct {
	kind  string
	agent string
	tool  string
	test  string
}

func (f *targetFlags) register(cmd *cobra.Command, idHelp string) {
	cmd.Flags().StringVar(&f.kind, "kind", "", "Resource kind: agent, tool or test (default: every kind with a manifest)")
	cmd.Flags().StringVar(&f.agent, "agent", "", "Only this agent ("+idHelp+")")
	cmd.Flags().StringVar(&f.tool, "tool", "", "Only this tool ("+idHelp+")")
	cmd.Flags().StringVar(&f.test, "test", "", "Only this test ("+idHelp+")")
	cmd.MarkFlagsMutuallyExclusive("agent", "tool", "test")
}

// target is a resolved scope: one or more kinds, optionally a single entry.
type target struct {
	kinds    []resource.Kind
	selector string
}

// resolve turns the flags into a target. Without any flag, every kind whose
// manifest exists is selected.
func (f *targetFlags) resolve(store *manifest.Store) (target, error) {
	var kind resource.Kind
	if f.kind != "" {
		k, err := resource.Parse(f.kind)
		if err != nil {
			return target{}, faults.New(faults.Configuration, err.Error(), nil)
		}
		kind = k
	}

	selectors := []struct {
		kind resource.Kind
		id   string
	}{{resource.Agent, f.agent}, {resource.Tool, f.tool}, {resource.Test, f.test}}
	for _, s := range selectors {
		if s.id == "" {
			continue
		}
		if kind != "" && kind != s.kind {
			return target{}, faults.New(faults.Configuration, fmt.Sprintf("--%s conflicts with --kind %s", s.kind, kind), nil)
		}
		return target{kinds: []resource.Kind{s.kind}, selector: s.id}, nil
	}

	if kind != "" {
		return target{kinds: []resource.Kind{kind}}, nil
	}

	var kinds []resource.Kind
	for _, k := range resource.All() {
		if store.Exists(k) {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return target{}, faults.New(faults.Configuration, "no manifest found; run 'agents init' first", manifest.ErrNotFound)
	}
	return target{kinds: kinds}, nil
}

// kindOrDefault parses --kind for single-kind commands. Empty means agents.
func kindOrDefault(s string) (resource.Kind, error) {
	if s == "" {
		return resource.Agent, nil
	}
	k, err := resource.Parse(s)
	if err != nil {
		return "", faults.New(faults.Configuration, err.Error(), nil)
	}
	return k, nil
}

// logPlan writes the summary and, at most maxShow, the actions of a plan.
func logPlan(l *zap.Logger, plan *reconcile.Plan) {
	l.Info("Plan",
		zap.String("kind", string(plan.Kind)),
		zap.String("operation", string(plan.Operation)),
		zap.Int("create", plan.Summary.Create),
		zap.Int("update", plan.Summary.Update),
		zap.Int("skip", plan.Summary.Skip),
		zap.Int("warn", plan.Summary.Warn),
	)

	const maxShow = 50
	for i, a := range plan.Actions {
		if i == maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
			return
		}
		l.Info("Planned action",
			zap.String("type", string(a.Type)),
			zap.String("env", a.Environment),
			zap.String("remote_id", a.RemoteID),
			zap.String("config", a.ConfigPath),
			zap.String("name", a.Name),
			zap.String("reason", a.Reason),
		)
	}
}
