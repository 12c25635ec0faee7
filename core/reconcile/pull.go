package reconcile

import (
	"context"
	"errors"
	"fmt"

	"agents-manager/core/document"
	"agents-manager/core/faults"
	"agents-manager/core/filename"
	"agents-manager/core/manifest"
	"agents-manager/core/resource"

	"go.uber.org/zap"
)

// PlanPull lists the remote and classifies every resource against the manifest.
// Only list-level metadata is fetched; nothing is written.
func (e *Engine) PlanPull(ctx context.Context, kind resource.Kind, opts PullOptions) (*Plan, error) {
	plan, _, err := e.planPull(ctx, kind, opts)
	return plan, err
}

// pullEnvironments returns the explicit environment, else every environment present
// in the manifest, else the default one.
func (e *Engine) pullEnvironments(m *manifest.Manifest, explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	if envs := m.Environments(e.cfg.DefaultEnvironment); len(envs) > 0 {
		return envs
	}
	return []string{e.cfg.DefaultEnvironment}
}

func (e *Engine) planPull(ctx context.Context, kind resource.Kind, opts PullOptions) (*Plan, *manifest.Manifest, error) {
	mode := opts.Mode
	if mode == "" {
		mode = PullDefault
	}

	m, err := e.store.Load(kind, false)
	if err != nil {
		return nil, nil, err
	}

	plan := &Plan{Kind: kind, Operation: OperationPull, Actions: []Action{}}
	matched := false
	listFailed := false

	for _, env := range e.pullEnvironments(m, opts.Environment) {
		remote, err := e.gw.List(ctx, kind, env, e.cfg.PageSize, opts.Search)
		if err != nil {
			e.logger.Warn("Failed to list remote resources",
				zap.String("kind", string(kind)),
				zap.String("env", env),
				zap.Error(err),
			)
			listFailed = true
			plan.add(Action{Type: ActionWarn, Kind: kind, Environment: env, Reason: "list failed: " + err.Error(), index: -1})
			continue
		}

		seen := make(map[string]struct{}, len(remote))
		for _, item := range remote {
			if opts.RemoteID != "" && item.RemoteID != opts.RemoteID {
				continue
			}
			if _, dup := seen[item.RemoteID]; dup {
				continue
			}
			seen[item.RemoteID] = struct{}{}
			matched = true

			action := Action{
				Kind:        kind,
				Environment: env,
				RemoteID:    item.RemoteID,
				Name:        item.Name,
				index:       m.IndexOf(env, item.RemoteID, e.cfg.DefaultEnvironment),
			}
			found := action.index >= 0
			if found {
				action.ConfigPath = m.Entries[action.index].ConfigPath
			}

			switch {
			case found && (mode == PullUpdate || mode == PullAll):
				action.Type = ActionUpdate
			case found:
				action.Type = ActionSkip
				action.Reason = "already tracked locally"
			case mode == PullUpdate:
				action.Type = ActionSkip
				action.Reason = "not tracked locally"
			default:
				action.Type = ActionCreate
			}
			plan.add(action)
		}
	}

	if opts.RemoteID != "" && !matched && !listFailed {
		return nil, nil, faults.New(faults.NotFound, fmt.Sprintf("remote %s %q not found", kind, opts.RemoteID), nil)
	}
	return plan, m, nil
}

// Pull plans and, unless DryRun, applies a pull. When the plan would create or
// update anything, Confirm is asked first; a negative answer aborts without writing.
func (e *Engine) Pull(ctx context.Context, kind resource.Kind, opts PullOptions) (*Result, error) {
	keyCase, ok := document.ParseCase(e.cfg.KeyCase)
	if !ok {
		return nil, faults.New(faults.Configuration, fmt.Sprintf("unknown key case %q", e.cfg.KeyCase), nil)
	}

	plan, m, err := e.planPull(ctx, kind, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Plan: plan, DryRun: opts.DryRun}
	if opts.DryRun {
		result.Created = plan.Summary.Create
		result.Updated = plan.Summary.Update
		result.Skipped = plan.Summary.Skip
		result.Warned = plan.Summary.Warn
		return result, nil
	}

	if plan.Summary.Mutating() && opts.Confirm != nil {
		confirmed, err := opts.Confirm(plan.Summary)
		if err != nil {
			return nil, err
		}
		if !confirmed {
			result.Aborted = true
			return result, nil
		}
	}

	var (
		errs    []error
		mutated bool
		callCtx = batchContext(ctx)
	)
	for _, action := range plan.Actions {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		log := e.logger.With(
			zap.String("kind", string(kind)),
			zap.String("env", action.Environment),
			zap.String("remote_id", action.RemoteID),
		)

		switch action.Type {
		case ActionWarn:
			result.Warned++
			e.emit(e.pullEvent(action, nil))
		case ActionSkip:
			result.Skipped++
		case ActionCreate, ActionUpdate:
			entryMutated, err := e.applyPullAction(callCtx, m, &action, keyCase)
			if err != nil {
				log.Error("Failed to pull remote resource", zap.String("action", string(action.Type)), zap.Error(err))
				result.Failed++
				errs = append(errs, fmt.Errorf("%s %s: %w", action.Type, action.RemoteID, err))
				e.emit(e.pullEvent(action, err))
				continue
			}
			if entryMutated {
				mutated = true
			}
			if action.Type == ActionCreate {
				result.Created++
			} else {
				result.Updated++
			}
			log.Info("Pulled remote resource",
				zap.String("action", string(action.Type)),
				zap.String("config", action.ConfigPath),
				zap.String("name", action.Name),
			)
			e.emit(e.pullEvent(action, nil))
		}
	}

	if mutated {
		if err := e.store.Save(m); err != nil {
			return result, err
		}
	}
	result.Err = errors.Join(errs...)
	return result, nil
}

// applyPullAction fetches the full config and writes it locally. It reports whether
// the manifest changed.
func (e *Engine) applyPullAction(ctx context.Context, m *manifest.Manifest, action *Action, keyCase document.Case) (bool, error) {
	remote, err := e.gw.Get(ctx, action.Kind, action.Environment, action.RemoteID)
	if err != nil {
		return false, err
	}
	snake, hash := e.fingerprint(remote)
	local := e.normalizer.Apply(keyCase, snake)
	action.Hash = hash
	if name := snake.Name(); name != "" {
		action.Name = name
	}

	if action.Type == ActionUpdate {
		if err := e.store.WriteConfig(action.ConfigPath, local); err != nil {
			return false, err
		}
		if m.Entries[action.index].Hash == hash {
			return false, nil
		}
		m.Entries[action.index].Hash = hash
		return true, nil
	}

	target, err := filename.Allocate(e.store.ConfigDir(action.Kind), action.Name, filename.DefaultExtension)
	if err != nil {
		return false, err
	}
	rel, err := e.store.Relative(target)
	if err != nil {
		return false, err
	}
	if err := e.store.WriteConfig(rel, local); err != nil {
		return false, err
	}
	action.ConfigPath = rel
	m.Append(manifest.Entry{
		ConfigPath:  rel,
		RemoteID:    action.RemoteID,
		Environment: action.Environment,
		Hash:        hash,
	})
	return true, nil
}

func (e *Engine) pullEvent(a Action, err error) Event {
	return Event{
		Kind:        a.Kind,
		Operation:   OperationPull,
		Action:      a.Type,
		Environment: a.Environment,
		RemoteID:    a.RemoteID,
		ConfigPath:  a.ConfigPath,
		Hash:        a.Hash,
		Err:         err,
	}
}
