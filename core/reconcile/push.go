package reconcile

import (
	"context"
	"errors"
	"fmt"

	"agents-manager/core/manifest"
	"agents-manager/core/resource"

	"go.uber.org/zap"
)

// PlanPush decides, for every entry in scope, whether push creates, updates, skips
// or warns. Nothing is written.
func (e *Engine) PlanPush(ctx context.Context, kind resource.Kind, opts PushOptions) (*Plan, error) {
	plan, _, err := e.planPush(kind, opts)
	return plan, err
}

func (e *Engine) planPush(kind resource.Kind, opts PushOptions) (*Plan, *manifest.Manifest, error) {
	policy := opts.Policy
	if policy == "" {
		var err error
		if policy, err = ParsePolicy(e.cfg.PushPolicy); err != nil {
			return nil, nil, err
		}
	}

	m, err := e.store.Load(kind, false)
	if err != nil {
		return nil, nil, err
	}

	scope, err := e.scope(m, opts.Selector, opts.Environment)
	if err != nil {
		return nil, nil, err
	}

	plan := &Plan{Kind: kind, Operation: OperationPush, Actions: []Action{}}
	for _, i := range scope {
		plan.add(e.classifyPush(kind, m.Entries[i], i, policy))
	}
	return plan, m, nil
}

// scope lists the manifest indices a push or status covers.
func (e *Engine) scope(m *manifest.Manifest, selector, env string) ([]int, error) {
	if selector != "" {
		i, err := e.resolve(m, selector, env)
		if err != nil {
			return nil, err
		}
		return []int{i}, nil
	}
	var out []int
	for i, entry := range m.Entries {
		if env == "" || entry.Env(e.cfg.DefaultEnvironment) == env {
			out = append(out, i)
		}
	}
	return out, nil
}

func (e *Engine) classifyPush(kind resource.Kind, entry manifest.Entry, index int, policy Policy) Action {
	action := Action{
		Kind:        kind,
		Environment: entry.Env(e.cfg.DefaultEnvironment),
		RemoteID:    entry.RemoteID,
		ConfigPath:  entry.ConfigPath,
		index:       index,
	}

	if !e.store.ConfigExists(entry.ConfigPath) {
		action.Type = ActionWarn
		action.Reason = "missing config"
		return action
	}
	config, err := e.store.ReadConfig(entry.ConfigPath)
	if err != nil {
		action.Type = ActionWarn
		action.Reason = err.Error()
		return action
	}

	snake, hash := e.fingerprint(config)
	action.Name = config.Name()
	action.Hash = hash
	action.config = snake

	switch {
	case entry.RemoteID == "":
		action.Type = ActionCreate
	case policy == PolicySkipUnchanged && hash == entry.Hash:
		action.Type = ActionSkip
		action.Reason = "unchanged"
	default:
		action.Type = ActionUpdate
	}
	return action
}

// Push plans and, unless DryRun, applies a push. Per-entry failures are logged and
// counted; the manifest is saved once with every successful mutation.
func (e *Engine) Push(ctx context.Context, kind resource.Kind, opts PushOptions) (*Result, error) {
	plan, m, err := e.planPush(kind, opts)
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

		entry := m.Entries[action.index]
		log := e.entryLogger(kind, entry)

		switch action.Type {
		case ActionWarn:
			log.Warn("Skipping entry", zap.String("reason", action.Reason))
			result.Warned++
			e.emit(e.pushEvent(action, nil))
		case ActionSkip:
			log.Debug("Unchanged since last push")
			result.Skipped++
		case ActionCreate:
			id, err := e.gw.Create(callCtx, kind, action.Environment, action.config)
			if err != nil {
				log.Error("Failed to create remote resource", zap.Error(err))
				result.Failed++
				errs = append(errs, fmt.Errorf("create %s: %w", entry.ConfigPath, err))
				e.emit(e.pushEvent(action, err))
				continue
			}
			m.Entries[action.index].RemoteID = id
			m.Entries[action.index].Hash = action.Hash
			mutated = true
			result.Created++
			action.RemoteID = id
			log.Info("Created remote resource", zap.String("new_remote_id", id), zap.String("name", action.Name))
			e.emit(e.pushEvent(action, nil))
		case ActionUpdate:
			if err := e.gw.Update(callCtx, kind, action.Environment, entry.RemoteID, action.config); err != nil {
				log.Error("Failed to update remote resource", zap.Error(err))
				result.Failed++
				errs = append(errs, fmt.Errorf("update %s: %w", entry.RemoteID, err))
				e.emit(e.pushEvent(action, err))
				continue
			}
			if m.Entries[action.index].Hash != action.Hash {
				m.Entries[action.index].Hash = action.Hash
				mutated = true
			}
			result.Updated++
			log.Info("Updated remote resource", zap.String("name", action.Name))
			e.emit(e.pushEvent(action, nil))
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

func (e *Engine) pushEvent(a Action, err error) Event {
	return Event{
		Kind:        a.Kind,
		Operation:   OperationPush,
		Action:      a.Type,
		Environment: a.Environment,
		RemoteID:    a.RemoteID,
		ConfigPath:  a.ConfigPath,
		Hash:        a.Hash,
		Err:         err,
	}
}
