package reconcile

import (
	"context"
	"errors"
	"fmt"

	"agents-manager/core/faults"
	"agents-manager/core/manifest"
	"agents-manager/core/resource"

	"go.uber.org/zap"
)

// Delete removes one entry selected by remote ID, config path or name. The remote
// delete is best effort; the local config file and manifest entry are always removed
// unless the file itself cannot be deleted.
func (e *Engine) Delete(ctx context.Context, kind resource.Kind, selector string, opts DeleteOptions) (*DeleteResult, error) {
	m, err := e.store.Load(kind, false)
	if err != nil {
		return nil, err
	}
	i, err := e.resolve(m, selector, opts.Environment)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{}
	removed := e.deleteEntries(ctx, m, []int{i}, result)
	if removed {
		if err := e.store.Save(m); err != nil {
			return result, err
		}
	}
	return result, nil
}

// DeleteAll removes every entry, optionally limited to one environment, after a
// single confirmation. Failures are counted and the batch always finishes.
func (e *Engine) DeleteAll(ctx context.Context, kind resource.Kind, opts DeleteOptions) (*DeleteResult, error) {
	m, err := e.store.Load(kind, false)
	if err != nil {
		return nil, err
	}
	scope, err := e.scope(m, "", opts.Environment)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{}
	if len(scope) == 0 {
		return result, nil
	}
	if opts.Confirm != nil {
		ok, err := opts.Confirm(len(scope))
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Aborted = true
			return result, nil
		}
	}

	if e.deleteEntries(ctx, m, scope, result) {
		if err := e.store.Save(m); err != nil {
			return result, err
		}
	}
	return result, nil
}

// deleteEntries processes the given manifest indices and compacts the manifest.
// It reports whether any entry was removed.
func (e *Engine) deleteEntries(ctx context.Context, m *manifest.Manifest, indices []int, result *DeleteResult) bool {
	var errs []error
	drop := make(map[int]struct{}, len(indices))
	callCtx := batchContext(ctx)

	for _, i := range indices {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		entry := m.Entries[i]
		log := e.entryLogger(m.Kind, entry)
		env := entry.Env(e.cfg.DefaultEnvironment)
		event := Event{
			Kind:        m.Kind,
			Operation:   OperationDelete,
			Action:      ActionDelete,
			Environment: env,
			RemoteID:    entry.RemoteID,
			ConfigPath:  entry.ConfigPath,
			Hash:        entry.Hash,
		}

		if entry.RemoteID != "" {
			err := e.gw.Delete(callCtx, m.Kind, env, entry.RemoteID)
			switch {
			case err == nil:
				log.Info("Deleted remote resource")
			case faults.Is(err, faults.NotFound):
				log.Info("Remote resource already gone")
			default:
				log.Warn("Failed to delete remote resource, removing local entry anyway", zap.Error(err))
				result.RemoteFailed++
				errs = append(errs, fmt.Errorf("remote delete %s: %w", entry.RemoteID, err))
				event.Err = err
			}
		}

		if err := e.store.RemoveConfig(entry.ConfigPath); err != nil {
			log.Error("Failed to remove config file", zap.Error(err))
			result.Failed++
			errs = append(errs, err)
			event.Err = err
			e.emit(event)
			continue
		}
		drop[i] = struct{}{}
		result.Deleted++
		e.emit(event)
	}

	if len(drop) > 0 {
		kept := make([]manifest.Entry, 0, len(m.Entries)-len(drop))
		for i, entry := range m.Entries {
			if _, ok := drop[i]; !ok {
				kept = append(kept, entry)
			}
		}
		m.Entries = kept
	}
	result.Err = errors.Join(errs...)
	return len(drop) > 0
}
