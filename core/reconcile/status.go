package reconcile

import (
	"agents-manager/core/resource"
)

// Status projects every manifest entry of kind, optionally limited to env. It only
// reads local files.
func (e *Engine) Status(kind resource.Kind, env string) (*StatusReport, error) {
	m, err := e.store.Load(kind, false)
	if err != nil {
		return nil, err
	}
	scope, err := e.scope(m, "", env)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{Kind: kind, Entries: make([]StatusEntry, 0, len(scope))}
	for _, i := range scope {
		entry := m.Entries[i]
		status := StatusEntry{
			Environment: entry.Env(e.cfg.DefaultEnvironment),
			RemoteID:    entry.RemoteID,
			ConfigPath:  entry.ConfigPath,
			HasRemoteID: entry.RemoteID != "",
			State:       HashMissing,
		}

		if e.store.ConfigExists(entry.ConfigPath) {
			status.ConfigPresent = true
			status.State = HashInvalid
			if config, err := e.store.ReadConfig(entry.ConfigPath); err == nil {
				status.Name = config.Name()
				_, hash := e.fingerprint(config)
				switch {
				case entry.Hash == "":
					status.State = HashUntracked
				case entry.Hash == hash:
					status.State = HashInSync
				default:
					status.State = HashModified
				}
			}
		}
		report.Entries = append(report.Entries, status)
	}
	return report, nil
}
