package kvsession

import (
	"context"

	"github.com/robfig/cron/v3"
)

// StartJanitor schedules [Manager.Cleanup] as a recurring background sweep
// and returns a stop function. An empty spec falls back to the configured
// Cleanup.Schedule. Specs use robfig/cron syntax, including shorthands like
// "@every 30m" and "@hourly".
//
// Sweep failures do not stop the schedule; they surface as failed
// session.cleanup audit events and the next run proceeds normally.
func (m *Manager) StartJanitor(spec string) (func(), error) {
	if m == nil || m.store == nil {
		return nil, ErrManagerNotReady
	}
	if spec == "" {
		spec = m.config.Cleanup.Schedule
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx := context.Background()
		if err := m.Cleanup(ctx); err != nil {
			m.emit(ctx, AuditEvent{
				EventType: AuditCleanup,
				Success:   false,
				Error:     err.Error(),
			})
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return func() {
		<-c.Stop().Done()
	}, nil
}
