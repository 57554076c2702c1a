// Package launch turns app names into navigations.
//
// Desktop launches open a window through the window manager; this package
// covers the route side shared by both shells: resolving an app to its
// path, remembering the home screen page it was launched from, and going
// back there.
package launch

import (
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Notifier receives launch events. Implementations must not block.
type Notifier interface {
	Launched(types.LaunchEvent)
}

// Launcher routes app launches
type Launcher struct {
	registry *registry.Registry
	notifier Notifier
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a launcher over the app registry
func New(reg *registry.Registry) *Launcher {
	return &Launcher{
		registry: reg,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
}

// WithNotifier sets the launch event sink
func (l *Launcher) WithNotifier(n Notifier) *Launcher {
	l.notifier = n
	return l
}

// WithMetrics adds metrics tracking to the launcher
func (l *Launcher) WithMetrics(metrics *monitoring.Metrics) *Launcher {
	l.metrics = metrics
	return l
}

// WithLogger sets the component logger
func (l *Launcher) WithLogger(logger *zap.Logger) *Launcher {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Open pushes the route of the named app. fromPage is the 1-based home
// screen page the launch came from; below 1 the launch is a desktop one
// and no return page is recorded. Unknown names change nothing.
func (l *Launcher) Open(r route.Router, name string, fromPage int) (registry.App, bool) {
	app, ok := l.registry.Resolve(name)
	if !ok {
		l.logger.Debug("Launch of unknown app ignored", zap.String("name", name))
		return registry.App{}, false
	}

	source := types.SourceDesktop
	if fromPage >= 1 {
		source = types.SourceMobile
	}
	path := route.AppPathFrom(app.Route, fromPage)
	r.Push(path)

	l.logger.Debug("App launched",
		zap.String("app", app.ID),
		zap.String("path", path),
		zap.String("source", string(source)),
	)
	if l.metrics != nil {
		l.metrics.RecordLaunch(string(source))
	}
	if l.notifier != nil {
		l.notifier.Launched(types.LaunchEvent{
			Source: source,
			App:    app.ID,
			Path:   path,
			At:     l.now(),
		})
	}
	return app, true
}

// Back leaves an app. On mobile with a valid fromPage in rawQuery the home
// screen page is restored by replacing the current entry; otherwise the
// history goes back one step. It returns the resulting path.
func (l *Launcher) Back(r route.Router, rawQuery string, mobile bool) string {
	if page, ok := route.FromPage(rawQuery); mobile && ok {
		r.Replace(route.PagePath(page - 1))
		return r.Current()
	}
	r.Back()
	return r.Current()
}
