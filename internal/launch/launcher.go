package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"

	"github.com/towerlab/platekit/internal/access"
)

// ErrAppNotRegistered is returned for launch requests outside the allow-list.
var ErrAppNotRegistered = errors.New("app not registered")

// AccessError reports a launch blocked by the access gate.
type AccessError struct {
	App     string
	Verdict access.Verdict
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("app %q not available: %s", e.App, e.Verdict)
}

// Launcher starts registered apps and tracks the resulting processes so
// they can be terminated on shutdown.
type Launcher struct {
	registry map[string]AppConfig
	gate     *access.Gate
	baseDir  string

	mu      sync.Mutex
	running []*exec.Cmd
}

// Option configures the launcher.
type Option func(*Launcher)

// WithRegistry populates the allow-list from a loaded registry file.
func WithRegistry(apps map[string]AppConfig) Option {
	return func(l *Launcher) {
		for name, app := range apps {
			l.registry[name] = app
		}
	}
}

// WithGate installs the access gate consulted before every launch.
func WithGate(gate *access.Gate) Option {
	return func(l *Launcher) {
		l.gate = gate
	}
}

// WithBaseDir sets the default working directory for launched apps.
func WithBaseDir(dir string) Option {
	return func(l *Launcher) {
		l.baseDir = dir
	}
}

// New creates a launcher.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		registry: make(map[string]AppConfig),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register adds an app to the allow-list.
func (l *Launcher) Register(app AppConfig) {
	if app.Name == "" {
		return
	}
	l.registry[app.Name] = app
}

// Apps returns the registered apps sorted by name.
func (l *Launcher) Apps() []AppConfig {
	apps := make([]AppConfig, 0, len(l.registry))
	for _, app := range l.registry {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	return apps
}

// Status runs the access gate for app without launching it.
func (l *Launcher) Status(ctx context.Context, name string) (access.Verdict, error) {
	if _, ok := l.registry[name]; !ok {
		return "", fmt.Errorf("%w: %s", ErrAppNotRegistered, name)
	}
	if l.gate == nil {
		return access.VerdictValid, nil
	}
	return l.gate.Check(ctx, name)
}

// Launch checks the gate and starts the app as an independent process.
// The process is tracked for Shutdown but not waited on.
func (l *Launcher) Launch(ctx context.Context, name string) error {
	app, ok := l.registry[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAppNotRegistered, name)
	}

	if l.gate != nil {
		verdict, err := l.gate.Check(ctx, name)
		if err != nil {
			return fmt.Errorf("access check for %q: %w", name, err)
		}
		if verdict != access.VerdictValid {
			return &AccessError{App: name, Verdict: verdict}
		}
	}

	cmd := exec.Command(app.Command, app.Args...)
	cmd.Dir = app.Dir
	if cmd.Dir == "" {
		cmd.Dir = l.baseDir
	}
	env := os.Environ()
	for k, v := range app.Environment {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %q: %w", name, err)
	}

	l.mu.Lock()
	l.running = append(l.running, cmd)
	l.mu.Unlock()

	// Reap in the background so finished apps do not linger as zombies.
	go func() { _ = cmd.Wait() }()

	return nil
}

// Shutdown terminates every tracked process that is still running.
func (l *Launcher) Shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, cmd := range l.running {
		if cmd.Process != nil && cmd.ProcessState == nil {
			_ = cmd.Process.Kill()
		}
	}
	l.running = nil
}
