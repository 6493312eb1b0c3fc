package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytmap/internal/shared"
)

// Phase groups steps the way a bootstrap recipe does: prerequisites, installation, then the dev process.
type Phase string

const (
	PhaseRequires Phase = "requires"
	PhaseInstall  Phase = "install"
	PhaseRun      Phase = "run"
)

// Step is one planned command. Skipped steps carry the reason they will not run.
type Step struct {
	Name    string
	Phase   Phase
	Path    string
	Args    []string
	Skipped string
	// Interactive steps get the launcher's stdin.
	Interactive bool
}

// String renders the step as a shell-like command line.
func (s Step) String() string {
	return strings.TrimSpace(s.Path + " " + strings.Join(s.Args, " "))
}

// Plan is the resolved list of steps for one run.
type Plan struct {
	BackendDir  string
	Interpreter string
	VenvDir     string
	VenvPython  string
	Steps       []Step
}

// Config describes where the backend lives and which scripts bootstrap it.
type Config struct {
	BackendDir   string
	Interpreters []string
	VenvDir      string
	Requirements string
	AuthFile     string
	AuthScript   string
	ServerScript string
	ServerPort   int
}

// ConfigFrom builds a launcher [Config] from the application config, resolving the backend directory.
func ConfigFrom(c shared.LauncherConfig) (Config, error) {
	dir, err := ResolveBackendDir(c.BackendDir)
	if err != nil {
		return Config{}, err
	}
	return Config{
		BackendDir:   dir,
		Interpreters: c.Interpreters,
		VenvDir:      c.VenvDir,
		Requirements: c.Requirements,
		AuthFile:     c.AuthFile,
		AuthScript:   c.AuthScript,
		ServerScript: c.ServerScript,
		ServerPort:   c.ServerPort,
	}, nil
}

// ResolveBackendDir returns dir as an absolute path, or the "backend" directory next to the running executable.
func ResolveBackendDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "backend"), nil
}

func (c Config) withDefaults() Config {
	if len(c.Interpreters) == 0 {
		c.Interpreters = []string{"python3"}
	}
	if c.VenvDir == "" {
		c.VenvDir = "venv"
	}
	if c.Requirements == "" {
		c.Requirements = "requirements.txt"
	}
	if c.AuthFile == "" {
		c.AuthFile = "browser.json"
	}
	if c.AuthScript == "" {
		c.AuthScript = "setup_auth.py"
	}
	if c.ServerScript == "" {
		c.ServerScript = "server.py"
	}
	if c.ServerPort == 0 {
		c.ServerPort = 5000
	}
	return c
}

// Launcher runs the backend bootstrap sequence.
type Launcher struct {
	config   Config
	logger   *log.Logger
	executor Executor
	lookPath func(string) (string, error)
	environ  func() []string
	goos     string
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// Option configures a [Launcher].
type Option func(*Launcher)

// WithExecutor replaces the process executor.
func WithExecutor(e Executor) Option {
	return func(l *Launcher) { l.executor = e }
}

// WithLookPath replaces the PATH lookup used to find the interpreter.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(l *Launcher) { l.lookPath = fn }
}

// WithEnviron replaces the base environment passed to child processes.
func WithEnviron(fn func() []string) Option {
	return func(l *Launcher) { l.environ = fn }
}

// WithGOOS overrides the target platform used for venv layout.
func WithGOOS(goos string) Option {
	return func(l *Launcher) { l.goos = goos }
}

// WithIO sets the streams handed to child processes.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// New creates a [Launcher]. A nil logger logs to stderr.
func New(config Config, logger *log.Logger, opts ...Option) *Launcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	l := &Launcher{
		config:   config.withDefaults(),
		logger:   logger,
		executor: ProcessExecutor{},
		lookPath: exec.LookPath,
		environ:  os.Environ,
		goos:     runtime.GOOS,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FindInterpreter returns the first configured interpreter found on PATH.
func (l *Launcher) FindInterpreter() (string, error) {
	for _, name := range l.config.Interpreters {
		if path, err := l.lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrInterpreterNotFound, strings.Join(l.config.Interpreters, ", "))
}

// VenvPython returns the interpreter path inside venvDir for the launcher's platform.
func (l *Launcher) VenvPython(venvDir string) string {
	if l.goos == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(venvDir, "bin", "python")
}

func (l *Launcher) venvBin(venvDir string) string {
	if l.goos == "windows" {
		return filepath.Join(venvDir, "Scripts")
	}
	return filepath.Join(venvDir, "bin")
}

// Plan resolves the interpreter and builds the step list without running anything.
//
// It fails with an [*ExitError] of code 1 wrapping [ErrInterpreterNotFound] when no interpreter exists.
func (l *Launcher) Plan() (*Plan, error) {
	interpreter, err := l.FindInterpreter()
	if err != nil {
		return nil, &ExitError{Step: "check interpreter", Code: 1, Err: err}
	}

	dir := l.config.BackendDir
	if !shared.DirExists(dir) {
		return nil, &ExitError{Step: "enter backend", Code: 1, Err: fmt.Errorf("%w: %s", ErrBackendNotFound, dir)}
	}

	venvDir := filepath.Join(dir, l.config.VenvDir)
	venvPython := l.VenvPython(venvDir)
	plan := &Plan{BackendDir: dir, Interpreter: interpreter, VenvDir: venvDir, VenvPython: venvPython}

	create := Step{Name: "create venv", Phase: PhaseRequires, Path: interpreter, Args: []string{"-m", "venv", l.config.VenvDir}}
	if shared.DirExists(venvDir) {
		create.Skipped = l.config.VenvDir + " already exists"
	}

	install := Step{
		Name:  "install requirements",
		Phase: PhaseInstall,
		Path:  venvPython,
		Args:  []string{"-m", "pip", "install", "-r", l.config.Requirements},
	}

	auth := Step{Name: "setup auth", Phase: PhaseInstall, Path: venvPython, Args: []string{l.config.AuthScript}, Interactive: true}
	if shared.FileExists(filepath.Join(dir, l.config.AuthFile)) {
		auth.Skipped = l.config.AuthFile + " found"
	}

	server := Step{Name: "run server", Phase: PhaseRun, Path: venvPython, Args: []string{l.config.ServerScript}, Interactive: true}

	plan.Steps = []Step{create, install, auth, server}
	return plan, nil
}

// Env returns the base environment with the venv activated.
func (l *Launcher) Env(venvDir string) []string {
	bin := l.venvBin(venvDir)
	env := make([]string, 0, len(l.environ())+2)
	path := ""
	for _, kv := range l.environ() {
		key, value, _ := strings.Cut(kv, "=")
		switch strings.ToUpper(key) {
		case "PATH":
			path = value
			continue
		case "VIRTUAL_ENV", "PYTHONHOME":
			continue
		}
		env = append(env, kv)
	}

	if path == "" {
		path = bin
	} else {
		path = bin + string(os.PathListSeparator) + path
	}
	return append(env, "VIRTUAL_ENV="+venvDir, "PATH="+path)
}

// Run executes the plan. The first failing step stops the run and its [*ExitError] is returned.
func (l *Launcher) Run(ctx context.Context) error {
	plan, err := l.Plan()
	if err != nil {
		if errors.Is(err, ErrInterpreterNotFound) {
			l.logger.Error("Python 3 is required but was not found on PATH", "candidates", l.config.Interpreters)
		} else {
			l.logger.Error("cannot start backend", "error", err)
		}
		return err
	}

	logger := shared.WithLogger(l.logger, "backend", plan.BackendDir)
	env := l.Env(plan.VenvDir)

	for _, step := range plan.Steps {
		if step.Skipped != "" {
			logger.Info("skipping step", "step", step.Name, "reason", step.Skipped)
			continue
		}

		if step.Phase == PhaseRun {
			logger.Info("starting server", "url", fmt.Sprintf("http://localhost:%d", l.config.ServerPort))
		} else {
			logger.Info("running step", "step", step.Name, "command", step.String())
		}

		cmd := Command{Dir: plan.BackendDir, Path: step.Path, Args: step.Args, Env: env, Stdout: l.stdout, Stderr: l.stderr}
		if step.Interactive {
			cmd.Stdin = l.stdin
		}

		if err := l.executor.Run(ctx, cmd); err != nil {
			return stepError(step.Name, err)
		}
	}
	return nil
}

// DryRun writes the plan to w without executing it.
func (l *Launcher) DryRun(w io.Writer) error {
	plan, err := l.Plan()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "backend: %s\n", plan.BackendDir)
	fmt.Fprintf(w, "interpreter: %s\n", plan.Interpreter)
	for i, step := range plan.Steps {
		status := "run"
		if step.Skipped != "" {
			status = "skip (" + step.Skipped + ")"
		}
		fmt.Fprintf(w, "%d. [%s] %s: %s  %s\n", i+1, step.Phase, step.Name, step.String(), status)
	}
	fmt.Fprintf(w, "server: http://localhost:%d\n", l.config.ServerPort)
	return nil
}

func stepError(step string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Step == "" {
			exitErr.Step = step
		}
		return exitErr
	}
	return &ExitError{Step: step, Code: 1, Err: err}
}
