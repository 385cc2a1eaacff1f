package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// MimeType is the content type the mpv pepper plugin registers for
const MimeType = "application/x-mpvjs"

// DefaultName is the file name of the compiled plugin
const DefaultName = "mpvjs.node"

// Switches appended to the host command line
const (
	SwitchNoSandbox       = "no-sandbox"
	SwitchIgnoreGPUList   = "ignore-gpu-blacklist"
	SwitchRegisterPlugins = "register-pepper-plugins"
)

// ErrNoPluginDir is returned when no plugin directory is configured
var ErrNoPluginDir = errors.New("plugin directory is required")

// Host receives command line switches before the host process starts
type Host interface {
	AppendSwitch(name, value string)
}

// Entry builds the "<path>;<mime>" plugin registration value.
// The path is made relative to cwd. A bare file name gets a "./" prefix on
// linux, and paths outside cwd stay absolute on windows.
func Entry(cwd, dir, name, goos string) string {
	full := filepath.Join(dir, name)

	path, err := filepath.Rel(cwd, full)
	if err != nil {
		path = full
	}

	if filepath.Dir(path) == "." {
		if goos == "linux" {
			path = "." + string(filepath.Separator) + path
		}
	} else if goos == "windows" {
		path = full
	}

	return path + ";" + MimeType
}

// Options configures an Installer
type Options struct {
	Dir  string
	Name string
	GOOS string
	// Absolute registers the plugin by full path and leaves the working
	// directory alone, for switches handed to a separately launched host
	Absolute bool
}

// Installation describes a registered plugin
type Installation struct {
	Dir      string
	FilePath string
	Exists   bool
	Entry    string
}

// Installer registers the mpv plugin with a host process
type Installer struct {
	logger zerolog.Logger
	opts   Options

	getwd func() (string, error)
	chdir func(string) error
	stat  func(string) (os.FileInfo, error)
}

// NewInstaller creates an installer for the plugin described by opts
func NewInstaller(logger zerolog.Logger, opts Options) *Installer {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}

	return &Installer{
		logger: logger.With().Str("component", "plugin").Logger(),
		opts:   opts,
		getwd:  os.Getwd,
		chdir:  os.Chdir,
		stat:   os.Stat,
	}
}

// Install appends the sandbox, GPU and plugin registration switches to host.
// Outside linux the process first moves into the plugin directory so the
// entry can be a bare relative path.
func (i *Installer) Install(host Host) (*Installation, error) {
	if i.opts.Dir == "" {
		return nil, ErrNoPluginDir
	}

	dir, err := filepath.Abs(i.opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plugin dir: %w", err)
	}

	if i.opts.GOOS != "linux" && !i.opts.Absolute {
		if err := i.chdir(dir); err != nil {
			return nil, fmt.Errorf("failed to enter plugin dir: %w", err)
		}
	}

	cwd, err := i.getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to read working dir: %w", err)
	}

	inst := &Installation{
		Dir:      dir,
		FilePath: filepath.Join(dir, i.opts.Name),
		Entry:    Entry(cwd, dir, i.opts.Name, i.opts.GOOS),
	}
	if i.opts.Absolute {
		inst.Entry = inst.FilePath + ";" + MimeType
	}
	_, err = i.stat(inst.FilePath)
	inst.Exists = err == nil

	event := i.logger.Info()
	if !inst.Exists {
		event = i.logger.Warn()
	}
	event.
		Str("plugin_dir", inst.Dir).
		Str("file_path", inst.FilePath).
		Bool("exists", inst.Exists).
		Str("entry", inst.Entry).
		Msg("registering mpv plugin")

	host.AppendSwitch(SwitchNoSandbox, "")
	host.AppendSwitch(SwitchIgnoreGPUList, "")
	host.AppendSwitch(SwitchRegisterPlugins, inst.Entry)

	return inst, nil
}
