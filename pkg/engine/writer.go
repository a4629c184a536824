package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/forgectl/forge/pkg/log"
	"github.com/forgectl/forge/pkg/types"
)

// writer replaces artifact files with backups so a failed run can be undone.
type writer struct {
	dir    string
	logger log.Logger

	// backups maps the target path to its .bak copy; written tracks files
	// that had no previous version and should be removed on rollback.
	backups map[string]string
	written []string
}

func newWriter(dir string, logger log.Logger) *writer {
	return &writer{dir: dir, logger: logger, backups: make(map[string]string)}
}

func (w *writer) writeAll(artifacts []*types.Artifact) error {
	for _, a := range artifacts {
		if err := w.write(a); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) write(a *types.Artifact) error {
	target := filepath.Join(w.dir, a.Name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}

	if prev, err := os.ReadFile(target); err == nil {
		bak := target + ".bak"
		if err := os.WriteFile(bak, prev, 0o600); err != nil {
			return fmt.Errorf("back up %s: %w", target, err)
		}
		w.backups[target] = bak
	} else if os.IsNotExist(err) {
		w.written = append(w.written, target)
	} else {
		return fmt.Errorf("read %s: %w", target, err)
	}

	// Write through a temp file in the same directory so the final rename
	// is atomic on the same filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", target, err)
	}
	if _, err := tmp.WriteString(a.Text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("stage %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("stage %s: %w", target, err)
	}
	if err := os.Chmod(tmp.Name(), mode(a.Kind)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("stage %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", target, err)
	}

	w.logger.Debug("artifact written", log.String("path", target))
	return nil
}

// rollback restores backed-up files and removes files that did not exist
// before the run.
func (w *writer) rollback() error {
	var firstErr error
	for target, bak := range w.backups {
		if err := os.Rename(bak, target); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("restore %s: %w", target, err)
		}
	}
	for _, target := range w.written {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", target, err)
		}
	}
	return firstErr
}

// mode keeps the env file private since it carries credentials.
func mode(kind types.ArtifactKind) os.FileMode {
	if kind == types.ArtifactEnv {
		return 0o600
	}
	return 0o644
}

// runLock is a directory-scoped lock so two runs cannot interleave writes.
type runLock struct {
	path string
}

func acquireLock(path string) (*runLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another run is in progress (lock %s held)", path)
		}
		return nil, err
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return &runLock{path: path}, nil
}

func (l *runLock) release() {
	os.Remove(l.path)
}
