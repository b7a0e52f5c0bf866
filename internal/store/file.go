package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const slotExt = ".json"

// FileKV keeps one file per slot under a directory. Writes go to a hidden
// temp file which is synced and then renamed over the slot.
type FileKV struct {
	dir string
	log *zap.Logger
}

func NewFileKV(dir string, log *zap.Logger) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileKV{dir: dir, log: log.Named("filekv")}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+slotExt)
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	return data, nil
}

func (f *FileKV) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	fname := f.path(key)
	tempFname := filepath.Join(f.dir, "."+filepath.Base(fname)+".new")

	tmp, err := os.Create(tempFname)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	// No early returns past this point so the temp file is always cleaned up.
	_, err = tmp.Write(value)
	if err != nil {
		err = fmt.Errorf("write temp file: %w", err)
	}
	if err == nil {
		if err = tmp.Sync(); err != nil {
			err = fmt.Errorf("fsync temp file: %w", err)
		}
	}
	if err == nil {
		err = tmp.Close()
		tmp = nil
		if err != nil {
			err = fmt.Errorf("close temp file: %w", err)
		}
	}
	if err == nil {
		if err = os.Rename(tempFname, fname); err != nil {
			err = fmt.Errorf("rename temp file: %w", err)
		}
	}
	if err != nil {
		if tmp != nil {
			if closeErr := tmp.Close(); closeErr != nil {
				f.log.Warn("Unable to close temp file", zap.Error(closeErr))
			}
		}
		if remErr := os.Remove(tempFname); remErr != nil && !os.IsNotExist(remErr) {
			f.log.Warn("Unable to remove temp file", zap.String("file", tempFname), zap.Error(remErr))
		}
	}
	return err
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove slot %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Close() error { return nil }
