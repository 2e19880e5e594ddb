package nodebuilder

import (
	"errors"
	"os"
)

const perms = 0o755

// Init creates the Store directory under path and writes cfg into it.
// Running Init again over an existing Store rewrites its config.
func Init(cfg Config, path string) error {
	dir, err := resolveLayout(path)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	log.Infow("initializing store", "path", dir.root())

	if err = mkdir(dir.root()); err != nil {
		return err
	}
	lk, err := dir.lock()
	if err != nil {
		return err
	}
	defer lk.Unlock() //nolint:errcheck

	if err = mkdir(dir.keys()); err != nil {
		return err
	}
	if err = SaveConfig(dir.config(), &cfg); err != nil {
		return err
	}
	log.Infow("saved config", "path", dir.config())
	return nil
}

// IsInit reports whether path holds a readable config and a keys directory.
func IsInit(path string) bool {
	dir, err := resolveLayout(path)
	if err != nil {
		log.Errorw("resolving store path", "path", path, "err", err)
		return false
	}
	if _, err = LoadConfig(dir.config()); err != nil {
		log.Debugw("store has no readable config", "path", dir.root(), "err", err)
		return false
	}
	return exists(dir.keys())
}

func mkdir(path string) error {
	if exists(path) {
		return nil
	}
	return os.MkdirAll(path, perms)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
