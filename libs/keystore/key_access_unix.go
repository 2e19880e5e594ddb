//go:build darwin || freebsd || linux

package keystore

import (
	"fmt"
	"os"
)

// keyAccess checks that the key file is readable by its owner only.
func keyAccess(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := st.Mode().Perm(); mode&0o077 != 0 {
		return fmt.Errorf("required: 0600, got: %#o", mode)
	}

	return nil
}
