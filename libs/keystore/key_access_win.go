//go:build windows

package keystore

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// keyAccess checks that the key file carries an access control list.
func keyAccess(path string) error {
	sd, err := windows.GetNamedSecurityInfo(path, windows.SE_FILE_OBJECT, windows.DACL_SECURITY_INFORMATION)
	if err != nil {
		return fmt.Errorf("reading DACL: %w", err)
	}
	if _, _, err = sd.DACL(); err != nil {
		return fmt.Errorf("file has no DACL: %w", err)
	}
	return nil
}
