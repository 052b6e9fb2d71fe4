//go:build !unix

package audit

import "os"

func lockFile(_ *os.File) error {
	return nil
}

func unlockFile(_ *os.File) {}
