// Package cos ("common os") holds small filesystem helper functions
// used by preflight, mirroring the teacher's own
// cmn/cos grab-bag of OS-level utilities.
package cos

import "os"

// IsExecutable reports whether path exists and has any execute bit
// set, per spec §4.8 ("any execute bit set").
func IsExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.IsDir() && fi.Mode()&0o111 != 0
}

// Exists reports whether path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
