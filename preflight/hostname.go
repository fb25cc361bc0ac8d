package preflight

import "os"

func osHostname() (string, error) { return os.Hostname() }
