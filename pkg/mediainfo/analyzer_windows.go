//go:build windows

package mediainfo

import "os/exec"

func setNewProcessGroup(_ *exec.Cmd) {
}

func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
