package strip

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Print hands a saved strip to the system print spooler.
func Print(ctx context.Context, path string) error {
	out, err := exec.CommandContext(ctx, "lp", path).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return errors.Wrapf(err, "failed to print %s: %s", path, msg)
		}
		return errors.Wrapf(err, "failed to print %s", path)
	}
	return nil
}
