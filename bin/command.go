package bin

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"network-rrd/pkg/logger"
	"network-rrd/util"

	"go.uber.org/zap"
)

// RunCommand runs filename with args and returns its combined output. A bare
// name is looked up in the bin directory next to the executable first, then in
// PATH.
func RunCommand(ctx context.Context, filename string, args ...string) ([]byte, error) {
	path := Resolve(filename)
	logger.L().Debug("run command", zap.String("cmd", path+" "+strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, path, args...)
	return cmd.CombinedOutput()
}

func Resolve(filename string) string {
	if strings.ContainsRune(filename, os.PathSeparator) {
		return filename
	}
	candidate := filepath.Join(util.GetBinDir(), filename)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return filename
}
