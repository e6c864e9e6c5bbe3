package navexport

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Launcher attempts to open a URL in the target app. Implementations report
// an error when the launch did not take, so the exporter can move down the
// fallback chain.
type Launcher interface {
	Launch(ctx context.Context, rawURL string) error
}

// SystemLauncher opens URLs through the operating system's opener.
type SystemLauncher struct{}

// Launch hands the URL to the platform opener.
func (SystemLauncher) Launch(ctx context.Context, rawURL string) error {
	name, args, err := openerCommand(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}

	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("failed to open %s: %w", rawURL, err)
	}
	return nil
}

// openerCommand picks the OS-specific opener invocation for a URL.
func openerCommand(goos, rawURL string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}, nil
	case "linux":
		return "xdg-open", []string{rawURL}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}, nil
	default:
		return "", nil, fmt.Errorf("no URL opener for %s", goos)
	}
}
