// Package media obtains local images for the home screen's capture and
// upload actions.
//
// The terminal client has no camera of its own: Capture takes the newest
// photo from a capture folder (where a webcam tool or phone sync drops
// files) and asks the user to confirm it, Pick asks for a path.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/nutrigate/internal/filex"
)

var ErrCancelled = errors.New("cancelled")

// ImageExtensions are the file types Capture looks for.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Picker returns the path of a local image or ErrCancelled.
type Picker interface {
	Capture(ctx context.Context) (string, error)
	Pick(ctx context.Context) (string, error)
}

// PromptFunc shows prompt and returns the user's answer.
type PromptFunc func(prompt string) (string, error)

type TerminalPicker struct {
	captureDir string
	prompt     PromptFunc
}

func NewTerminalPicker(captureDir string, prompt PromptFunc) *TerminalPicker {
	return &TerminalPicker{captureDir: captureDir, prompt: prompt}
}

func (p *TerminalPicker) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(p.captureDir)
	if err != nil {
		return "", fmt.Errorf("capture dir: %w", err)
	}

	path, err := filex.NewestFile(dir, ImageExtensions...)
	if err != nil {
		return "", fmt.Errorf("no photo to capture: %w", err)
	}

	answer, err := p.prompt(fmt.Sprintf("Use latest photo %s? [y/N]", path))
	if err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return path, nil
	}
	return "", ErrCancelled
}

func (p *TerminalPicker) Pick(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	answer, err := p.prompt("Path to image (empty to cancel)")
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrCancelled
	}

	path := filex.ExpandHome(answer)
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}
	return path, nil
}
