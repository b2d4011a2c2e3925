package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/evenlangas/paper-filtering/internal/config"
	"github.com/evenlangas/paper-filtering/internal/extract"
	"github.com/evenlangas/paper-filtering/internal/reference"
)

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckInputFiles reports how many export files the directory holds. An
// empty directory fails because a run over it would write nothing.
func CheckInputFiles(name, dir, ext string) Result {
	files, err := extract.Discover(dir, ext)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if len(files) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("no %s files in %s", ext, dir)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d %s file(s)", len(files), ext)}
}

// CheckReadableFile verifies that path is a readable regular file.
func CheckReadableFile(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: config.ErrReferenceRequired.Error()}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckReference parses the ranking table and reports the accepted journal count.
func CheckReference(ctx context.Context, name string, cfg *config.Config) Result {
	if err := ctx.Err(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	set, err := reference.Load(cfg.Paths.ReferenceFile, reference.OptionsFromConfig(cfg))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if set.Len() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("no journals ranked %s", strings.Join(cfg.Filter.AcceptedQuartiles, "/"))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d journal(s) ranked %s", set.Len(), strings.Join(cfg.Filter.AcceptedQuartiles, "/"))}
}

// CheckWritableTarget verifies that a file can be created or replaced at
// path. Missing parent directories are acceptable when the nearest existing
// ancestor is writable.
func CheckWritableTarget(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	dir := nearestExisting(filepath.Dir(path))
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s not writable: %v)", path, dir, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (write ok)", path)}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
