// Package updater replaces the toupnode binary with the latest GitHub
// release.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/internal/version"
)

// DefaultRepository is the release source.
const DefaultRepository = "smazurov/touptek"

// Options configures an Updater.
type Options struct {
	Repository string // GitHub slug, owner/name
	Prerelease bool
}

// UpdateInfo describes the latest release relative to the running binary.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes,omitempty"`
	ReleaseURL      string    `json:"release_url,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	AssetSize       int       `json:"asset_size,omitempty"`
	UpdateAvailable bool      `json:"update_available"`
}

// source is the part of selfupdate.Updater used here.
type source interface {
	DetectLatest(ctx context.Context, repo selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error
}

// Updater checks for and applies releases.
type Updater struct {
	repo       selfupdate.Repository
	source     source
	executable func() (string, error)
	current    string
	logger     *slog.Logger
}

// New creates an Updater for the GitHub repository in opts.
func New(opts Options) (*Updater, error) {
	if opts.Repository == "" {
		opts.Repository = DefaultRepository
	}
	gh, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}
	up, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     gh,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}
	return &Updater{
		repo:       selfupdate.ParseSlug(opts.Repository),
		source:     up,
		executable: selfupdate.ExecutablePath,
		current:    version.Version,
		logger:     logging.GetLogger("updater"),
	}, nil
}

// Check queries the latest release without downloading it. A dev build is
// always considered outdated.
func (u *Updater) Check(ctx context.Context) (*UpdateInfo, *selfupdate.Release, error) {
	release, found, err := u.source.DetectLatest(ctx, u.repo)
	if err != nil {
		return nil, nil, newError(ErrCodeCheckFailed, "failed to check for updates", err)
	}
	if !found || release == nil {
		return nil, nil, newError(ErrCodeNotFound, "repository not found or has no releases", nil)
	}

	info := &UpdateInfo{
		CurrentVersion:  u.current,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		AssetSize:       release.AssetByteSize,
		UpdateAvailable: u.current == "dev" || release.GreaterThan(u.current),
	}
	return info, release, nil
}

// Apply updates the running executable in place when a newer release
// exists. The caller restarts the process.
func (u *Updater) Apply(ctx context.Context) (*UpdateInfo, error) {
	exe, err := u.executable()
	if err != nil {
		return nil, newError(ErrCodeApplyFailed, "failed to get executable path", err)
	}
	if ok, reason := canReplace(exe); !ok {
		return nil, newError(ErrCodeDisabled, reason, nil)
	}

	info, release, err := u.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !info.UpdateAvailable {
		return info, newError(ErrCodeNoUpdate, "already at "+info.LatestVersion, nil)
	}

	u.logger.Info("Applying update", "from", info.CurrentVersion, "to", info.LatestVersion, "path", exe)
	if err := u.source.UpdateTo(ctx, release, exe); err != nil {
		return info, newError(ErrCodeApplyFailed, "failed to apply update", err)
	}
	u.logger.Info("Update applied", "version", info.LatestVersion)
	return info, nil
}

// canReplace reports whether the directory holding exe is writable.
func canReplace(exe string) (bool, string) {
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	f, err := os.CreateTemp(dir, ".toupnode.update-*")
	if err != nil {
		return false, fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	f.Close()
	os.Remove(f.Name())
	return true, ""
}
