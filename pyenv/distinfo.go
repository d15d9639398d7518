package pyenv

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// DistInfoSource reads installed distributions straight from the metadata
// directories found on sys.path, the same place importlib.metadata looks.
type DistInfoSource struct {
	SysPath []string
	Logger  *slog.Logger
}

// Packages scans each sys.path entry for *.dist-info/METADATA and
// *.egg-info/PKG-INFO. When a name appears in several directories the
// earliest sys.path entry wins.
func (s DistInfoSource) Packages(ctx context.Context) (Inventory, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	inv := make(Inventory)
	for _, dir := range s.SysPath {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Debug("skipping sys.path entry", "dir", dir, "error", err)
			continue
		}
		for _, e := range entries {
			metadata := metadataFile(dir, e)
			if metadata == "" {
				continue
			}
			name, ver, err := readMetadata(metadata)
			if err != nil || name == "" {
				logger.Debug("unreadable distribution metadata", "path", metadata, "error", err)
				continue
			}
			if _, seen := inv[name]; !seen {
				inv[name] = ver
			}
		}
	}
	return inv, nil
}

// metadataFile returns the metadata path for a dist-info or egg-info entry,
// or "" when e is neither.
func metadataFile(dir string, e os.DirEntry) string {
	name := e.Name()
	switch {
	case strings.HasSuffix(name, ".dist-info") && e.IsDir():
		return filepath.Join(dir, name, "METADATA")
	case strings.HasSuffix(name, ".egg-info") && e.IsDir():
		return filepath.Join(dir, name, "PKG-INFO")
	case strings.HasSuffix(name, ".egg-info"):
		return filepath.Join(dir, name)
	}
	return ""
}

// readMetadata extracts the Name and Version headers of a core metadata file.
func readMetadata(path string) (name, version string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	header, err := textproto.NewReader(bufio.NewReader(f)).ReadMIMEHeader()
	name = strings.TrimSpace(header.Get("Name"))
	version = strings.TrimSpace(header.Get("Version"))
	if name != "" && version != "" {
		return name, version, nil
	}
	return name, version, err
}
