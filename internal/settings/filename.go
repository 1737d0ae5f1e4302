package settings

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	TagNetwork   = "network"
	TagNetworkID = "network_id"
)

var filenameTags = map[string]struct{}{
	TagNetwork:   {},
	TagNetworkID: {},
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// OutputPath renders the output file name for a network inside dir.
func (o OutputSettings) OutputPath(dir, networkName, networkID string) string {
	values := map[string]string{
		TagNetwork:   sanitizeFilename(networkName),
		TagNetworkID: sanitizeFilename(networkID),
	}

	t := fasttemplate.New(o.Filename, "{{", "}}")
	name := t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		return w.Write([]byte(values[strings.TrimSpace(tag)]))
	})
	return filepath.Join(dir, name)
}

func sanitizeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "_")
	return strings.Trim(s, "_")
}
