package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lazynput/lazynputdb/internal/dberr"
	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/logging"
	"github.com/lazynput/lazynputdb/pkg/lazynputdb"
	"github.com/lazynput/lazynputdb/pkg/util"
)

// loadQuery parses app.sourcePath (or searches the default locations) into
// a ready-to-use Query, reporting diagnostics to stderr via a WriterSink.
func loadQuery() (*lazynputdb.Query, error) {
	q := lazynputdb.New()
	sink := dberr.WriterSink{Writer: logging.Logger.Out}

	var ok bool
	if app.sourcePath != "" {
		ok = q.ParseFile(app.sourcePath, sink)
	} else {
		ok = q.ParseDefault(sink)
	}
	if !ok {
		return nil, fmt.Errorf("parsing source failed")
	}
	if app.tags != "" {
		q.SetGlobalTags(util.SplitCommaSeparated(app.tags))
	}
	return q, nil
}

// parseHidIds parses "vid pid" hex strings into a HidIds.
func parseHidIds(vidStr, pidStr string) (devicesdb.HidIds, error) {
	vid, err := strconv.ParseUint(strings.TrimPrefix(vidStr, "0x"), 16, 16)
	if err != nil {
		return devicesdb.HidIds{}, fmt.Errorf("bad vid %q: %w", vidStr, err)
	}
	pid, err := strconv.ParseUint(strings.TrimPrefix(pidStr, "0x"), 16, 16)
	if err != nil {
		return devicesdb.HidIds{}, fmt.Errorf("bad pid %q: %w", pidStr, err)
	}
	return devicesdb.HidIds{VID: uint16(vid), PID: uint16(pid)}, nil
}
