package remote

import (
	"context"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	perr "killfeed/internal/platform/errors"
)

// maxLogBytes caps a single death log read. Exports are small; anything
// bigger is a mispointed path, not a log
const maxLogBytes = 64 << 20

// ReadAll fetches a whole remote file, transparently inflating rotated
// .gz logs
func ReadAll(ctx context.Context, f FS, path string) ([]byte, error) {
	rc, err := f.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "gzip open %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	b, err := io.ReadAll(io.LimitReader(r, maxLogBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxLogBytes {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "remote file %s exceeds %d bytes", path, maxLogBytes)
	}
	return b, nil
}
