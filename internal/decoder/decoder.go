package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

const (
	FormatSQLite Format = iota
	FormatYAML
)

// sqliteMagic is the header every Sqlite 3 database file starts with.
var sqliteMagic = []byte("SQLite format 3\x00")

// Format identifies the container a Source was decoded from.
type Format int

func (f Format) String() string {
	switch f {
	case FormatSQLite:
		return "sqlite"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Source is a decoded input together with what is known about the stream it
// came from.
type Source struct {
	telemetry.Input

	Name   string
	Size   int64
	Format Format
}

// Open opens the file at path and decodes it.
func Open(ctx context.Context, path string) (src *Source, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewInputOpenError(path, err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = NewInputOpenError(path, cErr)
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, NewInputOpenError(path, err)
	}
	if fi.IsDir() {
		return nil, NewInputOpenError(path, errors.New("is a directory"))
	}

	return Decode(ctx, f, fi.Size(), path)
}

// Decode sniffs the container format of r and decodes it. name is used in
// diagnostics and, for a Sqlite recording backed by a file, as its path.
func Decode(ctx context.Context, r io.ReadSeeker, size int64, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, NewDecodeError(name, "reading header", err)
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return nil, NewDecodeError(name, "rewinding input", err)
	}

	src := &Source{Name: name, Size: size}
	if n == len(sqliteMagic) && bytes.Equal(header, sqliteMagic) {
		src.Format = FormatSQLite
		src.Input, err = decodeSqlite(ctx, r, name)
	} else {
		src.Format = FormatYAML
		src.Input, err = decodeYAML(r, name)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}
