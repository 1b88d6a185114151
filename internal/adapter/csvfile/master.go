package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/google/renameio/v2"
)

// MasterColumns is the fixed prefix of every master file header.
var MasterColumns = []string{"date", "city_name", "max_temperature", "condition_label", "latitude", "longitude", "outlier"}

const cancelCheckEvery = 8192

// MasterWriter publishes the master dataset with an atomic rename, so readers
// see either the previous file or the complete new one.
type MasterWriter struct {
	path   string
	logger *slog.Logger

	// wrap intercepts the staged file, used to inject write failures.
	wrap func(io.Writer) io.Writer
}

func NewMasterWriter(path string, logger *slog.Logger) *MasterWriter {
	return &MasterWriter{path: path, logger: logger}
}

func (w *MasterWriter) Path() string { return w.path }

// WriteMaster stages records in the destination directory and renames the
// staged file over the master path. On failure the staged file is removed and
// the previous master is left untouched.
func (w *MasterWriter) WriteMaster(ctx context.Context, records []domain.MasterRecord, aux []string) error {
	pf, err := renameio.NewPendingFile(w.path,
		renameio.WithTempDir(filepath.Dir(w.path)),
		renameio.WithPermissions(0o644),
	)
	if err != nil {
		return fmt.Errorf("%w: stage %s: %w", domain.ErrWrite, w.path, err)
	}
	defer pf.Cleanup() //nolint:errcheck // no-op after a successful replace

	var out io.Writer = pf
	if w.wrap != nil {
		out = w.wrap(pf)
	}
	if err := EncodeMaster(ctx, out, records, aux); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrWrite, w.path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: replace %s: %w", domain.ErrWrite, w.path, err)
	}

	w.logger.Info("master written", "path", w.path, "rows", len(records), "aux_columns", len(aux))
	return nil
}

// EncodeMaster writes the header and one line per record.
func EncodeMaster(ctx context.Context, w io.Writer, records []domain.MasterRecord, aux []string) error {
	cw := csv.NewWriter(w)

	header := append(slices.Clone(MasterColumns), aux...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, r := range records {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row[0] = r.Date.Format(domain.DateLayout)
		row[1] = r.City.Name
		row[2] = formatFloat(r.MaxTemperature)
		row[3] = string(r.Condition)
		row[4] = formatFloat(r.City.Latitude)
		row[5] = formatFloat(r.City.Longitude)
		row[6] = strconv.FormatBool(r.Outlier)
		for j, name := range aux {
			row[len(MasterColumns)+j] = auxValue(r.Aux, name)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func auxValue(fields []domain.Field, name string) string {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}
