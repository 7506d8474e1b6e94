package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
)

// writeStructured encodes v as "json" or "yaml". It reports false for any
// other format so the caller can fall back to its own text layout.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, apperr.Wrap(err, apperr.ErrInternal.Code, "encode JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return true, err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, apperr.Wrap(err, apperr.ErrInternal.Code, "encode YAML")
		}
		return true, enc.Close()
	}
	return false, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if f == format {
			return nil
		}
	}
	return apperr.Invalid(apperr.ErrInvalidInput, "unsupported format %q (want one of %v)", format, allowed)
}
