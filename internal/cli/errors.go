package cli

import (
	"errors"

	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

func isConfigurationError(err error) bool {
	var cfgErr *shadowpath.ConfigurationError
	return errors.As(err, &cfgErr)
}
