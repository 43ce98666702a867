package config

import "github.com/hashicorp/go-multierror"

// joinErrors folds errs into a multierror, returning nil when errs is empty.
func joinErrors(errs []error) error {
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
