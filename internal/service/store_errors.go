package service

import (
	"errors"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

// storeError keeps connectivity failures as they are, logging them once, and
// wraps anything else as an internal error.
func storeError(logger *zap.Logger, err error, message string) error {
	if errors.Is(err, appErrors.ErrConnectivity) {
		logger.Error("data store unreachable", zap.String("op", message), zap.Error(err))
		return err
	}
	logger.Warn(message, zap.Error(err))
	return appErrors.Preserve(err, message)
}
