// Package serial reads the motherboard serial number the MES record is keyed by.
package serial

import (
	"fmt"
	"os"
	"strings"

	apperrors "mes-report/internal/common/errors"
	"mes-report/internal/common/logger"
)

// Read returns the trimmed serial number stored at path. A missing file or a
// file with no content besides whitespace is a fatal SERIAL_READ_FAILED.
func Read(path string, log logger.Logger) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read serial number file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return "", apperrors.NewSerialReadFailedError(path, err)
	}

	sn := strings.TrimSpace(string(raw))
	if sn == "" {
		log.Error("serial number file is empty", map[string]interface{}{
			"path": path,
		})
		return "", apperrors.NewSerialReadFailedError(path, fmt.Errorf("file is empty"))
	}

	log.Info("serial number loaded", map[string]interface{}{
		"serial": sn,
	})
	return sn, nil
}
