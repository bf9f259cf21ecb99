// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"errors"

	"github.com/sparkyweld/sparky-client/internal/api"
)

func humanizeRequestError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, api.ErrNetwork):
		return "No network or the server is unavailable"
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrSessionExpired):
		return "Wrong credentials or the session has expired"
	}

	return err.Error()
}
