package calendar

import (
	"errors"
	"strings"
)

// ErrReauthRequired marks failures that only re-authentication can fix.
// Fetching stays suspended until the user reconnects; the cached-snapshot
// fallback does not apply.
var ErrReauthRequired = errors.New("calendar access requires re-authentication")

// reauthMarkers are the error-text fragments that indicate an expired or
// revoked credential rather than a transient outage.
var reauthMarkers = []string{
	"invalid_grant",
	"token has been expired or revoked",
	"token expired",
	"invalid credentials",
	"unauthorized",
	"401",
	"403",
}

// IsReauthError classifies a fetch failure: true means re-authentication is
// required, false means the failure is transient and the last cached
// snapshot can stand in.
func IsReauthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrReauthRequired) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range reauthMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
