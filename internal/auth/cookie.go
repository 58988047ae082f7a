package auth

import (
	"fmt"
	"strconv"
	"strings"
)

// The session cookie value is "{sessionID}:{rawTokenHex}". The raw token is
// known only to the client; the store holds its hash.

func FormatCookie(sessionID uint, rawToken string) string {
	return fmt.Sprintf("%d:%s", sessionID, rawToken)
}

func parseCookie(value string) (uint, string, error) {
	idPart, token, found := strings.Cut(value, ":")
	if !found || idPart == "" || token == "" {
		return 0, "", ErrMalformedCookie
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return 0, "", ErrMalformedCookie
	}
	return uint(id), token, nil
}
