package push

import "regexp"

var (
	expoTokenPattern = regexp.MustCompile(`^Expo(nent)?PushToken\[[^\]\s]+\]$`)
	fcmTokenPattern  = regexp.MustCompile(`^[A-Za-z0-9_:\-]+$`)
)

// IsExpoToken reports whether the token has the Expo push token shape,
// e.g. "ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]". Same check the Expo
// server SDK performs.
func IsExpoToken(token string) bool {
	return expoTokenPattern.MatchString(token)
}

// IsValidToken reports whether the token is plausibly deliverable: either an
// Expo push token or an FCM registration token. Format check only, no
// verification against the provider.
func IsValidToken(token string) bool {
	if IsExpoToken(token) {
		return true
	}
	return len(token) >= 32 && fcmTokenPattern.MatchString(token)
}
