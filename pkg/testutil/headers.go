package testutil

import "net/http"

// PDPA request headers understood by the API gate.
const (
	HeaderConsentStatus = "X-PDPA-Consent-Status"
	HeaderConsentAt     = "X-PDPA-Consent-At"
	HeaderUserID        = "X-User-Id"
	HeaderUserEmail     = "X-User-Email"
	HeaderGPSLat        = "X-GPS-Lat"
	HeaderGPSLon        = "X-GPS-Lon"
)

// WithActiveConsent marks the request as carrying active consent for userID.
func WithActiveConsent(req *http.Request, userID string) *http.Request {
	return WithConsentStatus(req, "active", userID)
}

// WithConsentStatus sets the consent status header and subject. An empty
// userID leaves X-User-Id unset.
func WithConsentStatus(req *http.Request, status, userID string) *http.Request {
	req.Header.Set(HeaderConsentStatus, status)
	req.Header.Set(HeaderConsentAt, "2025-11-01T10:00:00Z")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	return req
}

// WithEmail attaches a raw email header.
func WithEmail(req *http.Request, email string) *http.Request {
	req.Header.Set(HeaderUserEmail, email)
	return req
}

// WithGPS attaches raw GPS headers.
func WithGPS(req *http.Request, lat, lon string) *http.Request {
	req.Header.Set(HeaderGPSLat, lat)
	req.Header.Set(HeaderGPSLon, lon)
	return req
}
