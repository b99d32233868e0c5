// Package pdpa holds the personal-data-protection gates shared by the API and
// the OCR worker: consent enforcement, PII redaction, and credential isolation.
//
// Every function here is pure. Callers own logging, metrics, and translating
// errors into transport responses or process exit.
package pdpa

import dErrors "containerbase/pkg/domain-errors"

// ConsentRecord asserts that a subject has granted, and not revoked,
// permission to process their data. It is built fresh for each request.
type ConsentRecord struct {
	UserID      string `json:"user_id"`
	ConsentedAt string `json:"consented_at"`
	// RevokedAt is any non-empty value when consent was withdrawn. The content
	// is not parsed; presence alone marks the record revoked.
	RevokedAt string `json:"revoked_at,omitempty"`
}

// Validate checks the structural invariants: UserID and ConsentedAt must be
// non-empty. Timestamp format is not inspected.
func (c ConsentRecord) Validate() error {
	if c.UserID == "" {
		return dErrors.New(dErrors.CodeValidation, "user_id must not be empty")
	}
	if c.ConsentedAt == "" {
		return dErrors.New(dErrors.CodeValidation, "consented_at must not be empty")
	}
	return nil
}

// IsActive reports whether consent has not been revoked.
func (c ConsentRecord) IsActive() bool {
	return c.RevokedAt == ""
}

// Consent failure messages. All carry CodeConsentMissing.
const (
	msgConsentMissing   = "consent record is missing"
	msgConsentMalformed = "consent record is malformed"
	msgConsentRevoked   = "consent has been revoked"
)

// RequireConsent returns the record unchanged when it is present, well formed
// and active. Any other input fails with CodeConsentMissing; the message tells
// missing, malformed and revoked apart.
func RequireConsent(record *ConsentRecord) (ConsentRecord, error) {
	if record == nil {
		return ConsentRecord{}, dErrors.New(dErrors.CodeConsentMissing, msgConsentMissing)
	}
	if err := record.Validate(); err != nil {
		return ConsentRecord{}, dErrors.Wrap(err, dErrors.CodeConsentMissing, msgConsentMalformed)
	}
	if !record.IsActive() {
		return ConsentRecord{}, dErrors.New(dErrors.CodeConsentMissing, msgConsentRevoked)
	}
	return *record, nil
}

// RejectionReason classifies a RequireConsent failure for metrics labels.
// It returns "" for errors that did not come from RequireConsent.
func RejectionReason(err error) string {
	de, ok := dErrors.As(err)
	if !ok || de.Code != dErrors.CodeConsentMissing {
		return ""
	}
	switch de.Message {
	case msgConsentMissing:
		return "missing"
	case msgConsentMalformed:
		return "malformed"
	case msgConsentRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}
