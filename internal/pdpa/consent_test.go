package pdpa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "containerbase/pkg/domain-errors"
	"containerbase/pkg/testutil"
)

func activeRecord() *ConsentRecord {
	return &ConsentRecord{
		UserID:      "u1",
		ConsentedAt: "2025-11-01T10:00:00Z",
	}
}

func TestRequireConsent(t *testing.T) {
	testutil.Given(t, "no consent record", func(t *testing.T) {
		_, err := RequireConsent(nil)

		testutil.Then(t, "the request is blocked as missing", func(t *testing.T) {
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeConsentMissing))
			assert.Equal(t, "consent record is missing", err.Error())
			assert.Equal(t, "missing", RejectionReason(err))
		})
	})

	testutil.Given(t, "an active, well formed record", func(t *testing.T) {
		in := activeRecord()
		got, err := RequireConsent(in)

		testutil.Then(t, "the record is returned unchanged", func(t *testing.T) {
			require.NoError(t, err)
			assert.Equal(t, *in, got)
		})
	})

	testutil.Given(t, "a revoked record", func(t *testing.T) {
		for _, revokedAt := range []string{"revoked", "2025-11-02T00:00:00Z", " "} {
			in := activeRecord()
			in.RevokedAt = revokedAt
			_, err := RequireConsent(in)

			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeConsentMissing))
			assert.Equal(t, "consent has been revoked", err.Error())
			assert.Equal(t, "revoked", RejectionReason(err))
		}
	})

	testutil.Given(t, "a structurally invalid record", func(t *testing.T) {
		cases := map[string]*ConsentRecord{
			"empty user_id":      {ConsentedAt: "2025-11-01T10:00:00Z"},
			"empty consented_at": {UserID: "u1"},
			"both empty":         {},
			"malformed and revoked": {
				UserID:    "u1",
				RevokedAt: "revoked",
			},
		}
		for name, in := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := RequireConsent(in)

				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeConsentMissing))
				assert.Contains(t, err.Error(), "malformed")
				assert.Equal(t, "malformed", RejectionReason(err))
			})
		}
	})
}

func TestRequireConsentDoesNotMutateInput(t *testing.T) {
	in := activeRecord()
	snapshot := *in

	got, err := RequireConsent(in)
	require.NoError(t, err)

	got.UserID = "changed"
	assert.Equal(t, snapshot, *in)
}

func TestRejectionReasonIgnoresForeignErrors(t *testing.T) {
	assert.Empty(t, RejectionReason(nil))
	assert.Empty(t, RejectionReason(dErrors.New(dErrors.CodeServiceRoleForbidden, "nope")))
	assert.Equal(t, "unknown", RejectionReason(dErrors.New(dErrors.CodeConsentMissing, "other")))
}
