package validation_test

import (
	"strings"
	"testing"

	"github.com/isometry/gh-workflow-relay/internal/helpers"
	"github.com/isometry/gh-workflow-relay/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "s3cr3t"
	testBody      = "hello"
	testSignature = "sha256=6b23653f08c72072554e5dfef9b72efe01fcfe724a950689e991e7bd7089eb3e"
)

func TestWebhookSecret_Verify(t *testing.T) {
	testCases := []struct {
		Name              string
		Secret            *string
		Header            *string
		Body              string
		Expected          bool
		ExpectFormatError bool
	}{
		{
			Name:     "no_secret_no_header",
			Body:     testBody,
			Expected: true,
		},
		{
			Name:     "no_secret_any_header",
			Header:   helpers.Ptr("garbage"),
			Body:     testBody,
			Expected: true,
		},
		{
			Name:     "secret_missing_header",
			Secret:   helpers.Ptr(testSecret),
			Body:     testBody,
			Expected: false,
		},
		{
			Name:     "valid_signature",
			Secret:   helpers.Ptr(testSecret),
			Header:   helpers.Ptr(testSignature),
			Body:     testBody,
			Expected: true,
		},
		{
			Name:     "valid_signature_other_body",
			Secret:   helpers.Ptr(testSecret),
			Header:   helpers.Ptr(testSignature),
			Body:     testBody + "!",
			Expected: false,
		},
		{
			Name:     "wrong_secret",
			Secret:   helpers.Ptr("other"),
			Header:   helpers.Ptr(testSignature),
			Body:     testBody,
			Expected: false,
		},
		{
			Name:     "empty_secret_is_a_key",
			Secret:   helpers.Ptr(""),
			Header:   helpers.Ptr("sha256=4352b26e33fe0d769a8922a6ba29004109f01688e26acc9e6cb347e5a5afc4da"),
			Body:     testBody,
			Expected: true,
		},
		{
			Name:     "upper_case_digest",
			Secret:   helpers.Ptr(testSecret),
			Header:   helpers.Ptr("sha256=" + strings.ToUpper(strings.TrimPrefix(testSignature, "sha256="))),
			Body:     testBody,
			Expected: false,
		},
		{
			Name:              "missing_prefix",
			Secret:            helpers.Ptr(testSecret),
			Header:            helpers.Ptr(strings.TrimPrefix(testSignature, "sha256=")),
			Body:              testBody,
			ExpectFormatError: true,
		},
		{
			Name:              "sha1_prefix",
			Secret:            helpers.Ptr(testSecret),
			Header:            helpers.Ptr("sha1=3a0f1a4e0d6b0f9e4c3b1c9e1c6b2d1a0f9e8d7c"),
			Body:              testBody,
			ExpectFormatError: true,
		},
		{
			Name:              "non_hex_digest",
			Secret:            helpers.Ptr(testSecret),
			Header:            helpers.Ptr("sha256=zz23653f08c72072554e5dfef9b72efe01fcfe724a950689e991e7bd7089eb3e"),
			Body:              testBody,
			ExpectFormatError: true,
		},
		{
			Name:              "short_digest",
			Secret:            helpers.Ptr(testSecret),
			Header:            helpers.Ptr("sha256=6b23653f"),
			Body:              testBody,
			ExpectFormatError: true,
		},
		{
			Name:              "empty_header",
			Secret:            helpers.Ptr(testSecret),
			Header:            helpers.Ptr(""),
			Body:              testBody,
			ExpectFormatError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			secret := validation.NewWebhookSecret(tc.Secret)
			ok, err := secret.Verify([]byte(tc.Body), tc.Header)
			if tc.ExpectFormatError {
				var formatErr *validation.SignatureFormatError
				require.ErrorAs(t, err, &formatErr)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, ok)
		})
	}
}

func TestWebhookSecret_VerifyFlippedDigest(t *testing.T) {
	secret := validation.NewWebhookSecret(helpers.Ptr(testSecret))
	digest := strings.TrimPrefix(testSignature, validation.SignaturePrefix)

	for i := range digest {
		flipped := []byte(digest)
		if flipped[i] == '0' {
			flipped[i] = '1'
		} else {
			flipped[i] = '0'
		}
		header := validation.SignaturePrefix + string(flipped)

		ok, err := secret.Verify([]byte(testBody), &header)
		require.NoError(t, err, "position %d", i)
		assert.False(t, ok, "position %d", i)
	}
}

func TestWebhookSecret_Sign(t *testing.T) {
	secret := validation.NewWebhookSecret(helpers.Ptr(testSecret))
	assert.Equal(t, testSignature, secret.Sign([]byte(testBody)))
	assert.True(t, secret.Configured())

	var none *validation.WebhookSecret
	assert.False(t, none.Configured())
}

func TestSignatureHeader(t *testing.T) {
	assert.Equal(t, "x-hub-signature-256", validation.SignatureHeader)
}
