package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_NigerianForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"already_normalized", "+2348123456789"},
		{"trunk_prefix", "08123456789"},
		{"bare_subscriber", "8123456789"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, Validate(tc.in))
			got, err := Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, "+2348123456789", got)
		})
	}
}

func TestValidate_RecognizedCountryCodes(t *testing.T) {
	for _, number := range []string{
		"+254712345678", // Kenya
		"+27123456789",  // South Africa
		"+233123456789", // Ghana
		"+12345678901",  // NANP
	} {
		assert.True(t, Validate(number), "expected %s to be valid", number)
	}
}

func TestValidate_Rejections(t *testing.T) {
	for _, number := range []string{
		"invalid",
		"123",
		"",
		"+999123456789",
		"+234",              // country code with no subscriber part
		"+2341",             // subscriber part below the minimum
		"+1234567",          // NANP code with only six subscriber digits
		"+2348123456789012", // 16 digits total, past the E.164 maximum
		"+23481234a678",     // embedded letter
		"081234567",         // 9 digits: neither trunk nor bare form
	} {
		assert.False(t, Validate(number), "expected %s to be invalid", number)
		_, err := Normalize(number)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, number := range []string{
		"+2348123456789",
		"08123456789",
		"8123456789",
		"+254712345678",
		"+12345678901",
	} {
		once, err := Normalize(number)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}
