package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{"bare kind", Action{Kind: ActMainMenu}},
		{"single id", Action{Kind: ActCategoryPanel, ID: 42}},
		{"zero id sentinel", Action{Kind: ActWizardCategory, ID: 0}},
		{"two ids", Action{Kind: ActMoveTarget, ID: 7, Target: 13}},
		{"two ids with zero target", Action{Kind: ActMoveTarget, ID: 7, Target: 0}},
		{"large id", Action{Kind: ActEditProduct, ID: 9223372036854775807}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeAction(tt.action.Encode())
			assert.NoError(t, err)
			assert.Equal(t, tt.action, decoded)
		})
	}
}

func TestActionEncodeStaysWithinCallbackLimit(t *testing.T) {
	// Chat platforms cap callback payloads at 64 bytes; the widest possible
	// action must fit.
	widest := Action{Kind: ActMoveTarget, ID: 9223372036854775807, Target: 9223372036854775807}
	assert.LessOrEqual(t, len(widest.Encode()), 64)
}

func TestDecodeActionRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"unknown kind", "nope"},
		{"missing field", "cpan"},
		{"extra field", "home:1"},
		{"too many fields", "emvto:1:2:3"},
		{"non-numeric id", "cpan:abc"},
		{"non-numeric target", "emvto:1:xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAction(tt.payload)
			assert.ErrorIs(t, err, ErrBadAction)
		})
	}
}
