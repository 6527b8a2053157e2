package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueTokenShape(t *testing.T) {
	svc := NewPaymentTokenService()

	token, err := svc.IssueToken(PaymentTokenRequest{Amount: 56000, Method: "qris", ItemCount: 2})
	require.NoError(t, err)
	assert.True(t, ValidTokenShape(token.Token))
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestIssueTokenValidation(t *testing.T) {
	svc := NewPaymentTokenService()

	_, err := svc.IssueToken(PaymentTokenRequest{Amount: 0, Method: "qris"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.IssueToken(PaymentTokenRequest{Amount: 1000, Method: ""})
	require.ErrorAs(t, err, &validation)
}

func TestValidTokenShapeRejectsGarbage(t *testing.T) {
	assert.False(t, ValidTokenShape(""))
	assert.False(t, ValidTokenShape("tok_123"))
	assert.False(t, ValidTokenShape("pay_notanumber_"+uuid.NewString()))
	assert.False(t, ValidTokenShape("pay_12345"))

	// Token kedaluwarsa diperlakukan seperti tidak ada
	expired := fmt.Sprintf("pay_%d_%s", time.Now().Add(-time.Minute).Unix(), uuid.NewString())
	assert.False(t, ValidTokenShape(expired))

	// UUID rusak
	live := fmt.Sprintf("pay_%d_%s", time.Now().Add(time.Minute).Unix(), "not-a-uuid")
	assert.False(t, ValidTokenShape(live))
}
