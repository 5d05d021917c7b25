package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreditStatType(t *testing.T) {
	got, err := ParseCreditStatType("creditRetired")
	require.NoError(t, err)
	assert.Equal(t, CreditStatsRetired, got)

	_, err = ParseCreditStatType("creditBurned")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCertifiedLabelsAliasPlainLabels(t *testing.T) {
	assert.Equal(t, CreditStatsBalance, CreditCertifiedBalance)
	assert.Equal(t, CreditStatsTransferred, CreditCertifiedTransferred)
	assert.Equal(t, CreditStatsRetired, CreditCertifiedRetired)
	assert.Equal(t, CreditStatsIssued, CreditCertifiedIssued)
	assert.Len(t, CreditStatTypes, 4)
}

func TestLedgerEventTypeFor(t *testing.T) {
	cases := []struct {
		role   CompanyRole
		want   LedgerEventType
		wantOK bool
	}{
		{CompanyRoleProgrammeDeveloper, LedgerEventFreezeCompany, true},
		{CompanyRoleCertifier, LedgerEventRevokeCertifications, true},
		{CompanyRoleGovernment, "", false},
		{CompanyRoleAPI, "", false},
	}
	for _, tc := range cases {
		got, ok := LedgerEventTypeFor(tc.role)
		assert.Equal(t, tc.wantOK, ok, tc.role)
		assert.Equal(t, tc.want, got, tc.role)
	}
}
