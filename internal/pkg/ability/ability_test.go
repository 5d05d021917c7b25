package ability

import (
	"os"
	"path/filepath"
	"testing"

	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/pkg/querybuilder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultAbility(t *testing.T, s Subject) *Ability {
	t.Helper()
	p, err := Load("")
	require.NoError(t, err)
	return p.For(s)
}

func TestCondition_GovernmentAdminIsUnrestricted(t *testing.T) {
	a := defaultAbility(t, Subject{UserID: "1", Role: "Admin", CompanyRole: "Government", CompanyID: 1, Country: "LK"})

	for _, action := range []string{ActionRead, ActionCreate, ActionSuspend, ActionActivate} {
		cond, err := a.Condition(action)
		require.NoError(t, err, action)
		assert.Nil(t, cond, action)
	}
}

func TestCondition_ViewerCannotSuspend(t *testing.T) {
	a := defaultAbility(t, Subject{UserID: "2", Role: "ViewOnly", CompanyRole: "Government"})

	assert.True(t, a.Can(ActionRead))
	_, err := a.Condition(ActionSuspend)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCondition_CertifierAdminFillsCountry(t *testing.T) {
	a := defaultAbility(t, Subject{UserID: "3", Role: "Admin", CompanyRole: "Certifier", CompanyID: 9, Country: "LK"})

	cond, err := a.Condition(ActionSuspend)
	require.NoError(t, err)
	assert.Equal(t, querybuilder.Condition{"companyRole": "ProgrammeDeveloper", "country": "LK"}, cond)

	_, err = a.Condition(ActionCreate)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCondition_DeveloperReadsOwnCompanyOrCountry(t *testing.T) {
	a := defaultAbility(t, Subject{UserID: "4", Role: "Manager", CompanyRole: "ProgrammeDeveloper", CompanyID: 12, Country: "KE"})

	cond, err := a.Condition(ActionRead)
	require.NoError(t, err)
	assert.Equal(t, querybuilder.Condition{
		"$or": []any{
			map[string]any{"companyId": int64(12)},
			map[string]any{"country": "KE"},
		},
	}, cond)
}

func TestCondition_MergesConditionalRules(t *testing.T) {
	p, err := Parse([]byte(`
rules:
  - companyRoles: ["*"]
    userRoles: ["*"]
    actions: [read]
    condition: {companyId: "${companyId}"}
  - companyRoles: [Certifier]
    userRoles: ["*"]
    actions: [read]
    condition: {companyRole: ProgrammeDeveloper}
`))
	require.NoError(t, err)

	cond, err := p.For(Subject{CompanyRole: "Certifier", Role: "Admin", CompanyID: 3}).Condition(ActionRead)
	require.NoError(t, err)
	assert.Equal(t, querybuilder.Condition{
		"$or": []any{
			map[string]any{"companyId": int64(3)},
			map[string]any{"companyRole": "ProgrammeDeveloper"},
		},
	}, cond)
}

func TestCondition_UnknownRoleIsForbidden(t *testing.T) {
	a := defaultAbility(t, Subject{Role: "Admin", CompanyRole: "Broker"})

	_, err := a.Condition(ActionRead)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLoad(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules:\n  - companyRoles: [API]\n    userRoles: ['*']\n    actions: [read]\n"), 0o600))

		p, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, p.Rules, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("rule without actions", func(t *testing.T) {
		_, err := Parse([]byte("rules:\n  - companyRoles: [API]\n"))
		assert.Error(t, err)
	})

	t.Run("empty policy", func(t *testing.T) {
		_, err := Parse([]byte("rules: []\n"))
		assert.Error(t, err)
	})
}
