package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type row struct {
	CompanyID int64
	TaxID     string
	Country   string
	State     int
}

func (row) TableName() string { return "companies" }

var testFields = FieldMap{
	"companyId": "company_id",
	"taxId":     "tax_id",
	"country":   "country",
	"state":     "state",
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/registry",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func buildSQL(t *testing.T, expr clause.Expression) (string, []any) {
	t.Helper()
	tx := dryRunDB(t).Model(&row{})
	if expr != nil {
		tx = tx.Where(expr)
	}
	stmt := tx.Find(&[]row{}).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestCompile_EmptyConditionIsNil(t *testing.T) {
	c := NewCompiler(testFields)

	expr, err := c.Compile(nil)
	require.NoError(t, err)
	assert.Nil(t, expr)

	expr, err = c.Compile(Condition{})
	require.NoError(t, err)
	assert.Nil(t, expr)
}

func TestCompile_BareValueIsEquality(t *testing.T) {
	c := NewCompiler(testFields)

	expr, err := c.Compile(Condition{"companyId": int64(7)})
	require.NoError(t, err)

	sql, vars := buildSQL(t, expr)
	assert.Contains(t, sql, "`company_id` = ?")
	assert.Equal(t, []any{int64(7)}, vars)
}

func TestCompile_ValuesAreNeverInlined(t *testing.T) {
	c := NewCompiler(testFields)
	hostile := "1' OR '1'='1"

	expr, err := c.Compile(Condition{"taxId": hostile})
	require.NoError(t, err)

	sql, vars := buildSQL(t, expr)
	assert.NotContains(t, sql, hostile)
	assert.Equal(t, []any{hostile}, vars)
}

func TestCompile_Operators(t *testing.T) {
	c := NewCompiler(testFields)

	expr, err := c.Compile(Condition{
		"state":   map[string]any{"$in": []any{0, 1}},
		"country": map[string]any{"$ne": "LK"},
		"$or": []any{
			map[string]any{"companyId": map[string]any{"$gte": 10}},
			map[string]any{"taxId": map[string]any{"$exists": false}},
		},
	})
	require.NoError(t, err)

	sql, vars := buildSQL(t, expr)
	assert.Equal(t, "SELECT * FROM `companies` WHERE (`company_id` >= ? OR `tax_id` IS NULL) AND `country` <> ? AND `state` IN (?,?)", sql)
	assert.Equal(t, []any{10, "LK", 0, 1}, vars)
}

func TestCompile_SingleOrStaysConjunctive(t *testing.T) {
	c := NewCompiler(testFields)

	expr, err := c.Compile(Condition{
		"$and": []any{
			map[string]any{"country": "LK"},
			map[string]any{"state": 1},
		},
		"$or": []any{map[string]any{"companyId": 3}},
	})
	require.NoError(t, err)

	sql, vars := buildSQL(t, expr)
	assert.Equal(t, "SELECT * FROM `companies` WHERE (`country` = ? AND `state` = ?) AND `company_id` = ?", sql)
	assert.Equal(t, []any{"LK", 1, 3}, vars)
}

func TestCompile_NotIn(t *testing.T) {
	c := NewCompiler(testFields)

	expr, err := c.Compile(Condition{"country": map[string]any{"$nin": []string{"LK", "NG"}}})
	require.NoError(t, err)

	sql, vars := buildSQL(t, expr)
	assert.Contains(t, sql, "`country` NOT IN (?,?)")
	assert.Equal(t, []any{"LK", "NG"}, vars)
}

func TestCompile_Rejects(t *testing.T) {
	c := NewCompiler(testFields)

	_, err := c.Compile(Condition{"password": "x"})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = c.Compile(Condition{"state": map[string]any{"$regex": ".*"}})
	assert.ErrorIs(t, err, ErrUnknownOperator)

	_, err = c.Compile(Condition{"$where": "1=1"})
	assert.ErrorIs(t, err, ErrUnknownOperator)

	_, err = c.Compile(Condition{"state": map[string]any{"$in": 3}})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = c.Compile(Condition{"$or": "nope"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = c.Compile(Condition{"state": map[string]any{"$in": []any{1}, "value": 2}})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = c.Compile(Condition{"country": map[string]any{"code": "LK"}})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = c.Compile(Condition{"country": map[string]any{}})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestWhere_CombinesFiltersWithAbility(t *testing.T) {
	c := NewCompiler(testFields)

	ability, err := c.Compile(Condition{"companyId": int64(3)})
	require.NoError(t, err)

	expr, err := c.Where(
		[]FilterBy{{Key: "country", Operation: "=", Value: "LK"}},
		[]FilterBy{
			{Key: "taxId", Operation: "like", Value: "%99%"},
			{Key: "state", Operation: "in", Value: []any{1, 2}},
		},
		ability,
	)
	require.NoError(t, err)

	sql, vars := buildSQL(t, expr)
	assert.Equal(t, "SELECT * FROM `companies` WHERE `country` = ? AND (`tax_id` LIKE ? OR `state` IN (?,?)) AND `company_id` = ?", sql)
	assert.Equal(t, []any{"LK", "%99%", 1, 2, int64(3)}, vars)
}

func TestWhere_SingleOrFilterKeepsAbility(t *testing.T) {
	c := NewCompiler(testFields)

	ability, err := c.Compile(Condition{"companyId": int64(3)})
	require.NoError(t, err)
	state := []FilterBy{{Key: "state", Operation: "=", Value: 1}}

	tests := []struct {
		name      string
		filterAnd []FilterBy
		want      string
		vars      []any
	}{
		{
			name: "or only",
			want: "SELECT * FROM `companies` WHERE `state` = ? AND `company_id` = ?",
			vars: []any{1, int64(3)},
		},
		{
			name:      "and plus or",
			filterAnd: []FilterBy{{Key: "country", Operation: "=", Value: "LK"}},
			want:      "SELECT * FROM `companies` WHERE `country` = ? AND `state` = ? AND `company_id` = ?",
			vars:      []any{"LK", 1, int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := c.Where(tt.filterAnd, state, ability)
			require.NoError(t, err)

			sql, vars := buildSQL(t, expr)
			assert.Equal(t, tt.want, sql)
			assert.Equal(t, tt.vars, vars)
		})
	}
}

func TestWhere_SingleOrFilterWithAlternativeAbility(t *testing.T) {
	c := NewCompiler(testFields)

	ability, err := c.Compile(Condition{"$or": []any{
		map[string]any{"companyId": int64(3)},
		map[string]any{"country": "KE"},
	}})
	require.NoError(t, err)

	expr, err := c.Where(nil, []FilterBy{{Key: "state", Operation: "=", Value: 1}}, ability)
	require.NoError(t, err)

	sql, vars := buildSQL(t, expr)
	assert.Equal(t, "SELECT * FROM `companies` WHERE `state` = ? AND (`company_id` = ? OR `country` = ?)", sql)
	assert.Equal(t, []any{1, int64(3), "KE"}, vars)
}

func TestWhere_NothingToFilter(t *testing.T) {
	c := NewCompiler(testFields)

	expr, err := c.Where(nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, expr)
}

func TestFilter_UnknownOperation(t *testing.T) {
	c := NewCompiler(testFields)

	_, err := c.Filter(FilterBy{Key: "country", Operation: "~", Value: "LK"})
	assert.ErrorIs(t, err, ErrUnknownOperator)

	_, err = c.Filter(FilterBy{Key: "country", Operation: "like", Value: 5})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestOrderBy(t *testing.T) {
	c := NewCompiler(testFields)

	_, ok, err := c.OrderBy(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	col, ok, err := c.OrderBy(&Sort{Key: "companyId", Order: "desc"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "company_id", col.Column.Name)
	assert.True(t, col.Desc)

	_, _, err = c.OrderBy(&Sort{Key: "companyId", Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidSortOrder)

	_, _, err = c.OrderBy(&Sort{Key: "\"companyId\"; DROP TABLE companies"})
	assert.ErrorIs(t, err, ErrUnknownField)
}
