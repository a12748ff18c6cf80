package roles

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesFields() *FieldSet {
	return NewFieldSet(
		Field{Name: "Txn_Date", Table: "SalesTable"},
		Field{Name: "Row_Id", Table: "SalesTable"},
		Field{Name: "Region", Table: "SalesTable"},
	)
}

func TestMerge_ClassifierBeatsSchemaBeatsNaming(t *testing.T) {
	fs := NewFieldSet(
		Field{Name: "Ship_Date"},
		Field{Name: "Order_Date"},
		Field{Name: "Txn_Date"},
	)
	classifier := SignalMap{RoleDate: "Ship_Date"}
	schema := SignalMap{RoleDate: "Order_Date", RoleMeasure: "Order_Date"}
	naming := SignalMap{RoleDate: "Txn_Date", RoleMeasure: "Txn_Date", RoleWeekLabel: "Txn_Date"}

	got := Merge(fs, classifier, schema, naming)
	assert.Equal(t, "Ship_Date", got[RoleDate])
	assert.Equal(t, "Order_Date", got[RoleMeasure])
	assert.Equal(t, "Txn_Date", got[RoleWeekLabel])
	assert.Len(t, got, 3)
}

func TestMerge_SkipsValuesOutsideFieldSet(t *testing.T) {
	fs := NewFieldSet(Field{Name: "Order_Date"})
	classifier := SignalMap{RoleDate: "Hallucinated", RoleLegend: ""}
	schema := SignalMap{RoleDate: "Order_Date"}

	got := Merge(fs, classifier, schema)
	assert.Equal(t, Assignment{RoleDate: "Order_Date"}, got)
}

func TestComplete_SalesScenario(t *testing.T) {
	fs := salesFields()
	partial := Merge(fs, SignalMap{}, SignalMap{}, InferFromNames(fs))
	require.Equal(t, Assignment{RoleEventIndex: "Row_Id"}, partial)

	got, unresolved := Complete(partial, fs)
	assert.Empty(t, unresolved)
	assert.Equal(t, Assignment{
		RoleDate:       "Txn_Date",
		RoleEventIndex: "Row_Id",
		RoleCategory:   "Region",
		RoleWeekLabel:  "Txn_Date",
		RoleLegend:     "Region",
		RoleMeasure:    "Row_Id",
		RoleEventGroup: "Txn_Date",
	}, got)
}

func TestComplete_CategorySkipsUsedFields(t *testing.T) {
	fs := NewFieldSet(Field{Name: "Amount"}, Field{Name: "Region"})

	got, _ := Complete(Assignment{RoleMeasure: "Amount"}, fs)
	assert.Equal(t, "Region", got[RoleCategory])
	assert.Equal(t, "Region", got[RoleLegend])
	assert.Equal(t, "Amount", got[RoleDate], "ultimate fallback uses the first field")
	assert.Equal(t, "Amount", got[RoleEventGroup])
}

func TestComplete_PatternStepsRespectUsedFields(t *testing.T) {
	fs := NewFieldSet(
		Field{Name: "Order Date"},
		Field{Name: "Ship Date"},
		Field{Name: "Line Num"},
		Field{Name: "Week Status"},
	)

	got, _ := Complete(Assignment{RoleCategory: "Order Date"}, fs)
	assert.Equal(t, "Ship Date", got[RoleDate])
	assert.Equal(t, "Line Num", got[RoleEventIndex])
	assert.Equal(t, "Week Status", got[RoleWeekLabel])
	assert.Equal(t, "Week Status", got[RoleLegend])
	assert.Equal(t, "Line Num", got[RoleMeasure])
	assert.Equal(t, "Ship Date", got[RoleEventGroup])
}

func TestComplete_KeepsFilledRolesAndDropsForeignValues(t *testing.T) {
	fs := salesFields()

	partial := Assignment{RoleLegend: "Row_Id", RoleDate: "Nope"}
	got, _ := Complete(partial, fs)
	assert.Equal(t, Assignment{RoleLegend: "Row_Id", RoleDate: "Nope"}, partial, "input is left untouched")
	assert.Equal(t, "Row_Id", got[RoleLegend])
	assert.Equal(t, "Txn_Date", got[RoleDate])
	for _, v := range got {
		assert.True(t, fs.Has(v), "value %q must belong to the field set", v)
	}
}

func TestComplete_IsTotalForNonEmptyFieldSets(t *testing.T) {
	names := []string{"Alpha", "beta_id", "Gamma Week", "delta time", "Status", "Amount"}
	roles := All()

	for n := 1; n <= len(names); n++ {
		var fields []Field
		for _, name := range names[:n] {
			fields = append(fields, Field{Name: name, Table: "T"})
		}
		fs := NewFieldSet(fields...)

		partials := []Assignment{{}, nil}
		for i, r := range roles {
			partials = append(partials, Assignment{r: names[i%n]})
		}

		for i, p := range partials {
			t.Run(fmt.Sprintf("fields=%d/partial=%d", n, i), func(t *testing.T) {
				got, unresolved := Complete(p, fs)
				assert.Empty(t, unresolved)
				assert.Empty(t, got.Missing())
				for _, r := range roles {
					v, ok := got.Get(r)
					require.True(t, ok, "role %s missing", r)
					assert.True(t, fs.Has(v))
				}
			})
		}
	}
}

func TestComplete_Deterministic(t *testing.T) {
	fs := NewFieldSet(
		Field{Name: "b_time"}, Field{Name: "a_label"}, Field{Name: "c_row"}, Field{Name: "d"},
	)
	partial := Assignment{RoleMeasure: "d"}

	first, _ := Complete(partial, fs)
	for i := 0; i < 50; i++ {
		again, _ := Complete(partial, fs)
		require.Equal(t, first, again)
	}
	assert.Equal(t, Assignment{RoleMeasure: "d"}, partial, "input must not be mutated")
}

func TestComplete_EmptyFieldSetLeavesRolesUnresolved(t *testing.T) {
	got, unresolved := Complete(Assignment{RoleDate: "Txn_Date"}, NewFieldSet())
	assert.Empty(t, got)
	assert.Equal(t, All(), unresolved)
}
