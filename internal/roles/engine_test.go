package roles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	signals SignalMap
	err     error
	calls   int
	names   []string
	hints   []string
}

func (f *fakeClassifier) Classify(ctx context.Context, names, hints []string) (SignalMap, error) {
	f.calls++
	f.names = names
	f.hints = hints
	return f.signals, f.err
}

func TestResolve_ClassifierSignalsAreCopied(t *testing.T) {
	fc := &fakeClassifier{signals: SignalMap{RoleDate: "Txn_Date"}}
	res := NewEngine(fc).Resolve(context.Background(), salesRequest())

	fc.signals[RoleDate] = "Region"
	fc.signals[RoleMeasure] = "Row_Id"

	assert.Equal(t, SignalMap{RoleDate: "Txn_Date"}, res.Classifier.Signals)
	assert.Equal(t, "Txn_Date", res.Assignment[RoleDate])
}

type blockingClassifier struct{}

func (blockingClassifier) Classify(ctx context.Context, names, hints []string) (SignalMap, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func salesRequest() Request {
	return Request{Fields: []Field{
		{Name: "Txn_Date", Table: "SalesTable"},
		{Name: "Row_Id", Table: "SalesTable"},
		{Name: "Region", Table: "SalesTable"},
	}}
}

func TestHierarchyLevel(t *testing.T) {
	assert.Equal(t, "Quarter", HierarchyLevel(nil))
	assert.Equal(t, "Quarter", HierarchyLevel([]string{"no level here"}))
	assert.Equal(t, "Month", HierarchyLevel([]string{"Orders.Date.Variation.Date Hierarchy.MONTH"}))
	assert.Equal(t, "Year", HierarchyLevel([]string{"plain", "year then month"}))
	assert.Equal(t, "Week", HierarchyLevel([]string{"iso week"}))
}

func TestHierarchyLevel_WeekPrecedesWeekday(t *testing.T) {
	for _, hint := range []string{"by weekday", "Date.Weekday", "WEEKDAY"} {
		assert.Equal(t, "Week", HierarchyLevel([]string{hint}), hint)
	}

	fs := salesFields()
	a := Assignment{RoleDate: "Txn_Date", RoleEventGroup: "Txn_Date"}
	p := Project(a, fs, []string{"Date.Weekday"})
	assert.Equal(t, "SalesTable.Txn_Date.Variation.Date Hierarchy.Week", p.Ref(RoleEventGroup).QueryRef)
}

func TestProject(t *testing.T) {
	fs := salesFields()
	a := Assignment{
		RoleDate:       "Txn_Date",
		RoleEventGroup: "Txn_Date",
		RoleCategory:   "Region",
	}

	p := Project(a, fs, []string{"Date Hierarchy Month"})
	assert.Equal(t, "Month", p.HierarchyLevel)
	assert.Equal(t, "SalesTable.Txn_Date", p.Ref(RoleDate).QueryRef)
	assert.Equal(t, "SalesTable.Txn_Date.Variation.Date Hierarchy.Month", p.Ref(RoleEventGroup).QueryRef)
	assert.Equal(t, "SalesTable", p.Ref(RoleCategory).Table)
	assert.True(t, p.Ref(RoleCategory).Resolved)

	missing := p.Ref(RoleMeasure)
	assert.False(t, missing.Resolved)
	assert.Equal(t, "Unknown.Unknown", missing.QueryRef)
	assert.Equal(t, Unknown, missing.Table)
}

func TestEngine_SalesScenarioWithoutClassifier(t *testing.T) {
	res := NewEngine(nil).Resolve(context.Background(), salesRequest())

	require.False(t, res.Empty())
	assert.Equal(t, ClassifierSkipped, res.Classifier.Status)
	assert.True(t, res.Classifier.Degraded())
	assert.Empty(t, res.Unresolved)
	assert.Equal(t, Assignment{
		RoleDate:       "Txn_Date",
		RoleEventIndex: "Row_Id",
		RoleCategory:   "Region",
		RoleWeekLabel:  "Txn_Date",
		RoleLegend:     "Region",
		RoleMeasure:    "Row_Id",
		RoleEventGroup: "Txn_Date",
	}, res.Assignment)
	assert.Equal(t, "SalesTable.Txn_Date.Variation.Date Hierarchy.Quarter",
		res.Projection.Ref(RoleEventGroup).QueryRef)

	require.Len(t, res.Stages, 4)
	assert.Equal(t, "naming", res.Stages[2].Stage)
	assert.Equal(t, 6, res.Stages[2].MissingAfter)
	assert.Equal(t, 0, res.Stages[3].MissingAfter)
}

func TestEngine_ClassifierTakesPriority(t *testing.T) {
	fc := &fakeClassifier{signals: SignalMap{
		RoleDate:     "Txn_Date",
		RoleCategory: "Row_Id",
		RoleMeasure:  "Invented",
	}}
	req := salesRequest()
	req.HierarchyHints = []string{"Year"}

	res := NewEngine(fc).Resolve(context.Background(), req)

	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, []string{"Txn_Date", "Row_Id", "Region"}, fc.names)
	assert.Equal(t, []string{"Year"}, fc.hints)
	assert.Equal(t, ClassifierOK, res.Classifier.Status)
	assert.False(t, res.Classifier.Degraded())
	assert.Equal(t, "Row_Id", res.Assignment[RoleCategory])
	assert.Equal(t, "Row_Id", res.Assignment[RoleEventIndex], "naming signal still fills event_index")
	assert.Equal(t, "Row_Id", res.Assignment[RoleMeasure], "unknown classifier value is discarded")
	assert.Equal(t, "Year", res.Projection.HierarchyLevel)
}

func TestEngine_ClassifierFailureDegradesSilently(t *testing.T) {
	fc := &fakeClassifier{err: errors.New("service unavailable")}

	res := NewEngine(fc).Resolve(context.Background(), salesRequest())
	baseline := NewEngine(nil).Resolve(context.Background(), salesRequest())

	assert.Equal(t, ClassifierFailed, res.Classifier.Status)
	assert.EqualError(t, res.Classifier.Err, "service unavailable")
	assert.Empty(t, res.Classifier.Signals)
	assert.Equal(t, baseline.Assignment, res.Assignment)
}

func TestEngine_ClassifierTimeout(t *testing.T) {
	e := NewEngine(blockingClassifier{}, WithClassifierTimeout(20*time.Millisecond))

	res := e.Resolve(context.Background(), salesRequest())
	assert.Equal(t, ClassifierFailed, res.Classifier.Status)
	assert.ErrorIs(t, res.Classifier.Err, context.DeadlineExceeded)
	assert.Empty(t, res.Unresolved)
}

func TestEngine_EmptyInput(t *testing.T) {
	fc := &fakeClassifier{}

	res := NewEngine(fc).Resolve(context.Background(), Request{})
	assert.True(t, res.Empty())
	assert.Equal(t, 0, fc.calls)
	assert.Equal(t, All(), res.Unresolved)
	assert.False(t, res.Projection.Ref(RoleDate).Resolved)
}

func TestEngine_SchemaSignals(t *testing.T) {
	req := Request{
		Fields: []Field{
			{Name: "Opened", Table: "Tickets"},
			{Name: "Severity", Table: "Tickets"},
			{Name: "Minutes", Table: "Tickets"},
		},
		Schema: mapLookup{"Tickets": {"Opened": "date", "Severity": "string", "Minutes": "int"}},
	}

	res := NewEngine(nil).Resolve(context.Background(), req)
	assert.Equal(t, "Opened", res.Assignment[RoleDate])
	assert.Equal(t, "Severity", res.Assignment[RoleCategory])
	assert.Equal(t, "Minutes", res.Assignment[RoleMeasure])
	assert.Equal(t, "Opened", res.Assignment[RoleEventGroup])
}

func TestEngine_Reproducible(t *testing.T) {
	e := NewEngine(&fakeClassifier{signals: SignalMap{RoleLegend: "Region"}})

	first := e.Resolve(context.Background(), salesRequest())
	second := e.Resolve(context.Background(), salesRequest())
	assert.Equal(t, first.Assignment, second.Assignment)
	assert.Equal(t, first.Projection, second.Projection)
}
