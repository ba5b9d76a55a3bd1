package actions

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/record"
	"github.com/aalvaropc/suitemap/internal/records"
)

type fakeDispatcher struct {
	resp  domain.Response
	pages map[int]domain.Response
	err   error

	calls    []string
	lastRef  domain.RecordRef
	lastRefs []domain.RecordRef
	lastType string
	lastNode *domain.Node
	lastPage int
	lastSize int
	lastID   string
}

func (f *fakeDispatcher) record(op string) (domain.Response, error) {
	f.calls = append(f.calls, op)
	return f.resp, f.err
}

func (f *fakeDispatcher) Get(_ context.Context, ref domain.RecordRef) (domain.Response, error) {
	f.lastRef = ref
	return f.record("get")
}

func (f *fakeDispatcher) GetList(_ context.Context, refs []domain.RecordRef) (domain.Response, error) {
	f.lastRefs = refs
	return f.record("getList")
}

func (f *fakeDispatcher) Initialize(_ context.Context, typeName string, ref domain.RecordRef) (domain.Response, error) {
	f.lastType, f.lastRef = typeName, ref
	return f.record("initialize")
}

func (f *fakeDispatcher) Add(_ context.Context, n *domain.Node) (domain.Response, error) {
	f.lastNode = n
	return f.record("add")
}

func (f *fakeDispatcher) Delete(_ context.Context, ref domain.RecordRef) (domain.Response, error) {
	f.lastRef = ref
	return f.record("delete")
}

func (f *fakeDispatcher) Update(_ context.Context, n *domain.Node) (domain.Response, error) {
	f.lastNode = n
	return f.record("update")
}

func (f *fakeDispatcher) Upsert(_ context.Context, n *domain.Node) (domain.Response, error) {
	f.lastNode = n
	return f.record("upsert")
}

func (f *fakeDispatcher) Search(_ context.Context, n *domain.Node, pageSize int) (domain.Response, error) {
	f.lastNode, f.lastSize = n, pageSize
	return f.record("search")
}

func (f *fakeDispatcher) SearchMoreWithID(_ context.Context, id string, page int) (domain.Response, error) {
	f.lastID, f.lastPage = id, page
	f.calls = append(f.calls, "searchMoreWithId")
	return f.pages[page], f.err
}

func successResponse() domain.Response {
	return domain.Response{
		Success: true,
		Body:    domain.NewNode("baseRef").SetAttr("internalId", "1").SetAttr("externalId", "some id"),
	}
}

func checkType(t *testing.T) record.Type {
	t.Helper()
	typ, err := records.Registry().Lookup("check")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	return typ
}

func TestGetSuccess(t *testing.T) {
	d := &fakeDispatcher{resp: successResponse()}

	rec, err := Get(context.Background(), d, checkType(t), domain.RecordRef{ExternalID: "some id"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	c, ok := rec.(*records.Check)
	if !ok {
		t.Fatalf("expected *records.Check, got %T", rec)
	}
	if c.InternalID() != "1" {
		t.Fatalf("expected internal id 1, got %q", c.InternalID())
	}
	if d.lastRef.Type != "check" || d.lastRef.ExternalID != "some id" {
		t.Fatalf("unexpected ref sent: %+v", d.lastRef)
	}
}

func TestGetNotFound(t *testing.T) {
	d := &fakeDispatcher{resp: domain.Response{Success: false}}

	_, err := Get(context.Background(), d, checkType(t), domain.RecordRef{ExternalID: "some id"})
	var nf *domain.RecordNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected RecordNotFoundError, got %v", err)
	}
	if !regexp.MustCompile(`Check with OPTIONS=(.*) could not be found`).MatchString(err.Error()) {
		t.Fatalf("unexpected message: %s", err)
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound")
	}
}

func TestInitialize(t *testing.T) {
	vendor := domain.RecordRef{InternalID: "9", Type: "vendor"}

	d := &fakeDispatcher{resp: successResponse()}
	rec, err := Initialize(context.Background(), d, checkType(t), vendor)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, ok := rec.(*records.Check); !ok {
		t.Fatalf("expected *records.Check, got %T", rec)
	}
	if d.lastType != "check" || d.lastRef != vendor {
		t.Fatalf("unexpected initialize call: %s %+v", d.lastType, d.lastRef)
	}

	d = &fakeDispatcher{resp: domain.Response{Success: false}}
	_, err = Initialize(context.Background(), d, checkType(t), vendor)
	var ie *domain.InitializationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InitializationError, got %v", err)
	}
	if !regexp.MustCompile(`Check\.initialize with .+ failed\.`).MatchString(err.Error()) {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestAdd(t *testing.T) {
	c, _ := records.NewCheck(record.Attributes{"memo": "some check"})

	d := &fakeDispatcher{resp: successResponse()}
	ok, err := Add(context.Background(), d, checkType(t), c)
	if err != nil || !ok {
		t.Fatalf("expected add to succeed: %v", err)
	}
	if c.InternalID() != "1" {
		t.Fatalf("expected internal id from response, got %q", c.InternalID())
	}
	if typ, _ := d.lastNode.Attr("xsi:type"); typ != "tranBank:Check" {
		t.Fatalf("unexpected record sent: %+v", d.lastNode)
	}

	c2, _ := records.NewCheck(nil)
	d = &fakeDispatcher{resp: domain.Response{Success: false}}
	ok, err = Add(context.Background(), d, checkType(t), c2)
	if err != nil || ok {
		t.Fatalf("expected false without error, got %v / %v", ok, err)
	}
	if c2.InternalID() != "" {
		t.Fatalf("failed add must not set an internal id")
	}
}

func TestAddRejectsUnrenderableCustomField(t *testing.T) {
	c, _ := records.NewCheck(record.Attributes{"memo": "x"})
	c.CustomFieldList = &record.CustomFieldList{CustomFields: []record.CustomField{
		{ScriptID: "custbody_sel", Type: record.SelectCustomFieldRef, Value: 12.5},
	}}

	d := &fakeDispatcher{resp: successResponse()}
	_, err := Add(context.Background(), d, checkType(t), c)
	if !domain.IsKind(err, domain.KindInvalidRecord) {
		t.Fatalf("expected invalid_record, got %v", err)
	}
	if len(d.calls) != 0 {
		t.Fatalf("no remote call expected, got %v", d.calls)
	}
}

func TestDelete(t *testing.T) {
	c, _ := records.NewCheck(record.Attributes{"internal_id": "1"})

	d := &fakeDispatcher{resp: successResponse()}
	ok, err := Delete(context.Background(), d, checkType(t), c)
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed: %v", err)
	}
	if d.lastRef.InternalID != "1" || d.lastRef.Type != "check" {
		t.Fatalf("unexpected ref: %+v", d.lastRef)
	}

	d = &fakeDispatcher{resp: domain.Response{Success: false}}
	ok, err = Delete(context.Background(), d, checkType(t), c)
	if err != nil || ok {
		t.Fatalf("expected false without error, got %v / %v", ok, err)
	}
}

func TestDeleteRequiresID(t *testing.T) {
	c, _ := records.NewCheck(nil)
	d := &fakeDispatcher{resp: successResponse()}

	_, err := Delete(context.Background(), d, checkType(t), c)
	if !domain.IsKind(err, domain.KindInvalidRecord) {
		t.Fatalf("expected invalid_record, got %v", err)
	}
	if len(d.calls) != 0 {
		t.Fatalf("no remote call expected")
	}
}

func TestUpdateAndUpsert(t *testing.T) {
	c, _ := records.NewCheck(record.Attributes{"external_id": "ext-1", "memo": "x"})

	d := &fakeDispatcher{resp: successResponse()}
	if ok, err := Update(context.Background(), d, checkType(t), c); err != nil || !ok {
		t.Fatalf("update: %v / %v", ok, err)
	}
	if ok, err := Upsert(context.Background(), d, checkType(t), c); err != nil || !ok {
		t.Fatalf("upsert: %v / %v", ok, err)
	}
	if c.InternalID() != "1" {
		t.Fatalf("expected upsert to adopt internal id")
	}
	if id, _ := d.lastNode.Attr("externalId"); id != "ext-1" {
		t.Fatalf("expected externalId on record element")
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	d := &fakeDispatcher{err: boom}
	c, _ := records.NewCheck(nil)

	if _, err := Add(context.Background(), d, checkType(t), c); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestGetListPartialFailure(t *testing.T) {
	d := &fakeDispatcher{resp: domain.Response{
		Success: true,
		Items: []domain.Response{
			{Success: true, Body: domain.NewNode("record").SetAttr("internalId", "1")},
			{Success: false, Details: []domain.StatusDetail{{Type: "ERROR", Code: "INVALID_KEY_OR_REF", Message: "nope"}}},
			{Success: true, Body: domain.NewNode("record").SetAttr("internalId", "3")},
		},
	}}

	recs, failures, err := GetList(context.Background(), d, checkType(t), []domain.RecordRef{
		{InternalID: "1"}, {InternalID: "2"}, {InternalID: "3"},
	})
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(recs) != 2 || len(failures) != 1 {
		t.Fatalf("expected 2 records and 1 failure, got %d / %d", len(recs), len(failures))
	}
	for _, ref := range d.lastRefs {
		if ref.Type != "check" {
			t.Fatalf("expected typed refs, got %+v", ref)
		}
	}
}

func TestUnsupportedAction(t *testing.T) {
	limited := record.TypeOf[records.Check](&record.Schema[records.Check]{
		Name:      "Check",
		TypeName:  "check",
		Namespace: record.TranBank,
		Actions:   []domain.Action{domain.ActionGet},
		IDs:       func(c *records.Check) *record.Identity { return &c.Identity },
	})
	d := &fakeDispatcher{resp: successResponse()}
	c, _ := records.NewCheck(nil)

	_, err := Add(context.Background(), d, limited, c)
	if !domain.IsKind(err, domain.KindUnsupportedAction) {
		t.Fatalf("expected unsupported_action, got %v", err)
	}
	if len(d.calls) != 0 {
		t.Fatalf("no remote call expected, got %v", d.calls)
	}
}
