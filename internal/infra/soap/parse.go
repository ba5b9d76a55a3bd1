package soap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Fault is a SOAP fault returned by the remote service.
type Fault struct {
	Code    string
	String  string
	Detail  string
	Message string
}

func (f *Fault) Error() string {
	msg := f.String
	if f.Message != "" && f.Message != msg {
		msg = strings.TrimSpace(msg + " " + f.Message)
	}
	if f.Detail != "" {
		return fmt.Sprintf("soap fault %s (%s): %s", f.Code, f.Detail, msg)
	}
	return fmt.Sprintf("soap fault %s: %s", f.Code, msg)
}

func (f *Fault) Unwrap() error { return domain.ErrRemote }

// Parse reads a response envelope. Element prefixes are ignored: only local names are
// matched. A SOAP fault is returned as a KindRemote error wrapping *Fault.
func Parse(b []byte) (domain.Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return domain.Response{}, invalidResponse(fmt.Errorf("malformed xml: %w", err))
	}

	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return domain.Response{}, invalidResponse(fmt.Errorf("missing soap envelope"))
	}
	body := root.SelectElement("Body")
	if body == nil {
		return domain.Response{}, invalidResponse(fmt.Errorf("missing soap body"))
	}
	first := firstElement(body)
	if first == nil {
		return domain.Response{}, invalidResponse(fmt.Errorf("empty soap body"))
	}
	if first.Tag == "Fault" {
		return domain.Response{}, &domain.OpError{
			Op:   "soap.parse",
			Kind: domain.KindRemote,
			Err:  parseFault(toNode(first)),
		}
	}

	result := firstElement(first)
	if result == nil {
		return domain.Response{}, invalidResponse(fmt.Errorf("%s: missing result", first.Tag))
	}
	return parseResult(toNode(result))
}

func parseResult(n *domain.Node) (domain.Response, error) {
	switch n.Local() {
	case "readResponse":
		resp := statusOf(n)
		resp.Body = n.Child("record")
		return resp, nil

	case "writeResponse":
		resp := statusOf(n)
		resp.Body = n.Child("baseRef")
		return resp, nil

	case "readResponseList", "writeResponseList":
		resp := statusOf(n)
		item := strings.TrimSuffix(n.Local(), "List")
		for _, c := range n.ChildrenNamed(item) {
			r, err := parseResult(c)
			if err != nil {
				return domain.Response{}, err
			}
			resp.Items = append(resp.Items, r)
		}
		if n.Child("status") == nil {
			resp.Success = true
		}
		return resp, nil

	case "searchResult":
		resp := statusOf(n)
		page, err := pageOf(n)
		if err != nil {
			return domain.Response{}, err
		}
		resp.Page = page
		return resp, nil
	}
	return domain.Response{}, invalidResponse(fmt.Errorf("unexpected result element %q", n.Name))
}

func statusOf(n *domain.Node) domain.Response {
	var resp domain.Response
	st := n.Child("status")
	if st == nil {
		return resp
	}
	v, _ := st.Attr("isSuccess")
	resp.Success = v == "true"
	for _, d := range st.ChildrenNamed("statusDetail") {
		detail := domain.StatusDetail{}
		detail.Type, _ = d.Attr("type")
		if c := d.Child("code"); c != nil {
			detail.Code = c.Text
		}
		if m := d.Child("message"); m != nil {
			detail.Message = m.Text
		}
		resp.Details = append(resp.Details, detail)
	}
	return resp
}

func pageOf(n *domain.Node) (*domain.SearchPage, error) {
	p := &domain.SearchPage{}
	ints := []struct {
		name string
		dst  *int
	}{
		{"totalRecords", &p.TotalRecords},
		{"pageSize", &p.PageSize},
		{"totalPages", &p.TotalPages},
		{"pageIndex", &p.PageIndex},
	}
	for _, it := range ints {
		c := n.Child(it.name)
		if c == nil || c.Text == "" {
			continue
		}
		v, err := strconv.Atoi(c.Text)
		if err != nil {
			return nil, invalidResponse(fmt.Errorf("%s: %w", it.name, err))
		}
		*it.dst = v
	}
	if id := n.Child("searchId"); id != nil {
		p.SearchID = id.Text
	}
	if list := n.Child("recordList"); list != nil {
		p.Records = list.ChildrenNamed("record")
	}
	return p, nil
}

func parseFault(n *domain.Node) *Fault {
	f := &Fault{}
	if c := n.Child("faultcode"); c != nil {
		f.Code = c.Text
	}
	if s := n.Child("faultstring"); s != nil {
		f.String = s.Text
	}
	if d := n.Child("detail"); d != nil && len(d.Children) > 0 {
		inner := d.Children[0]
		if c := inner.Child("code"); c != nil {
			f.Detail = c.Text
		}
		if m := inner.Child("message"); m != nil {
			f.Message = m.Text
		}
	}
	return f
}

func invalidResponse(err error) error {
	return &domain.OpError{
		Op:   "soap.parse",
		Kind: domain.KindRemote,
		Err:  fmt.Errorf("%w: %v", domain.ErrRemote, err),
	}
}

func firstElement(e *etree.Element) *etree.Element {
	for _, t := range e.Child {
		if c, ok := t.(*etree.Element); ok {
			return c
		}
	}
	return nil
}

// toNode converts an element subtree, dropping namespace declarations.
func toNode(e *etree.Element) *domain.Node {
	n := domain.NewNode(e.FullTag())
	for _, a := range e.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		n.SetAttr(a.FullKey(), a.Value)
	}
	children := e.ChildElements()
	if len(children) == 0 {
		n.Text = strings.TrimSpace(e.Text())
		return n
	}
	for _, c := range children {
		n.Append(toNode(c))
	}
	return n
}
