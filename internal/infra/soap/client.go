package soap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/infra/httpclient"
	"github.com/aalvaropc/suitemap/internal/infra/logger"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/record"
)

const contentType = "text/xml; charset=utf-8"

// Client dispatches record actions as SuiteTalk SOAP calls.
type Client struct {
	endpoint string
	version  string
	headers  domain.Headers
	prefs    Preferences

	exec  *httpclient.Executor
	store ports.ExchangeStore
	log   *slog.Logger

	newID func() string
	now   func() time.Time
}

type Option func(*Client)

// WithExecutor replaces the HTTP executor (tests point it at httptest servers).
func WithExecutor(e *httpclient.Executor) Option {
	return func(c *Client) { c.exec = e }
}

// WithStore journals every exchange.
func WithStore(s ports.ExchangeStore) Option {
	return func(c *Client) { c.store = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithPreferences(p Preferences) Option {
	return func(c *Client) { c.prefs = p }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New builds a client from configuration. The endpoint is taken from the config or
// derived from the account id.
func New(cfg domain.Config, opts ...Option) (*Client, error) {
	endpoint, err := cfg.EndpointURL()
	if err != nil {
		return nil, err
	}

	headers := domain.Headers{}
	for k, v := range cfg.Endpoint.Headers {
		headers[k] = v
	}

	hc := httpclient.DefaultConfig()
	if cfg.Endpoint.Timeout > 0 {
		hc.Timeout = cfg.Endpoint.Timeout
		hc.ResponseHeader = cfg.Endpoint.Timeout
	}

	c := &Client{
		endpoint: endpoint,
		version:  cfg.Endpoint.APIVersion,
		headers:  headers,
		prefs: Preferences{
			IgnoreReadOnlyFields: true,
			BodyFieldsOnly:       cfg.Search.BodyFieldsOnly,
			PageSize:             cfg.Search.PageSize,
		},
		exec: httpclient.NewExecutor(
			httpclient.WithClient(httpclient.New(hc)),
			httpclient.WithTimeout(hc.Timeout),
			httpclient.WithMaxBodyBytes(cfg.Endpoint.MaxBodyBytes),
		),
		log:   logger.L(),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ ports.Dispatcher = (*Client)(nil)

// Endpoint returns the URL calls are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) Get(ctx context.Context, ref domain.RecordRef) (domain.Response, error) {
	return c.call(ctx, domain.ActionGet, ref.Type, false, 0, baseRef(ref))
}

func (c *Client) GetList(ctx context.Context, refs []domain.RecordRef) (domain.Response, error) {
	nodes := make([]*domain.Node, 0, len(refs))
	typ := ""
	for _, ref := range refs {
		nodes = append(nodes, baseRef(ref))
		if typ == "" {
			typ = ref.Type
		}
	}
	return c.call(ctx, domain.ActionGetList, typ, false, 0, nodes...)
}

func (c *Client) Initialize(ctx context.Context, typeName string, reference domain.RecordRef) (domain.Response, error) {
	n := domain.NewNode(record.PlatformMsgs.Q("initializeRecord")).Append(
		domain.TextNode(record.PlatformCore.Q("type"), typeName),
		record.EncodeRef(record.PlatformCore.Q("reference"), reference),
	)
	return c.call(ctx, domain.ActionInitialize, typeName, false, 0, n)
}

func (c *Client) Add(ctx context.Context, rec *domain.Node) (domain.Response, error) {
	return c.call(ctx, domain.ActionAdd, xsiType(rec), false, 0, rec)
}

func (c *Client) Delete(ctx context.Context, ref domain.RecordRef) (domain.Response, error) {
	return c.call(ctx, domain.ActionDelete, ref.Type, false, 0, baseRef(ref))
}

func (c *Client) Update(ctx context.Context, rec *domain.Node) (domain.Response, error) {
	return c.call(ctx, domain.ActionUpdate, xsiType(rec), false, 0, rec)
}

func (c *Client) Upsert(ctx context.Context, rec *domain.Node) (domain.Response, error) {
	return c.call(ctx, domain.ActionUpsert, xsiType(rec), false, 0, rec)
}

func (c *Client) Search(ctx context.Context, searchRecord *domain.Node, pageSize int) (domain.Response, error) {
	return c.call(ctx, domain.ActionSearch, xsiType(searchRecord), true, pageSize, searchRecord)
}

func (c *Client) SearchMoreWithID(ctx context.Context, searchID string, pageIndex int) (domain.Response, error) {
	return c.call(ctx, domain.ActionSearchMore, "", true, 0,
		domain.TextNode(record.PlatformMsgs.Q("searchId"), searchID),
		domain.TextNode(record.PlatformMsgs.Q("pageIndex"), strconv.Itoa(pageIndex)),
	)
}

func (c *Client) call(ctx context.Context, action domain.Action, recordType string, search bool, pageSize int, body ...*domain.Node) (domain.Response, error) {
	op := action.Operation()

	prefs := c.prefs
	if pageSize > 0 {
		prefs.PageSize = pageSize
	}
	payload, err := Envelope(c.version, op, body, prefs, search)
	if err != nil {
		return domain.Response{}, &domain.OpError{Op: "soap." + op, Kind: domain.KindExecution, Err: err}
	}

	headers := domain.Headers{}
	for k, v := range c.headers {
		headers[k] = v
	}
	headers["SOAPAction"] = op

	req, err := httpclient.BuildRequest(ctx, httpclient.Request{
		Method:      http.MethodPost,
		URL:         c.endpoint,
		Headers:     headers,
		Body:        payload,
		ContentType: contentType,
	})
	if err != nil {
		return domain.Response{}, err
	}

	ex := domain.Exchange{
		ID:             c.newID(),
		Action:         action,
		RecordType:     recordType,
		Endpoint:       c.endpoint,
		StartedAt:      c.now().UTC(),
		RequestHeaders: cloneHeader(req.Header),
		Request:        string(payload),
	}

	res, doErr := c.exec.Do(ctx, req)
	ex.LatencyMS = res.Duration.Milliseconds()
	ex.StatusCode = res.Status
	ex.Response = string(res.BodyBytes)
	ex.Truncated = res.Truncated

	if doErr != nil {
		err := &domain.OpError{Op: "soap." + op, Kind: domain.KindExecution, Path: c.endpoint, Err: doErr}
		ex.Error = domain.NewCallError(doErr)
		c.finish(ex, err)
		return domain.Response{}, err
	}
	if res.Truncated {
		err := &domain.OpError{
			Op:   "soap." + op,
			Kind: domain.KindExecution,
			Path: c.endpoint,
			Err:  fmt.Errorf("%w after %d bytes (raise endpoint.max_body_bytes)", domain.ErrTruncated, len(res.BodyBytes)),
		}
		ex.Error = domain.NewCallError(err)
		c.finish(ex, err)
		return domain.Response{}, err
	}

	resp, perr := Parse(res.BodyBytes)
	if perr != nil {
		var fault *Fault
		switch {
		case errors.As(perr, &fault):
			ex.Error = &domain.CallError{Kind: domain.CallErrorFault, Message: fault.Error()}
		case res.Status >= http.StatusBadRequest:
			perr = &domain.OpError{
				Op:   "soap." + op,
				Kind: domain.KindRemote,
				Path: c.endpoint,
				Err:  fmt.Errorf("http status %d: %w", res.Status, domain.ErrRemote),
			}
			ex.Error = &domain.CallError{Kind: domain.CallErrorHTTP, Message: perr.Error()}
		default:
			ex.Error = domain.NewCallError(perr)
		}
		c.finish(ex, perr)
		return domain.Response{}, perr
	}

	ex.Success = resp.Success
	c.finish(ex, nil)
	return resp, nil
}

func (c *Client) finish(ex domain.Exchange, err error) {
	attrs := []any{
		"id", ex.ID,
		"action", string(ex.Action),
		"record_type", ex.RecordType,
		"status", ex.StatusCode,
		"success", ex.Success,
		"latency_ms", ex.LatencyMS,
	}
	if err != nil {
		c.log.Warn("soap.call", append(attrs, "err", err)...)
	} else {
		c.log.Info("soap.call", attrs...)
	}

	if c.store == nil {
		return
	}
	if _, serr := c.store.SaveExchange(ex); serr != nil {
		c.log.Warn("soap.journal", "id", ex.ID, "err", serr)
	}
}

func baseRef(ref domain.RecordRef) *domain.Node {
	n := record.EncodeRef(record.PlatformMsgs.Q("baseRef"), ref)
	n.SetAttr("xsi:type", record.PlatformCore.Q("RecordRef"))
	return n
}

func xsiType(n *domain.Node) string {
	v, _ := n.Attr("xsi:type")
	return v
}

func cloneHeader(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
