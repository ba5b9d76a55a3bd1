package actions

import (
	"context"
	"fmt"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/record"
)

// SearchResult is one decoded page of search results.
type SearchResult struct {
	TotalRecords int
	TotalPages   int
	PageIndex    int
	PageSize     int
	SearchID     string
	Records      []record.Record
}

// More reports whether later pages remain.
func (r SearchResult) More() bool {
	return r.SearchID != "" && r.PageIndex < r.TotalPages
}

// Search runs a basic search and returns the first page.
func Search(ctx context.Context, d ports.Dispatcher, t record.Type, c domain.SearchCriteria) (SearchResult, error) {
	if err := ensure(t, domain.ActionSearch); err != nil {
		return SearchResult{}, err
	}

	n, err := record.SearchRecord(t, c)
	if err != nil {
		return SearchResult{}, err
	}

	resp, err := d.Search(ctx, n, c.PageSize)
	if err != nil {
		return SearchResult{}, err
	}
	return decodePage(t, domain.ActionSearch, resp)
}

// SearchMore fetches a later page of a previous search.
func SearchMore(ctx context.Context, d ports.Dispatcher, t record.Type, searchID string, pageIndex int) (SearchResult, error) {
	if err := ensure(t, domain.ActionSearchMore); err != nil {
		return SearchResult{}, err
	}
	if searchID == "" {
		return SearchResult{}, &domain.OpError{
			Op:   "actions.search_more",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("search id is required: %w", domain.ErrInvalidConfig),
		}
	}

	resp, err := d.SearchMoreWithID(ctx, searchID, pageIndex)
	if err != nil {
		return SearchResult{}, err
	}
	return decodePage(t, domain.ActionSearchMore, resp)
}

// SearchAll runs a search and follows every page. A continuation whose page index
// does not move past the previous one fails the search.
func SearchAll(ctx context.Context, d ports.Dispatcher, t record.Type, c domain.SearchCriteria) (SearchResult, error) {
	first, err := Search(ctx, d, t, c)
	if err != nil {
		return SearchResult{}, err
	}

	all := first
	all.Records = append([]record.Record(nil), first.Records...)
	for page := first; page.More(); {
		if err := ctx.Err(); err != nil {
			return SearchResult{}, err
		}
		prev := page.PageIndex
		page, err = SearchMore(ctx, d, t, first.SearchID, prev+1)
		if err != nil {
			return SearchResult{}, err
		}
		if page.PageIndex <= prev {
			return SearchResult{}, &domain.OpError{
				Op:   "actions.search_all",
				Kind: domain.KindRemote,
				Path: t.Name(),
				Err:  fmt.Errorf("asked for page %d, got page %d: %w", prev+1, page.PageIndex, domain.ErrRemote),
			}
		}
		all.Records = append(all.Records, page.Records...)
		all.PageIndex = page.PageIndex
	}
	return all, nil
}

func decodePage(t record.Type, a domain.Action, resp domain.Response) (SearchResult, error) {
	if !resp.Success {
		return SearchResult{}, &domain.OpError{
			Op:   "actions." + string(a),
			Kind: domain.KindRemote,
			Path: t.Name(),
			Err:  fmt.Errorf("%s: %w", resp.ErrorMessages(), domain.ErrRemote),
		}
	}

	out := SearchResult{}
	if resp.Page == nil {
		return out, nil
	}

	p := resp.Page
	out = SearchResult{
		TotalRecords: p.TotalRecords,
		TotalPages:   p.TotalPages,
		PageIndex:    p.PageIndex,
		PageSize:     p.PageSize,
		SearchID:     p.SearchID,
		Records:      make([]record.Record, 0, len(p.Records)),
	}
	for _, n := range p.Records {
		rec, err := t.Decode(n)
		if err != nil {
			return SearchResult{}, err
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}
