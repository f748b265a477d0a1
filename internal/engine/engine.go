// Package engine sweeps the endpoints of an OpenAPI document, drives one
// request per endpoint, and fans each response out to the validators.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/ziadkadry99/apivet/internal/config"
	"github.com/ziadkadry99/apivet/internal/httpclient"
	"github.com/ziadkadry99/apivet/internal/progress"
	"github.com/ziadkadry99/apivet/internal/spec"
	"github.com/ziadkadry99/apivet/internal/validator"
)

// Engine validates endpoints of one document against a live API.
type Engine struct {
	doc        *spec.Document
	client     *httpclient.Client
	validators []validator.Validator
	cfg        *config.Config
	reporter   progress.Reporter
	events     EventSink
	runID      string
}

// Option adjusts an Engine at construction.
type Option func(*Engine)

// WithReporter sets the progress reporter. Default is no progress output.
func WithReporter(r progress.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithEventSink sets the sink progress events are published to.
func WithEventSink(s EventSink) Option {
	return func(e *Engine) { e.events = s }
}

// WithRunID tags published events with a run id.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// New creates an Engine. The base URL comes from config when set, otherwise
// from the document's servers entry.
func New(doc *spec.Document, cfg *config.Config, opts ...Option) (*Engine, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = doc.BaseURL()
	}
	if baseURL == "" {
		return nil, fmt.Errorf("no base URL: set base_url in config or a servers entry in the spec")
	}

	e := &Engine{
		doc:        doc,
		client:     httpclient.New(baseURL, cfg.HTTP, cfg.Headers),
		validators: validator.All(),
		cfg:        cfg,
		reporter:   progress.NopReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ValidateAll sweeps every endpoint passing the configured include/exclude
// filters, with bounded concurrency. Results come back in endpoint order.
func (e *Engine) ValidateAll(ctx context.Context, data TestData) ([]EndpointResult, Summary, error) {
	endpoints := FilterEndpoints(e.doc.Endpoints(), e.cfg.Include, e.cfg.Exclude)
	if len(endpoints) == 0 {
		return nil, Summary{}, fmt.Errorf("no endpoints to validate after filtering")
	}

	e.publish(Event{Type: EventRunStarted, RunID: e.runID, Total: len(endpoints)})
	e.reporter.Start(len(endpoints))
	defer e.reporter.Finish()

	concurrency := e.cfg.Validation.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]EndpointResult, len(endpoints))
	sem := make(chan struct{}, concurrency)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for i := range endpoints {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			ep := endpoints[idx]
			results[idx] = e.ValidateEndpoint(ctx, &ep, data[ep.ID()])

			mu.Lock()
			done++
			current := done
			mu.Unlock()

			e.reporter.Update(current, ep.ID())
			e.publish(Event{
				Type:       EventEndpointFinished,
				RunID:      e.runID,
				EndpointID: ep.ID(),
				Success:    results[idx].Success,
				Current:    current,
				Total:      len(endpoints),
			})
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	summary := Summarize(results)
	e.publish(Event{Type: EventRunFinished, RunID: e.runID, Total: len(endpoints), Summary: &summary})
	return results, summary, nil
}

// ValidateEndpoint requests one endpoint and validates the response. A
// transport failure produces a failed result rather than an error; the
// sweep must survive individual endpoints being down.
func (e *Engine) ValidateEndpoint(ctx context.Context, ep *spec.Endpoint, data CaseData) EndpointResult {
	result := EndpointResult{Endpoint: *ep}

	req := httpclient.Request{
		Method:     ep.Method,
		Path:       ep.Path,
		PathParams: data.PathParams,
		Query:      data.Query,
		Headers:    data.Headers,
		JSONBody:   data.JSON,
	}

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Duration = resp.Duration
	result.Request = e.requestDetails(req, resp.FinalURL)
	result.Response = e.responseDetails(resp)

	result.Success = true
	for _, v := range e.validators {
		vr := v.Validate(resp, ep)
		result.Validations = append(result.Validations, vr)
		if !vr.Passed(e.cfg.Validation.StrictMode) {
			result.Success = false
		}
	}

	return result
}

func (e *Engine) requestDetails(req httpclient.Request, finalURL string) *RequestDetails {
	if !e.cfg.Reporting.IncludeRequestDetails {
		return nil
	}
	details := &RequestDetails{
		Method: req.Method,
		URL:    finalURL,
	}
	if len(req.Headers) > 0 {
		details.Headers = req.Headers
	}
	if req.JSONBody != nil {
		details.Body = fmt.Sprintf("%v", req.JSONBody)
	}
	return details
}

func (e *Engine) responseDetails(resp *httpclient.Response) *ResponseDetails {
	details := &ResponseDetails{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		BodySize:   len(resp.Body),
	}

	details.Headers = make(map[string]string, len(resp.Headers))
	for name := range resp.Headers {
		details.Headers[name] = resp.Headers.Get(name)
	}

	if e.cfg.Reporting.IncludeResponseBody {
		limit := e.cfg.Reporting.MaxResponseBodyBytes
		body := resp.Body
		if limit > 0 && len(body) > limit {
			body = body[:limit]
		}
		details.Body = string(body)
	}

	return details
}

func (e *Engine) publish(ev Event) {
	if e.events != nil {
		e.events.Publish(ev)
	}
}
